package market

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const productsPath = "/api/products"

// productService implements the ProductService interface
type productService struct {
	client *Client
}

// List retrieves all listings
func (s *productService) List(ctx context.Context) ([]*Product, error) {
	var products []*Product
	if err := s.client.Get(ctx, productsPath, &products); err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	return products, nil
}

// Get retrieves a single listing by ID
func (s *productService) Get(ctx context.Context, productID string) (*Product, error) {
	path, err := productPath(productID)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := s.client.Get(ctx, path, &product); err != nil {
		return nil, errors.Wrapf(err, "failed to get product %s", productID)
	}
	return &product, nil
}

// Create creates a listing as a multipart form, with an optional image
func (s *productService) Create(ctx context.Context, params *CreateProductParams) (*MutationResult, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	form := NewForm().
		AddField("title", params.Title).
		AddField("description", params.Description).
		AddField("price", strconv.Itoa(params.Price)).
		AddField("location", params.Location).
		AddField("categoryId", strconv.FormatInt(params.CategoryID, 10))

	if params.Image != nil && params.Image.Content != nil {
		form.AddFile("image", params.Image.Filename, params.Image.ContentType, params.Image.Content)
	}

	var result MutationResult
	if err := s.client.Post(ctx, productsPath, form, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}
	return &result, nil
}

// CreateJSON creates a listing without an image file
func (s *productService) CreateJSON(ctx context.Context, params *CreateProductParams) (*MutationResult, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var result MutationResult
	if err := s.client.Post(ctx, productsPath+"/json", params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}
	return &result, nil
}

// Update updates an existing listing
func (s *productService) Update(ctx context.Context, productID string, params *UpdateProductParams) (*MutationResult, error) {
	path, err := productPath(productID)
	if err != nil {
		return nil, err
	}
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var result MutationResult
	if err := s.client.Put(ctx, path, params, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to update product %s", productID)
	}
	return &result, nil
}

// Delete deletes a listing
func (s *productService) Delete(ctx context.Context, productID string) (*MutationResult, error) {
	path, err := productPath(productID)
	if err != nil {
		return nil, err
	}

	var result MutationResult
	if err := s.client.Delete(ctx, path, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to delete product %s", productID)
	}
	return &result, nil
}

// UploadImage uploads a standalone image and returns its URL
func (s *productService) UploadImage(ctx context.Context, image *Image) (*MutationResult, error) {
	if image == nil || image.Content == nil {
		return nil, &ValidationError{Field: "image", Message: "must not be empty"}
	}

	form := NewForm().AddFile("image", image.Filename, image.ContentType, image.Content)

	var result MutationResult
	if err := s.client.Post(ctx, productsPath+"/upload-image", form, &result); err != nil {
		return nil, errors.Wrap(err, "failed to upload image")
	}
	return &result, nil
}

// ListBySeller retrieves the listings registered by username. The backend has
// no seller filter, so the full list is filtered here.
func (s *productService) ListBySeller(ctx context.Context, username string) ([]*Product, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "must not be empty"}
	}

	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.SellerUsername == username {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

// Mine retrieves the listings of the logged in user
func (s *productService) Mine(ctx context.Context) ([]*Product, error) {
	username := s.client.session.Username()
	if username == "" {
		return nil, errors.Wrap(ErrNoSession, "no logged in user")
	}
	return s.ListBySeller(ctx, username)
}

func productPath(productID string) (string, error) {
	if strings.TrimSpace(productID) == "" {
		return "", &ValidationError{Field: "productID", Message: "must not be empty"}
	}
	return productsPath + "/" + url.PathEscape(productID), nil
}
