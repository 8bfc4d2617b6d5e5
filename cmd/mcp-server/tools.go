package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/eshaffer321/secondhand-go/pkg/market"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// marketTools holds the marketplace client and implements all tool handlers
type marketTools struct {
	client *market.Client
}

type ProductEntry struct {
	ID        int64  `json:"id" jsonschema:"Listing ID"`
	Title     string `json:"title" jsonschema:"Listing title"`
	Price     int    `json:"price" jsonschema:"Asking price"`
	Location  string `json:"location" jsonschema:"Where the item can be picked up"`
	Seller    string `json:"seller" jsonschema:"Seller username"`
	Category  string `json:"category,omitempty" jsonschema:"Category name"`
	ImageURL  string `json:"imageUrl,omitempty" jsonschema:"Image URL relative to the backend origin"`
	Sold      bool   `json:"sold" jsonschema:"Whether the item has been sold"`
	CreatedAt string `json:"createdAt,omitempty" jsonschema:"When the listing was created"`
}

func toEntry(p *market.Product) ProductEntry {
	return ProductEntry{
		ID:        p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Location:  p.Location,
		Seller:    p.SellerUsername,
		Category:  p.CategoryName,
		ImageURL:  p.ImageURL,
		Sold:      p.IsSold,
		CreatedAt: p.CreatedAt.String(),
	}
}

// ListProducts tool - lists listings with optional filters
type ListProductsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"Case-insensitive substring of the title (optional)"`
	MaxPrice int    `json:"maxPrice,omitempty" jsonschema:"Maximum price (optional)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of listings to return (default: 50)"`
}

type ListProductsOutput struct {
	Products []ProductEntry `json:"products" jsonschema:"Matching listings"`
	Count    int            `json:"count" jsonschema:"Number of listings returned"`
}

func (t *marketTools) ListProducts(ctx context.Context, req *mcp.CallToolRequest, input ListProductsInput) (*mcp.CallToolResult, ListProductsOutput, error) {
	products, err := t.client.Products.List(ctx)
	if err != nil {
		return nil, ListProductsOutput{}, fmt.Errorf("failed to fetch products: %w", err)
	}

	return nil, filterProducts(products, input), nil
}

func filterProducts(products []*market.Product, input ListProductsInput) ListProductsOutput {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	search := strings.ToLower(input.Search)

	entries := []ProductEntry{}
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if input.MaxPrice > 0 && p.Price > input.MaxPrice {
			continue
		}
		entries = append(entries, toEntry(p))
		if len(entries) >= limit {
			break
		}
	}

	return ListProductsOutput{Products: entries, Count: len(entries)}
}

// GetProduct tool - retrieves a single listing
type GetProductInput struct {
	ID string `json:"id" jsonschema:"Listing ID"`
}

type GetProductOutput struct {
	Product     ProductEntry `json:"product" jsonschema:"The listing"`
	Description string       `json:"description,omitempty" jsonschema:"Seller's description"`
}

func (t *marketTools) GetProduct(ctx context.Context, req *mcp.CallToolRequest, input GetProductInput) (*mcp.CallToolResult, GetProductOutput, error) {
	product, err := t.client.Products.Get(ctx, input.ID)
	if err != nil {
		if market.IsNotFound(err) {
			return nil, GetProductOutput{}, fmt.Errorf("no listing with id %s", input.ID)
		}
		return nil, GetProductOutput{}, fmt.Errorf("failed to fetch product: %w", err)
	}

	return nil, GetProductOutput{
		Product:     toEntry(product),
		Description: product.Description,
	}, nil
}

// ListSellerProducts tool - listings registered by one seller
type ListSellerProductsInput struct {
	Username string `json:"username" jsonschema:"Seller username"`
}

type ListSellerProductsOutput struct {
	Selling []ProductEntry `json:"selling" jsonschema:"Listings still for sale"`
	Sold    []ProductEntry `json:"sold" jsonschema:"Listings already sold"`
}

func (t *marketTools) ListSellerProducts(ctx context.Context, req *mcp.CallToolRequest, input ListSellerProductsInput) (*mcp.CallToolResult, ListSellerProductsOutput, error) {
	products, err := t.client.Products.ListBySeller(ctx, input.Username)
	if err != nil {
		return nil, ListSellerProductsOutput{}, fmt.Errorf("failed to fetch seller products: %w", err)
	}

	out := ListSellerProductsOutput{Selling: []ProductEntry{}, Sold: []ProductEntry{}}
	for _, p := range products {
		if p.IsSold {
			out.Sold = append(out.Sold, toEntry(p))
		} else {
			out.Selling = append(out.Selling, toEntry(p))
		}
	}
	return nil, out, nil
}
