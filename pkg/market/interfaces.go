package market

import "context"

// ProductService handles listing operations
type ProductService interface {
	// List retrieves all listings
	List(ctx context.Context) ([]*Product, error)

	// Get retrieves a single listing by ID
	Get(ctx context.Context, productID string) (*Product, error)

	// Create creates a listing as a multipart form, with an optional image
	Create(ctx context.Context, params *CreateProductParams) (*MutationResult, error)

	// CreateJSON creates a listing without an image file
	CreateJSON(ctx context.Context, params *CreateProductParams) (*MutationResult, error)

	// Update updates an existing listing
	Update(ctx context.Context, productID string, params *UpdateProductParams) (*MutationResult, error)

	// Delete deletes a listing
	Delete(ctx context.Context, productID string) (*MutationResult, error)

	// UploadImage uploads a standalone image and returns its URL
	UploadImage(ctx context.Context, image *Image) (*MutationResult, error)

	// ListBySeller retrieves the listings registered by username
	ListBySeller(ctx context.Context, username string) ([]*Product, error)

	// Mine retrieves the listings of the logged in user
	Mine(ctx context.Context) ([]*Product, error)
}

// AuthService handles account registration and the session lifecycle
type AuthService interface {
	// Signup registers an account
	Signup(ctx context.Context, params *SignupParams) (*SignupResult, error)

	// Login authenticates and stores the returned token in the session
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Logout clears the session
	Logout() error

	// GetSession returns the current session
	GetSession() (*Session, error)
}

// UserService handles the logged in user's profile
type UserService interface {
	// GetProfile retrieves the current user's profile
	GetProfile(ctx context.Context) (*User, error)

	// UpdateProfile updates the current user's profile
	UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*User, error)
}
