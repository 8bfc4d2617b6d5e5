package market

import "io"

// Product is a listing as returned by the backend
type Product struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Price          int       `json:"price"`
	Location       string    `json:"location"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SellerUsername string    `json:"sellerUsername"`
	CategoryID     int64     `json:"categoryId,omitempty"`
	CategoryName   string    `json:"categoryName"`
	IsSold         bool      `json:"isSold"`
	CreatedAt      Timestamp `json:"createdAt"`
}

// Image is an image file uploaded with a listing
type Image struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CreateProductParams holds the fields of a new listing
type CreateProductParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Location    string `json:"location"`
	CategoryID  int64  `json:"categoryId"`

	// ImageURL references an already uploaded image (JSON create only)
	ImageURL string `json:"imageUrl,omitempty"`

	// Image is sent as the "image" part of a multipart create
	Image *Image `json:"-"`
}

// UpdateProductParams holds the editable fields of a listing
type UpdateProductParams struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// MutationResult is the acknowledgement returned by product writes
type MutationResult struct {
	Message      string `json:"message"`
	Status       string `json:"status"`
	ImageURL     string `json:"imageUrl,omitempty"`
	RegisteredBy string `json:"registeredBy,omitempty"`
	UpdatedBy    string `json:"updatedBy,omitempty"`
	DeletedBy    string `json:"deletedBy,omitempty"`
	UploadedBy   string `json:"uploadedBy,omitempty"`
}

// Succeeded reports whether the backend acknowledged the write
func (r *MutationResult) Succeeded() bool {
	return r != nil && (r.Status == "success" || (r.Status == "" && r.Message != ""))
}

// User is an account record
type User struct {
	ID        int64     `json:"id,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"createdAt,omitempty"`
}

// SignupParams holds the fields of a new account
type SignupParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResult is returned by signup. Token is set when the backend logs the
// new account in immediately.
type SignupResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
}

// LoginCredentials is the login request body
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// UpdateProfileParams holds the editable profile fields
type UpdateProfileParams struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}
