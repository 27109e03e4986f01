package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common product validation errors
var (
	ErrEmptyProductID      = errors.New("product ID cannot be empty")
	ErrEmptyProductOwner   = errors.New("product owner cannot be empty")
	ErrEmptyProductName    = errors.New("product name cannot be empty")
	ErrEmptyDescription    = errors.New("product description cannot be empty")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrNegativeQuantity    = errors.New("quantity cannot be negative")
	ErrNoProductImages     = errors.New("product must have at least one image")
)

// Product represents an item offered in the catalog. ImagePaths holds the
// opaque storage paths of the uploaded images in submission order.
type Product struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	OldPrice    float64   `json:"old_price"`
	Quantity    int       `json:"quantity"`
	ImagePaths  []string  `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// User is the owning user, embedded when loaded with the product.
	User *User `json:"user,omitempty"`
}

// NewProduct creates a new Product owned by the given user.
// Returns an error if validation fails.
func NewProduct(
	userID uuid.UUID,
	name, description string,
	price, oldPrice float64,
	quantity int,
	imagePaths []string,
) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Price:       price,
		OldPrice:    oldPrice,
		Quantity:    quantity,
		ImagePaths:  imagePaths,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyProductOwner
	}
	if p.Name == "" {
		return ErrEmptyProductName
	}
	if p.Description == "" {
		return ErrEmptyDescription
	}
	if p.Price < 0 || p.OldPrice < 0 {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if len(p.ImagePaths) == 0 {
		return ErrNoProductImages
	}
	return nil
}
