package api

import (
	"github.com/google/uuid"

	"github.com/mealio/ordering-api/internal/domain"
)

// Request payloads

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name                 string `json:"name"                  validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6,max=72,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AddToCartRequest defines the optional body of the add-to-cart endpoint.
// The product comes from the URL path; a missing quantity defaults to one.
type AddToCartRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

// DeleteCartItemsRequest defines the payload for the bulk cart delete
// endpoint.
type DeleteCartItemsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// Response payloads. Every success response carries status and usually a
// message alongside the endpoint-specific data.

// UserResponse wraps a single user record.
type UserResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

// AuthResponse is returned by login and by the federated handoff resolution.
type AuthResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

// ProductListResponse wraps the full catalog.
type ProductListResponse struct {
	Status   bool              `json:"status"`
	Products []*domain.Product `json:"products"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

// CartListResponse wraps the current user's cart.
type CartListResponse struct {
	Status bool               `json:"status"`
	Carts  []*domain.CartItem `json:"carts"`
}

// CartResponse wraps a single cart row plus the confirmation message.
type CartResponse struct {
	Status  bool             `json:"status"`
	Message string           `json:"message"`
	Cart    *domain.CartItem `json:"cart"`
}

// NotificationListResponse wraps the current user's notifications.
type NotificationListResponse struct {
	Status        bool                   `json:"status"`
	Notifications []*domain.Notification `json:"notifications"`
}
