// ABOUTME: Wire types for the catalog REST API
// ABOUTME: Request bodies and the documented response shapes

package client

import "github.com/shopspring/decimal"

// LoginRequest is the POST /auth/login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the POST /auth/refresh body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProductPayload is the POST /products and PUT /products/:id body.
// Stock and ImageURL are sent as null when not supplied.
type ProductPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	ImageURL    *string         `json:"image_url"`
}

// ProductDTO is a product as the API documents it
type ProductDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

// Meta is the status block most responses carry
type Meta struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// UserDTO is the user block of login and profile responses
type UserDTO struct {
	DNI       int64  `json:"dni"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Gender    bool   `json:"gender"`
}

// TokenDTO is the token block of login and refresh responses
type TokenDTO struct {
	AccessToken    string `json:"access_token"`
	AccessExpires  string `json:"access_expires,omitempty"`
	RefreshToken   string `json:"refresh_token"`
	RefreshExpires string `json:"refresh_expires,omitempty"`
}

// AuthResponse is the documented login/refresh response
type AuthResponse struct {
	Meta  Meta     `json:"meta"`
	Token TokenDTO `json:"token"`
	User  *UserDTO `json:"user,omitempty"`
}
