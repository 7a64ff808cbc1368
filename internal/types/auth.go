// Package types holds the request and response shapes of the HTTP API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the API representation of an account. The password hash never
// crosses this boundary.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	AccountTier string     `json:"account_tier"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate checks required fields and formats.
func (r *RegisterRequest) Validate() error { return validate.Struct(r) }

// Validate checks required fields and formats.
func (r *LoginRequest) Validate() error { return validate.Struct(r) }
