package api

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Sentinel errors shared across the service layer. Handlers map these onto
// HTTP statuses at the boundary; nothing below the handler writes responses.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already exists")
	ErrUnauthenticated = errors.New("invalid credentials")
	ErrBadRequest      = errors.New("invalid request")
	ErrInternal        = errors.New("internal server error")
)

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" example:"johndoe"`          // Desired username. Must be unique.
	Email    string `json:"email" example:"newuser@example.com"` // User's email address. Must be unique.
	Password string `json:"password" example:"Str0ngP@ss!"`      // Desired password.
}

// Validate checks the registration payload shape. Bounds follow the public
// contract: username 3-50 chars, password 6-100 chars, well-formed email.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"` // Email address used at registration.
	Password string `json:"password" example:"password123"`   // User's password.
}

// Validate checks the login payload shape.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse is returned by both register and login on success.
type AuthResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Response is the generic envelope for simple success/error messages.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
