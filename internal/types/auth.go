package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the authoritative user entity used by the registration and login
// flows. Username and email are unique case-insensitively; PasswordHash is
// never empty once the user is persisted and never serialized.
type User struct {
	ID           string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username     string    `json:"username" example:"johndoe"`                        // Unique username.
	Email        string    `json:"email" example:"john.doe@example.com"`              // Unique email address used for login.
	PasswordHash string    `json:"-"`                                                 // bcrypt hash (never exposed).
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims are the facts embedded in a signed session token. Subject carries
// the user ID, ID carries the per-token jti.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}
