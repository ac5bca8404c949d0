package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the custom claims included in the bearer token.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"usr,omitempty"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

// AuthenticateRequest is the body accepted by the authenticate endpoint.
type AuthenticateRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin"`
}

// AuthenticateResponse carries the issued bearer token.
type AuthenticateResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username" example:"admin"`
	Email     string    `json:"email" example:"admin@medpoint.local"`
	Role      Role      `json:"role" example:"Admin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}
