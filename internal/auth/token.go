package auth

import (
	"errors"
	"time"
)

// Claim names shared by every token format
const (
	claimUserID = "userId"
	claimEmail  = "email"
)

// ErrInvalidToken covers every verification failure: malformed, bad
// signature, wrong algorithm or expired. Callers cannot tell them apart.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims represents the claims carried by an authentication token
type TokenClaims struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
