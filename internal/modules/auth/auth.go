// Package auth verifies the bearer tokens issued by the identity provider
// and carries the authenticated vendor through the request context.
package auth

import (
	"errors"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the token claims the directory relies on. The subject is the
// vendor ID.
type Claims struct {
	jwt.StandardClaims
}

// Service defines the interface for token verification.
type Service interface {
	// VerifyToken checks signature and expiry and returns the vendor ID.
	VerifyToken(tokenString string) (uuid.UUID, error)
}
