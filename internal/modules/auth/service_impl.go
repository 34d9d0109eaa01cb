package auth

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

type service struct {
	secret []byte
}

// NewService creates a verifier for HS256 tokens signed with secret.
func NewService(secret string) Service {
	return &service{secret: []byte(secret)}
}

func (s *service) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	vendorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a vendor id", ErrInvalidToken)
	}
	return vendorID, nil
}
