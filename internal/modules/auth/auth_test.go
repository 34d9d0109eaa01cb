package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, &jwt.StandardClaims{
		Subject:   subject,
		ExpiresAt: expires.Unix(),
	})
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerifyToken(t *testing.T) {
	svc := NewService(testSecret)
	vendorID := uuid.New()
	future := time.Now().Add(time.Hour)

	got, err := svc.VerifyToken(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), vendorID.String(), future))
	require.NoError(t, err)
	assert.Equal(t, vendorID, got)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), vendorID.String(), future)},
		{"expired", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), vendorID.String(), time.Now().Add(-time.Minute))},
		{"other hmac method", signToken(t, jwt.SigningMethodHS512, []byte(testSecret), vendorID.String(), future)},
		{"subject not a uuid", signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "vendor-1", future)},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	svc := NewService(testSecret)
	vendorID := uuid.New()

	var seen uuid.UUID
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := VendorIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), vendorID.String(), time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, vendorID, seen)

	for _, header := range []string{"", "Bearer ", "Basic abc", "Bearer nope"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestVendorIDFromEmptyContext(t *testing.T) {
	_, ok := VendorIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
