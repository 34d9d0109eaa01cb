package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
	"github.com/georgemunganga/vendor-directory/internal/shared/httputil"
)

type contextKey struct{}

// Middleware rejects requests without a valid bearer token and stores the
// vendor ID from the token in the request context.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				httputil.RespondError(w, r, apperrors.NewUnauthorizedError("missing bearer token"))
				return
			}

			vendorID, err := svc.VerifyToken(strings.TrimSpace(tokenString))
			if err != nil {
				httputil.RespondError(w, r, apperrors.NewUnauthorizedError("invalid token").Wrap(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithVendorID(r.Context(), vendorID)))
		})
	}
}

func WithVendorID(ctx context.Context, vendorID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, vendorID)
}

// VendorIDFromContext returns the authenticated vendor, if any.
func VendorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
