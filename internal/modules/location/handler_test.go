package location

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/vendor-directory/internal/modules/auth"
	"github.com/georgemunganga/vendor-directory/internal/modules/tier"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
)

// headerAuth trusts an X-Vendor header in place of a bearer token.
func headerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get("X-Vendor"))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithVendorID(r.Context(), id)))
	})
}

func newTestRouter(f *fixture) *chi.Mux {
	r := chi.NewRouter()
	NewHandler(f.svc, headerAuth).RegisterRoutes(r)
	return r
}

func do(router http.Handler, method, path, vendorID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if vendorID != "" {
		req.Header.Set("X-Vendor", vendorID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validLocation = `{"address":"1 Harbour Way","city":"Fort Lauderdale","country":"United States","latitude":26.12,"longitude":-80.13}`

func TestHandlerLocationLifecycle(t *testing.T) {
	f := newFixture(tier.Free)
	router := newTestRouter(f)
	vid := f.vendor.ID.String()

	rec := do(router, http.MethodPost, "/api/v1/dashboard/locations", vid, validLocation)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created vendor.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsHQ)

	rec = do(router, http.MethodPost, "/api/v1/dashboard/locations", vid, validLocation)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/dashboard/locations", vid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []vendor.Location
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = do(router, http.MethodPut, "/api/v1/dashboard/locations/"+created.ID.String()+"/headquarters", vid, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/dashboard/locations/"+created.ID.String(), vid, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/dashboard/locations/"+created.ID.String(), vid, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerLocationValidation(t *testing.T) {
	f := newFixture(tier.Tier3)
	router := newTestRouter(f)
	vid := f.vendor.ID.String()

	bodies := []string{
		`{"address":"1 Harbour Way","city":"Fort Lauderdale","country":"United States","latitude":26.12}`,
		`{"address":"1 Harbour Way","city":"Fort Lauderdale","country":"United States","latitude":95,"longitude":0}`,
		`{"address":"Way","city":"Fort Lauderdale","country":"United States","latitude":26.12,"longitude":-80.13}`,
		`{"address":"1 Harbour Way","city":"Fort Lauderdale","latitude":26.12,"longitude":-80.13}`,
		`not json`,
	}
	for _, body := range bodies {
		rec := do(router, http.MethodPost, "/api/v1/dashboard/locations", vid, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, f.repo.locations)

	rec := do(router, http.MethodDelete, "/api/v1/dashboard/locations/not-a-uuid", vid, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerLocationRequiresAuthentication(t *testing.T) {
	f := newFixture(tier.Free)
	rec := do(newTestRouter(f), http.MethodGet, "/api/v1/dashboard/locations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerLocationWithoutMiddlewareContext(t *testing.T) {
	f := newFixture(tier.Free)
	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	NewHandler(f.svc, passthrough).RegisterRoutes(r)

	rec := do(r, http.MethodGet, "/api/v1/dashboard/locations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
