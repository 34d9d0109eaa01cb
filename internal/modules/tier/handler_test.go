package tier

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	NewHandler(Default()).RegisterRoutes(r)
	return r
}

func TestHandlerListTiers(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []TierDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 4)
	assert.Equal(t, Free, body[0].Tier)
	assert.Equal(t, Tier3, body[3].Tier)
	assert.Len(t, body[3].AccessibleFields, 40)
}

func TestHandlerGetTier(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/tier1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var detail TierDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "Professional", detail.Name)
	assert.Equal(t, 3, detail.MaxLocations)
	assert.Contains(t, detail.AccessibleFields, "companyName")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/gold", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerCheckFeature(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/tier1/features/apiAccess", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var check FeatureCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.False(t, check.Allowed)
	require.NotNil(t, check.MinimumTier)
	assert.Equal(t, Tier2, *check.MinimumTier)
}

func TestHandlerValidateFields(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tiers/free/fields/validate",
		strings.NewReader(`{"fields":["companyName","videoUrl"]}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"videoUrl"}, res.RestrictedFields)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tiers/free/fields/validate", strings.NewReader(`{"fields":[]}`))
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerValidateLocation(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/tier2/locations/validate?count=11", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var res LocationLimitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, 10, res.MaxAllowed)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/tier2/locations/validate?count=many", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tiers/tier2/locations/validate?count=-2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
