package catalog

import (
	"context"
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
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
)

type memoryRepo struct {
	products []*Product
}

func (m *memoryRepo) Create(_ context.Context, p *Product) error {
	c := *p
	m.products = append(m.products, &c)
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *memoryRepo) List(_ context.Context, f ListFilter) ([]*Product, error) {
	out := []*Product{}
	for _, p := range m.products {
		if (f.Category == "" || p.Category == f.Category) &&
			(f.VendorID == uuid.Nil || p.VendorID == f.VendorID) &&
			(!f.ActiveOnly || p.IsActive) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(_ context.Context, p *Product) error {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			c := *p
			m.products[i] = &c
			return nil
		}
	}
	return ErrProductNotFound
}

func (m *memoryRepo) CountByVendor(_ context.Context, vendorID uuid.UUID) (int, error) {
	n := 0
	for _, p := range m.products {
		if p.VendorID == vendorID {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) CountByCategory(_ context.Context, category string) (map[uuid.UUID]int, error) {
	counts := map[uuid.UUID]int{}
	for _, p := range m.products {
		if p.Category == category && p.IsActive {
			counts[p.VendorID]++
		}
	}
	return counts, nil
}

type vendorMap map[uuid.UUID]*vendor.Vendor

func (m vendorMap) GetVendor(_ context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, vendor.ErrVendorNotFound
}

func newTestService(vendors ...*vendor.Vendor) (Service, *memoryRepo, *int) {
	repo := &memoryRepo{}
	lookup := vendorMap{}
	for _, v := range vendors {
		lookup[v.ID] = v
	}
	changes := 0
	return NewService(repo, lookup, tier.Default(), func() { changes++ }), repo, &changes
}

func radar(category string) ProductRequest {
	return ProductRequest{Name: "X-Band Radar", Category: category, Price: 12500}
}

func TestCreateProductEnforcesTierLimit(t *testing.T) {
	tests := []struct {
		tier tier.Tier
		max  int
	}{
		{tier.Free, 3},
		{tier.Tier1, 10},
		{tier.Unknown, 3},
	}
	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			v := &vendor.Vendor{ID: uuid.New(), Tier: tt.tier}
			svc, repo, changes := newTestService(v)
			ctx := context.Background()

			for i := 0; i < tt.max; i++ {
				_, err := svc.CreateProduct(ctx, v.ID, radar("Radar"))
				require.NoError(t, err)
			}
			_, err := svc.CreateProduct(ctx, v.ID, radar("Radar"))
			assert.True(t, apperrors.IsForbiddenError(err))
			assert.Len(t, repo.products, tt.max)
			assert.Equal(t, tt.max, *changes)
		})
	}
}

func TestCreateProductDefaults(t *testing.T) {
	v := &vendor.Vendor{ID: uuid.New(), Tier: tier.Free}
	svc, _, _ := newTestService(v)

	p, err := svc.CreateProduct(context.Background(), v.ID, radar("Radar"))
	require.NoError(t, err)
	assert.Equal(t, v.ID, p.VendorID)
	assert.Equal(t, "USD", p.Currency)
	assert.True(t, p.IsActive)

	_, err = svc.CreateProduct(context.Background(), uuid.New(), radar("Radar"))
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestUpdateProductOwnership(t *testing.T) {
	owner := &vendor.Vendor{ID: uuid.New(), Tier: tier.Free}
	other := &vendor.Vendor{ID: uuid.New(), Tier: tier.Free}
	svc, _, _ := newTestService(owner, other)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, owner.ID, radar("Radar"))
	require.NoError(t, err)

	inactive := false
	req := radar("Sonar")
	req.Active = &inactive
	updated, err := svc.UpdateProduct(ctx, owner.ID, p.ID.String(), req)
	require.NoError(t, err)
	assert.Equal(t, "Sonar", updated.Category)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateProduct(ctx, other.ID, p.ID.String(), radar("Radar"))
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = svc.UpdateProduct(ctx, owner.ID, "nope", radar("Radar"))
	assert.True(t, apperrors.IsValidationError(err))
}

func TestVendorProductCounts(t *testing.T) {
	a := &vendor.Vendor{ID: uuid.New(), Tier: tier.Tier1}
	b := &vendor.Vendor{ID: uuid.New(), Tier: tier.Tier1}
	svc, _, _ := newTestService(a, b)
	ctx := context.Background()

	for _, c := range []struct {
		v        *vendor.Vendor
		category string
	}{{a, "Radar"}, {a, "Radar"}, {a, "Sonar"}, {b, "Radar"}} {
		_, err := svc.CreateProduct(ctx, c.v.ID, radar(c.category))
		require.NoError(t, err)
	}

	counts, err := svc.VendorProductCounts(ctx, "Radar")
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{a.ID: 2, b.ID: 1}, counts)

	counts, err = svc.VendorProductCounts(ctx, "Autopilot")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestHandlerCatalog(t *testing.T) {
	v := &vendor.Vendor{ID: uuid.New(), Tier: tier.Free}
	svc, _, _ := newTestService(v)
	authed := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithVendorID(r.Context(), v.ID)))
		})
	}
	router := chi.NewRouter()
	NewHandler(svc, authed).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/products",
		strings.NewReader(`{"name":"Gyro","category":"Stabilisers","price":900}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/products",
		strings.NewReader(`{"category":"Stabilisers"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?category=Stabilisers&vendor_id="+v.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Gyro"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?vendor_id=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
