package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/tier"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, vendorID uuid.UUID, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error)
	UpdateProduct(ctx context.Context, vendorID uuid.UUID, id string, req ProductRequest) (*Product, error)
	// VendorProductCounts counts active products in category per vendor.
	VendorProductCounts(ctx context.Context, category string) (map[uuid.UUID]int, error)
}

// ProductRequest holds the data for creating or replacing a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required,max=255"`
	Price       float64         `json:"price" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	SKU         string          `json:"sku" validate:"max=64"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Active      *bool           `json:"is_active"`
	Attributes  json.RawMessage `json:"attributes"`
}

// VendorLookup resolves a vendor for its tier.
type VendorLookup interface {
	GetVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}

type service struct {
	repo     Repository
	vendors  VendorLookup
	policy   *tier.Policy
	onChange func()
}

// NewService creates the catalog service. onChange, if not nil, runs after
// every successful write.
func NewService(repo Repository, vendors VendorLookup, policy *tier.Policy, onChange func()) Service {
	if onChange == nil {
		onChange = func() {}
	}
	return &service{repo: repo, vendors: vendors, policy: policy, onChange: onChange}
}

func (s *service) CreateProduct(ctx context.Context, vendorID uuid.UUID, req ProductRequest) (*Product, error) {
	v, err := s.vendors.GetVendor(ctx, vendorID)
	if errors.Is(err, vendor.ErrVendorNotFound) {
		return nil, apperrors.NewNotFoundError("vendor not found", vendorID.String()).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor %s: %w", vendorID, err)
	}

	count, err := s.repo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if !s.policy.CanAddProduct(v.Tier, count) {
		return nil, apperrors.NewForbiddenError("product limit reached",
			fmt.Sprintf("tier %s allows maximum %d product(s)", v.Tier.Effective(), s.policy.MaxProducts(v.Tier)))
	}

	p := &Product{
		ID:       uuid.New(),
		VendorID: vendorID,
		IsActive: true,
	}
	apply(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.onChange()
	return p, nil
}

func apply(p *Product, req ProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	p.Currency = req.Currency
	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.SKU = req.SKU
	p.ImageURL = req.ImageURL
	if req.Active != nil {
		p.IsActive = *req.Active
	}
	p.Attributes = req.Attributes
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid product id", id)
	}
	p, err := s.repo.GetByID(ctx, uid)
	if errors.Is(err, ErrProductNotFound) {
		return nil, apperrors.NewNotFoundError("product not found", id).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, vendorID uuid.UUID, id string, req ProductRequest) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	// Products of other vendors are reported as missing.
	if p.VendorID != vendorID {
		return nil, apperrors.NewNotFoundError("product not found", id).Wrap(ErrProductNotFound)
	}
	apply(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	s.onChange()
	return p, nil
}

func (s *service) VendorProductCounts(ctx context.Context, category string) (map[uuid.UUID]int, error) {
	return s.repo.CountByCategory(ctx, category)
}
