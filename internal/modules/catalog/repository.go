package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int, error)
	// CountByCategory returns the number of active products in category per vendor.
	CountByCategory(ctx context.Context, category string) (map[uuid.UUID]int, error)
}
