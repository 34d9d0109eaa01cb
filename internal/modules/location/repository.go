package location

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
)

var ErrLocationNotFound = errors.New("location not found")

// Repository defines vendor location storage. Writes are serialized per
// vendor and keep at most one HQ per vendor.
type Repository interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]vendor.Location, error)
	// Add inserts loc. admit sees the vendor's location count under the same
	// lock as the insert and refuses it by returning an error, which Add
	// returns unchanged. The first location of a vendor is stored as its HQ,
	// and an HQ insert demotes every other location.
	Add(ctx context.Context, loc *vendor.Location, admit func(count int) error) error
	SetHeadquarters(ctx context.Context, vendorID, locationID uuid.UUID) error
	// Delete removes a location. Removing the HQ promotes the oldest
	// remaining location, whose ID is returned; otherwise promoted is uuid.Nil.
	Delete(ctx context.Context, vendorID, locationID uuid.UUID) (promoted uuid.UUID, err error)
}

// VendorLookup resolves the vendor that owns the locations, for its tier.
type VendorLookup interface {
	GetVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}
