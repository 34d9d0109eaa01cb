package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/tier"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
	apperrors "github.com/georgemunganga/vendor-directory/internal/shared/errors"
)

// Service manages a vendor's own locations under its tier's location limit.
type Service interface {
	ListLocations(ctx context.Context, vendorID uuid.UUID) ([]vendor.Location, error)
	AddLocation(ctx context.Context, vendorID uuid.UUID, req AddLocationRequest) (*vendor.Location, error)
	SetHeadquarters(ctx context.Context, vendorID, locationID uuid.UUID) error
	RemoveLocation(ctx context.Context, vendorID, locationID uuid.UUID) error
}

type service struct {
	repo     Repository
	vendors  VendorLookup
	policy   *tier.Policy
	onChange func()
	log      *slog.Logger
}

// NewService creates the location service. onChange, if not nil, runs after
// every successful write so read-side caches can be dropped.
func NewService(repo Repository, vendors VendorLookup, policy *tier.Policy, onChange func(), log *slog.Logger) Service {
	if onChange == nil {
		onChange = func() {}
	}
	return &service{repo: repo, vendors: vendors, policy: policy, onChange: onChange, log: log}
}

func (s *service) ListLocations(ctx context.Context, vendorID uuid.UUID) ([]vendor.Location, error) {
	locations, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list locations of %s: %w", vendorID, err)
	}
	return locations, nil
}

func (s *service) AddLocation(ctx context.Context, vendorID uuid.UUID, req AddLocationRequest) (*vendor.Location, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, apperrors.NewValidationError("latitude and longitude are required")
	}

	v, err := s.vendors.GetVendor(ctx, vendorID)
	if errors.Is(err, vendor.ErrVendorNotFound) {
		return nil, apperrors.NewNotFoundError("vendor not found", vendorID.String()).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get vendor %s: %w", vendorID, err)
	}

	loc := &vendor.Location{
		ID:         uuid.New(),
		VendorID:   vendorID,
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		IsHQ:       req.IsHQ,
	}
	err = s.repo.Add(ctx, loc, func(count int) error {
		if s.policy.CanAddLocation(v.Tier, count) {
			return nil
		}
		limit := s.policy.ValidateLocationLimit(v.Tier, count+1)
		return apperrors.NewForbiddenError("location limit reached", limit.Message)
	})
	if apperrors.IsForbiddenError(err) {
		return nil, err
	}
	if errors.Is(err, vendor.ErrVendorNotFound) {
		return nil, apperrors.NewNotFoundError("vendor not found", vendorID.String()).Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("add location: %w", err)
	}

	s.log.Info("location added", "vendor_id", vendorID, "location_id", loc.ID, "hq", loc.IsHQ)
	s.onChange()
	return loc, nil
}

func (s *service) SetHeadquarters(ctx context.Context, vendorID, locationID uuid.UUID) error {
	err := s.repo.SetHeadquarters(ctx, vendorID, locationID)
	if errors.Is(err, ErrLocationNotFound) || errors.Is(err, vendor.ErrVendorNotFound) {
		return apperrors.NewNotFoundError("location not found", locationID.String()).Wrap(err)
	}
	if err != nil {
		return fmt.Errorf("set headquarters: %w", err)
	}
	s.onChange()
	return nil
}

// RemoveLocation deletes a location. Removing the HQ promotes the oldest
// remaining location so the vendor keeps one.
func (s *service) RemoveLocation(ctx context.Context, vendorID, locationID uuid.UUID) error {
	promoted, err := s.repo.Delete(ctx, vendorID, locationID)
	if errors.Is(err, ErrLocationNotFound) || errors.Is(err, vendor.ErrVendorNotFound) {
		return apperrors.NewNotFoundError("location not found", locationID.String()).Wrap(ErrLocationNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove location: %w", err)
	}
	if promoted != uuid.Nil {
		s.log.Info("headquarters promoted", "vendor_id", vendorID, "location_id", promoted)
	}
	s.onChange()
	return nil
}
