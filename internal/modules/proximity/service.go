package proximity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/georgemunganga/vendor-directory/internal/modules/tier"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
)

// VendorSource lists vendors with their locations loaded. An empty category
// lists every vendor.
type VendorSource interface {
	ListVendors(ctx context.Context, category string) ([]*vendor.Vendor, error)
}

// ProductCounter counts, per vendor, the products in a product category.
type ProductCounter interface {
	VendorProductCounts(ctx context.Context, category string) (map[uuid.UUID]int, error)
}

// Query is one nearby search. When ProductCategory is set the search runs
// over vendors offering products in it and Category is ignored.
type Query struct {
	Latitude        float64
	Longitude       float64
	Category        string
	ProductCategory string
	ExcludeVendorID uuid.UUID
	RadiusKm        float64
	MaxResults      int
}

// Listing is a search result as the public sees it: the vendor is reduced to
// the profile fields and locations its tier exposes.
type Listing struct {
	Vendor             *vendor.PublicProfile `json:"vendor"`
	DistanceKm         float64               `json:"distance_km"`
	MatchedLocation    vendor.Location       `json:"matched_location"`
	ProductsInCategory int                   `json:"products_in_category,omitempty"`
}

type Service interface {
	Nearby(ctx context.Context, q Query) ([]Listing, error)
	// Invalidate drops every cached directory snapshot.
	Invalidate()
}

type service struct {
	vendors  VendorSource
	products ProductCounter
	policy   *tier.Policy
	cache    *cache.Cache
	log      *slog.Logger
}

// NewService builds the nearby search. Directory snapshots are cached for ttl;
// a non-positive ttl disables the cache.
func NewService(vendors VendorSource, products ProductCounter, policy *tier.Policy, ttl time.Duration, log *slog.Logger) Service {
	s := &service{vendors: vendors, products: products, policy: policy, log: log}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func cacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, p := range params {
		key += ":" + fmt.Sprintf("%v", p)
	}
	return key
}

func (s *service) Nearby(ctx context.Context, q Query) ([]Listing, error) {
	var (
		results []Result
		err     error
	)
	if q.ProductCategory != "" {
		results, err = s.nearbyOffering(ctx, q)
	} else {
		results, err = s.nearby(ctx, q)
	}
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(results))
	for _, r := range results {
		listings = append(listings, Listing{
			Vendor:             r.Vendor.Public(s.policy),
			DistanceKm:         r.DistanceKm,
			MatchedLocation:    r.MatchedLocation,
			ProductsInCategory: r.ProductsInCategory,
		})
	}
	return listings, nil
}

func (s *service) nearby(ctx context.Context, q Query) ([]Result, error) {
	vendors, err := s.directory(ctx, q.Category)
	if err != nil {
		return nil, err
	}
	return FindNearby(vendors, q.Latitude, q.Longitude, Options{
		Category:        q.Category,
		ExcludeVendorID: q.ExcludeVendorID,
		RadiusKm:        q.RadiusKm,
		MaxResults:      q.MaxResults,
	}), nil
}

func (s *service) nearbyOffering(ctx context.Context, q Query) ([]Result, error) {
	if s.products == nil {
		return []Result{}, nil
	}
	counts, err := s.productCounts(ctx, q.ProductCategory)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []Result{}, nil
	}
	vendors, err := s.directory(ctx, "")
	if err != nil {
		return nil, err
	}
	return FindNearbyOffering(vendors, q.Latitude, q.Longitude, counts, OfferingOptions{
		ExcludeVendorID: q.ExcludeVendorID,
		RadiusKm:        q.RadiusKm,
		MaxResults:      q.MaxResults,
	}), nil
}

func (s *service) directory(ctx context.Context, category string) ([]*vendor.Vendor, error) {
	key := cacheKey("vendors", category)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.([]*vendor.Vendor), nil
		}
	}
	vendors, err := s.vendors.ListVendors(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load vendor directory: %w", err)
	}
	if s.cache != nil {
		s.cache.SetDefault(key, vendors)
		s.log.Debug("vendor directory cached", "category", category, "vendors", len(vendors))
	}
	return vendors, nil
}

func (s *service) productCounts(ctx context.Context, category string) (map[uuid.UUID]int, error) {
	key := cacheKey("product-counts", category)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(map[uuid.UUID]int), nil
		}
	}
	counts, err := s.products.VendorProductCounts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("count products in %q: %w", category, err)
	}
	if s.cache != nil {
		s.cache.SetDefault(key, counts)
	}
	return counts, nil
}

func (s *service) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}
