// Package proximity finds the vendors nearest to a searcher. The search
// functions are pure: they work on the vendor slice they are given and hold
// no state, so concurrent callers need no coordination.
package proximity

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/georgemunganga/vendor-directory/internal/modules/geo"
	"github.com/georgemunganga/vendor-directory/internal/modules/vendor"
)

// Defaults applied by callers that let the searcher omit radius or limit.
const (
	DefaultRadiusKm   = 500.0
	DefaultMaxResults = 10
)

// Options narrows a FindNearby search. A zero ExcludeVendorID excludes nothing.
type Options struct {
	Category        string
	ExcludeVendorID uuid.UUID
	RadiusKm        float64
	MaxResults      int
}

// Result is a vendor within range and the nearest of its visible locations.
// It carries the full vendor record; services publish a Listing instead.
type Result struct {
	Vendor          *vendor.Vendor
	DistanceKm      float64
	MatchedLocation vendor.Location
	// ProductsInCategory is only set by FindNearbyOffering.
	ProductsInCategory int
}

// FindNearby returns the vendors in opts.Category, other than
// opts.ExcludeVendorID, whose nearest tier-visible location lies within
// opts.RadiusKm of the user, ordered by that distance (ties keep input order)
// and capped at opts.MaxResults.
func FindNearby(vendors []*vendor.Vendor, userLat, userLon float64, opts Options) []Result {
	return search(vendors, userLat, userLon, opts.ExcludeVendorID, opts.RadiusKm, opts.MaxResults,
		func(v *vendor.Vendor) (int, bool) {
			return 0, v.Category == opts.Category
		})
}

// OfferingOptions narrows a FindNearbyOffering search.
type OfferingOptions struct {
	ExcludeVendorID uuid.UUID
	RadiusKm        float64
	MaxResults      int
}

// FindNearbyOffering is FindNearby keyed on products instead of the vendor's
// own category: productCounts maps a vendor to how many of its products are in
// the product category being browsed. Vendors without such products are
// skipped and each result carries its count.
func FindNearbyOffering(vendors []*vendor.Vendor, userLat, userLon float64, productCounts map[uuid.UUID]int, opts OfferingOptions) []Result {
	return search(vendors, userLat, userLon, opts.ExcludeVendorID, opts.RadiusKm, opts.MaxResults,
		func(v *vendor.Vendor) (int, bool) {
			n := productCounts[v.ID]
			return n, n > 0
		})
}

func search(
	vendors []*vendor.Vendor,
	userLat, userLon float64,
	exclude uuid.UUID,
	radiusKm float64,
	maxResults int,
	match func(*vendor.Vendor) (int, bool),
) []Result {
	results := []Result{}
	if radiusKm <= 0 || maxResults <= 0 {
		return results
	}

	for _, v := range vendors {
		if v == nil || (exclude != uuid.Nil && v.ID == exclude) {
			continue
		}
		count, ok := match(v)
		if !ok {
			continue
		}
		loc, dist, found := nearestLocation(vendor.FilterByTier(v.Locations, v.Tier), userLat, userLon)
		if !found || dist > radiusKm {
			continue
		}
		results = append(results, Result{
			Vendor:             v,
			DistanceKm:         dist,
			MatchedLocation:    loc,
			ProductsInCategory: count,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// nearestLocation returns the closest location to the user. Locations whose
// distance is NaN are skipped; found is false when none remain.
func nearestLocation(locations []vendor.Location, userLat, userLon float64) (vendor.Location, float64, bool) {
	var (
		best     vendor.Location
		bestDist = math.Inf(1)
		found    bool
	)
	for _, loc := range locations {
		d := geo.DistanceKm(userLat, userLon, loc.Latitude, loc.Longitude)
		if math.IsNaN(d) {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = loc, d, true
		}
	}
	return best, bestDist, found
}
