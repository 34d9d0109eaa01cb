package geo

import (
	"errors"
	"strings"
	"time"
)

// DefaultLocationMaxAge is how long a remembered user location stays usable.
const DefaultLocationMaxAge = 30 * 24 * time.Hour

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrMissingDisplayName = errors.New("display name is required")
	ErrMissingTimestamp   = errors.New("timestamp is required")
)

// UserLocation is a searcher's chosen position, as resolved by the browser or
// a geocoding lookup, stamped with the time it was chosen.
type UserLocation struct {
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	DisplayName string    `json:"display_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewUserLocation stamps a location with now.
func NewUserLocation(lat, lon float64, displayName string, now time.Time) UserLocation {
	return UserLocation{Latitude: lat, Longitude: lon, DisplayName: displayName, Timestamp: now}
}

func (l UserLocation) Coordinates() Coordinates {
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
}

// IsExpired reports whether more than maxAge has passed since the location
// was chosen. A non-positive maxAge means DefaultLocationMaxAge.
func (l UserLocation) IsExpired(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultLocationMaxAge
	}
	return now.Sub(l.Timestamp) > maxAge
}

// Validate rejects locations that could not have come from a real lookup.
func (l UserLocation) Validate() error {
	if !l.Coordinates().Valid() {
		return ErrInvalidCoordinates
	}
	if strings.TrimSpace(l.DisplayName) == "" {
		return ErrMissingDisplayName
	}
	if l.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}
