// Package geo computes great-circle distances between WGS84 coordinates.
package geo

import "math"

// Earth mean radius per unit.
const (
	EarthRadiusKm    = 6371.0
	EarthRadiusMiles = 3959.0
)

// Unit selects the unit of a returned distance.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "miles"
)

// Radius returns the Earth radius in u; anything other than Miles is km.
func (u Unit) Radius() float64 {
	if u == Miles {
		return EarthRadiusMiles
	}
	return EarthRadiusKm
}

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether c is finite and inside the latitude/longitude ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the Haversine distance in kilometres between two points
// given in decimal degrees. Inputs are used as given; NaN propagates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return haversine(lat1, lon1, lat2, lon2, EarthRadiusKm)
}

// Distance returns the Haversine distance between a and b in unit.
func Distance(a, b Coordinates, unit Unit) float64 {
	return haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude, unit.Radius())
}

func haversine(lat1, lon1, lat2, lon2, radius float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	// Rounding can push a slightly outside [0, 1]; both square roots need it inside.
	// NaN fails both comparisons and is passed through.
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return radius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
