package domain

import (
	"errors"
	"math"
)

var ErrInvalidCoordinates = errors.New("latitude and longitude must both be set and in range")

const earthRadiusKm = 6371.0

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinatesFrom builds a point from two optional values.
// Both nil yields (nil, nil); exactly one nil or an out-of-range value is an error.
func CoordinatesFrom(lat, lng *float64) (*Coordinates, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, ErrInvalidCoordinates
	}
	c := Coordinates{Latitude: *lat, Longitude: *lng}
	if !c.Valid() {
		return nil, ErrInvalidCoordinates
	}
	return &c, nil
}

func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// DistanceKm returns the great-circle distance between two points (haversine).
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	lat1 := c.Latitude * math.Pi / 180
	lat2 := o.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (o.Longitude - c.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// pointOf returns nil unless both coordinates are present.
func pointOf(lat, lng *float64) *Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &Coordinates{Latitude: *lat, Longitude: *lng}
}
