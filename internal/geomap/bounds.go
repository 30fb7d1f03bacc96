package geomap

import (
	"math"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

const (
	tileSize    = 256.0
	maxMercator = 85.0511287798
)

// Bounds is a lat/lng rectangle. The zero value is empty; Extend grows it.
type Bounds struct {
	SouthWest dom.Coordinates `json:"southWest"`
	NorthEast dom.Coordinates `json:"northEast"`
	set       bool
}

func (b *Bounds) Extend(c dom.Coordinates) {
	if !b.set {
		b.SouthWest, b.NorthEast, b.set = c, c, true
		return
	}
	b.SouthWest.Latitude = math.Min(b.SouthWest.Latitude, c.Latitude)
	b.SouthWest.Longitude = math.Min(b.SouthWest.Longitude, c.Longitude)
	b.NorthEast.Latitude = math.Max(b.NorthEast.Latitude, c.Latitude)
	b.NorthEast.Longitude = math.Max(b.NorthEast.Longitude, c.Longitude)
}

func (b Bounds) Empty() bool { return !b.set }

func (b Bounds) Contains(c dom.Coordinates) bool {
	return b.set &&
		c.Latitude >= b.SouthWest.Latitude && c.Latitude <= b.NorthEast.Latitude &&
		c.Longitude >= b.SouthWest.Longitude && c.Longitude <= b.NorthEast.Longitude
}

func (b Bounds) Center() dom.Coordinates {
	return dom.Coordinates{
		Latitude:  (b.SouthWest.Latitude + b.NorthEast.Latitude) / 2,
		Longitude: (b.SouthWest.Longitude + b.NorthEast.Longitude) / 2,
	}
}

// FitZoom returns the largest integer zoom at which b fits inside a
// width x height pixel viewport with padding on every side, capped at maxZoom.
func (b Bounds) FitZoom(width, height, padding, maxZoom int) int {
	w := float64(width - 2*padding)
	h := float64(height - 2*padding)
	if w <= 0 || h <= 0 {
		return 0
	}

	lngFrac := (b.NorthEast.Longitude - b.SouthWest.Longitude) / 360
	latFrac := (mercatorY(b.NorthEast.Latitude) - mercatorY(b.SouthWest.Latitude)) / (2 * math.Pi)

	zoom := float64(maxZoom)
	if lngFrac > 0 {
		zoom = math.Min(zoom, math.Log2(w/tileSize/lngFrac))
	}
	if latFrac > 0 {
		zoom = math.Min(zoom, math.Log2(h/tileSize/latFrac))
	}
	return max(0, int(math.Floor(zoom)))
}

func mercatorY(lat float64) float64 {
	lat = math.Max(-maxMercator, math.Min(maxMercator, lat))
	rad := lat * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + rad/2))
}
