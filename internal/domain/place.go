package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category is the closed set of place kinds. Every switch over it must be
// exhaustive; see geomap.StyleFor.
type Category string

const (
	CategoryPetFriendly Category = "pet-friendly"
	CategoryShop        Category = "shop"
	CategoryVet         Category = "vet"
)

// Categories lists every Category in display order.
var Categories = []Category{CategoryPetFriendly, CategoryShop, CategoryVet}

// ParseCategory accepts the canonical names plus a few aliases used by older
// clients. Empty input is the generic category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pet-friendly", "petfriendly", "pet_friendly", "generic":
		return CategoryPetFriendly, nil
	case "shop", "store":
		return CategoryShop, nil
	case "vet", "veterinary":
		return CategoryVet, nil
	}
	return "", fmt.Errorf("unknown place category %q", s)
}

// Place is a directory entry (vet, shop, pet-friendly venue).
type Place struct {
	ID          int64
	Title       string
	Description string
	Address     string
	Latitude    *float64
	Longitude   *float64
	IsActive    bool
	Category    Category
	Phone       string
	Website     string

	// Distance in kilometres from the caller, nil when unknown.
	Distance *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Place) Point() *Coordinates { return pointOf(p.Latitude, p.Longitude) }

func (p Place) MarkerID() string { return "place:" + strconv.FormatInt(p.ID, 10) }

func (p Place) MarkerCategory() Category { return p.Category }

func (p Place) MarkerTitle() string { return p.Title }
