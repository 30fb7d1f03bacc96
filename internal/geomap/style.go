package geomap

import (
	"fmt"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

// Style is how a marker is drawn.
type Style struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// StyleFor must handle every dom.Category; TestStyleForCoversAllCategories
// fails when a category is added without a style.
func StyleFor(c dom.Category) (Style, error) {
	switch c {
	case dom.CategoryPetFriendly:
		return Style{Color: "#16a34a", Icon: "paw"}, nil
	case dom.CategoryShop:
		return Style{Color: "#2563eb", Icon: "shopping-bag"}, nil
	case dom.CategoryVet:
		return Style{Color: "#dc2626", Icon: "stethoscope"}, nil
	}
	return Style{}, fmt.Errorf("no marker style for category %q", c)
}

// UserStyle marks the caller's own position.
var UserStyle = Style{Color: "#7c3aed", Icon: "user"}
