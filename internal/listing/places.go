package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

// PlaceSort is the comparator applied after filtering places.
type PlaceSort string

const (
	SortByTitle    PlaceSort = "title"
	SortByDistance PlaceSort = "distance"
)

func ParsePlaceSort(s string) (PlaceSort, error) {
	switch PlaceSort(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByTitle:
		return SortByTitle, nil
	case SortByDistance:
		return SortByDistance, nil
	}
	return "", fmt.Errorf("%w %q: use title or distance", ErrUnknownFilter, s)
}

// PlaceQuery holds the user-selected predicates for the place directory.
type PlaceQuery struct {
	Category   *dom.Category
	Text       string
	OnlyActive bool
	Sort       PlaceSort
}

// FilterPlaces applies q to places. Text matches title, description or address,
// case-insensitively. With SortByDistance, places without a distance go last.
func FilterPlaces(places []dom.Place, q PlaceQuery) []dom.Place {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]dom.Place, 0, len(places))
	for _, p := range places {
		if q.OnlyActive && !p.IsActive {
			continue
		}
		if q.Category != nil && p.Category != *q.Category {
			continue
		}
		if needle != "" && !matchesText(p, needle) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortByDistance:
		slices.SortFunc(out, compareDistance)
	default:
		slices.SortFunc(out, func(a, b dom.Place) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	return out
}

// WithDistances returns a copy of places with Distance set relative to from.
// Places without coordinates keep a nil distance.
func WithDistances(places []dom.Place, from *dom.Coordinates) []dom.Place {
	out := slices.Clone(places)
	if from == nil {
		return out
	}
	for i := range out {
		if pt := out[i].Point(); pt != nil {
			d := from.DistanceKm(*pt)
			out[i].Distance = &d
		}
	}
	return out
}

func matchesText(p dom.Place, needle string) bool {
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Address), needle)
}

func compareDistance(a, b dom.Place) int {
	switch {
	case a.Distance == nil && b.Distance == nil:
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case a.Distance == nil:
		return 1
	case b.Distance == nil:
		return -1
	}
	return cmp.Compare(*a.Distance, *b.Distance)
}
