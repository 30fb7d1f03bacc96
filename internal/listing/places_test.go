package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

func f64(v float64) *float64 { return &v }

func samplePlaces() []dom.Place {
	return []dom.Place{
		{ID: 1, Title: "Happy Paws Vet", Address: "Calle Mayor 1", Category: dom.CategoryVet, IsActive: true,
			Latitude: f64(40.4170), Longitude: f64(-3.7030)},
		{ID: 2, Title: "bone shop", Description: "Treats and toys", Category: dom.CategoryShop, IsActive: true,
			Latitude: f64(40.4500), Longitude: f64(-3.6900)},
		{ID: 3, Title: "Dog Park Cafe", Category: dom.CategoryPetFriendly, IsActive: false,
			Latitude: f64(40.4000), Longitude: f64(-3.7100)},
		{ID: 4, Title: "Night Vet", Category: dom.CategoryVet, IsActive: true},
	}
}

func placeIDs(places []dom.Place) []int64 {
	out := make([]int64, len(places))
	for i, p := range places {
		out[i] = p.ID
	}
	return out
}

func TestFilterPlacesByCategoryAndActive(t *testing.T) {
	vet := dom.CategoryVet
	got := FilterPlaces(samplePlaces(), PlaceQuery{Category: &vet, OnlyActive: true})
	if diff := cmp.Diff([]int64{1, 4}, placeIDs(got)); diff != "" {
		t.Errorf("FilterPlaces() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterPlacesText(t *testing.T) {
	tests := []struct {
		q    string
		want []int64
	}{
		{"VET", []int64{1, 4}},
		{"toys", []int64{2}},
		{"mayor", []int64{1}},
		{"nothing", []int64{}},
		{"", []int64{2, 3, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			got := FilterPlaces(samplePlaces(), PlaceQuery{Text: tt.q})
			assert.Equal(t, tt.want, placeIDs(got))
		})
	}
}

func TestWithDistancesAndSort(t *testing.T) {
	from := &dom.Coordinates{Latitude: 40.4168, Longitude: -3.7038}
	places := WithDistances(samplePlaces(), from)

	require.NotNil(t, places[0].Distance)
	assert.InDelta(t, 0.07, *places[0].Distance, 0.05)
	assert.Nil(t, places[3].Distance, "place without coordinates has no distance")
	assert.Nil(t, samplePlaces()[0].Distance)

	got := FilterPlaces(places, PlaceQuery{Sort: SortByDistance})
	assert.Equal(t, []int64{1, 3, 2, 4}, placeIDs(got))
}

func TestWithDistancesNoOrigin(t *testing.T) {
	for _, p := range WithDistances(samplePlaces(), nil) {
		assert.Nil(t, p.Distance)
	}
}

func TestParsePlaceSort(t *testing.T) {
	s, err := ParsePlaceSort("")
	require.NoError(t, err)
	assert.Equal(t, SortByTitle, s)

	s, err = ParsePlaceSort("Distance")
	require.NoError(t, err)
	assert.Equal(t, SortByDistance, s)

	_, err = ParsePlaceSort("rating")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
