package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

func newTestCache(t *testing.T) (*ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewListingCache(rdb, time.Minute), mr
}

func TestEventsRoundTripAndMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	got, ok, err := c.GetEvents(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	lat, lng := 40.0, -3.0
	date := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, c.SetEvents(ctx, []dom.Event{{ID: 1, Title: "Dog walk", Date: date, Latitude: &lat, Longitude: &lng}}))

	got, ok, err = c.GetEvents(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Dog walk", got[0].Title)
	assert.True(t, date.Equal(got[0].Date))
	assert.Equal(t, 40.0, *got[0].Latitude)

	assert.Equal(t, time.Minute, mr.TTL(keyEvents))

	require.NoError(t, c.InvalidateEvents(ctx))
	_, ok, err = c.GetEvents(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyListIsCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetEvents(ctx, nil))
	raw, err := mr.Get(keyEvents)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	got, ok, err := c.GetEvents(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "an empty list is a hit")
	assert.Empty(t, got)

	require.NoError(t, c.SetPlaces(ctx, true, nil))
	_, ok, err = c.GetPlaces(ctx, true)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.SetLocationStats(ctx, nil))
	_, ok, err = c.GetLocationStats(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPlacesKeyedByActiveFlag(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetPlaces(ctx, true, []dom.Place{{ID: 1, Category: dom.CategoryVet, IsActive: true}}))
	require.NoError(t, c.SetPlaces(ctx, false, []dom.Place{{ID: 1}, {ID: 2}}))

	active, _, err := c.GetPlaces(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, dom.CategoryVet, active[0].Category)

	all, _, err := c.GetPlaces(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, c.InvalidatePlaces(ctx))
	_, ok, err := c.GetPlaces(ctx, true)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.GetPlaces(ctx, false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocationStats(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetLocationStats(ctx, []dom.LocationStat{{Location: "Madrid", Users: 3, Pets: 5}}))
	got, ok, err := c.GetLocationStats(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []dom.LocationStat{{Location: "Madrid", Users: 3, Pets: 5}}, got)

	require.NoError(t, c.InvalidateLocationStats(ctx))
	_, ok, err = c.GetLocationStats(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyEvents, "not json"))

	_, ok, err := c.GetEvents(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
