package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyEvents        = "events:list"
	keyPlacesPrefix  = "places:list:"
	keyPlacesActive  = keyPlacesPrefix + "active"
	keyPlacesAll     = keyPlacesPrefix + "all"
	keyLocationStats = "analytics:location"
)

// ListingCache caches the full event and place lists and the location
// analytics in Redis. Filtering happens after the cache.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListingCache returns a new ListingCache.
func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

// GetEvents returns the cached event list. ok is false on a miss; a cached
// empty list is a hit.
func (c *ListingCache) GetEvents(ctx context.Context) (list []dom.Event, ok bool, err error) {
	return getJSON[[]dom.Event](ctx, c.rdb, keyEvents)
}

func (c *ListingCache) SetEvents(ctx context.Context, list []dom.Event) error {
	if list == nil {
		list = []dom.Event{}
	}
	return c.setJSON(ctx, keyEvents, list)
}

func (c *ListingCache) InvalidateEvents(ctx context.Context) error {
	return c.rdb.Del(ctx, keyEvents).Err()
}

// GetPlaces returns the cached place list. ok is false on a miss.
func (c *ListingCache) GetPlaces(ctx context.Context, onlyActive bool) (list []dom.Place, ok bool, err error) {
	return getJSON[[]dom.Place](ctx, c.rdb, placesKey(onlyActive))
}

func (c *ListingCache) SetPlaces(ctx context.Context, onlyActive bool, list []dom.Place) error {
	if list == nil {
		list = []dom.Place{}
	}
	return c.setJSON(ctx, placesKey(onlyActive), list)
}

// InvalidatePlaces removes every cached place list.
func (c *ListingCache) InvalidatePlaces(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPlacesPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *ListingCache) GetLocationStats(ctx context.Context) (stats []dom.LocationStat, ok bool, err error) {
	return getJSON[[]dom.LocationStat](ctx, c.rdb, keyLocationStats)
}

func (c *ListingCache) SetLocationStats(ctx context.Context, stats []dom.LocationStat) error {
	if stats == nil {
		stats = []dom.LocationStat{}
	}
	return c.setJSON(ctx, keyLocationStats, stats)
}

func (c *ListingCache) InvalidateLocationStats(ctx context.Context) error {
	return c.rdb.Del(ctx, keyLocationStats).Err()
}

func (c *ListingCache) setJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func getJSON[T any](ctx context.Context, rdb *redis.Client, key string) (T, bool, error) {
	var out T
	b, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, false, err
	}
	return out, true, nil
}

func placesKey(onlyActive bool) string {
	if onlyActive {
		return keyPlacesActive
	}
	return keyPlacesAll
}
