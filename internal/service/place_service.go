package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/cache"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PlaceService serves the place directory (vets, shops, pet-friendly venues).
type PlaceService struct {
	repo   repo.PlaceRepo
	cache  *cache.ListingCache
	sf     singleflight.Group
	logger *zap.Logger
}

// NewPlaceService creates a PlaceService. If c is nil, caching is disabled.
func NewPlaceService(r repo.PlaceRepo, c *cache.ListingCache, logger *zap.Logger) *PlaceService {
	return &PlaceService{repo: r, cache: c, logger: logger}
}

// PlaceListQuery is the directory query. From, when set, is the caller's
// location used to compute distances.
type PlaceListQuery struct {
	listing.PlaceQuery
	From *dom.Coordinates
}

type PlaceInput struct {
	Title       string
	Description string
	Address     string
	Latitude    *float64
	Longitude   *float64
	IsActive    bool
	Category    dom.Category
	Phone       string
	Website     string
}

type PlacePatch struct {
	Title            *string
	Description      *string
	Address          *string
	Latitude         *float64
	Longitude        *float64
	ClearCoordinates bool
	IsActive         *bool
	Category         *dom.Category
	Phone            *string
	Website          *string
}

func (s *PlaceService) List(ctx context.Context, q PlaceListQuery) ([]dom.Place, error) {
	all, err := s.all(ctx, q.OnlyActive)
	if err != nil {
		return nil, err
	}
	return listing.FilterPlaces(listing.WithDistances(all, q.From), q.PlaceQuery), nil
}

func (s *PlaceService) all(ctx context.Context, onlyActive bool) ([]dom.Place, error) {
	if s.cache == nil {
		return s.repo.List(ctx, onlyActive)
	}
	key := fmt.Sprintf("places:%t", onlyActive)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		list, ok, err := s.cache.GetPlaces(ctx, onlyActive)
		if ok {
			return list, nil
		}
		if err != nil {
			s.logger.Warn("places cache read failed", zap.Error(err))
		}
		list, err = s.repo.List(ctx, onlyActive)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetPlaces(ctx, onlyActive, list); err != nil {
			s.logger.Warn("places cache write failed", zap.Error(err))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Place), nil
}

// Get returns a place. Inactive places are only visible when includeInactive
// is set (admin views). from, when set, fills in Distance.
func (s *PlaceService) Get(ctx context.Context, id int64, includeInactive bool, from *dom.Coordinates) (dom.Place, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Place{}, notFound(err)
	}
	if !p.IsActive && !includeInactive {
		return dom.Place{}, ErrNotFound
	}
	return listing.WithDistances([]dom.Place{p}, from)[0], nil
}

func (s *PlaceService) Create(ctx context.Context, in PlaceInput) (dom.Place, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Place{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := dom.CoordinatesFrom(in.Latitude, in.Longitude); err != nil {
		return dom.Place{}, err
	}
	if in.Category == "" {
		in.Category = dom.CategoryPetFriendly
	}
	p, err := s.repo.Create(ctx, dom.Place{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		IsActive:    in.IsActive,
		Category:    in.Category,
		Phone:       strings.TrimSpace(in.Phone),
		Website:     strings.TrimSpace(in.Website),
	})
	if err != nil {
		return dom.Place{}, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *PlaceService) Update(ctx context.Context, id int64, patch PlacePatch) (dom.Place, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Place{}, notFound(err)
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return dom.Place{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		p.Title = t
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Address != nil {
		p.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Phone != nil {
		p.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Website != nil {
		p.Website = strings.TrimSpace(*patch.Website)
	}
	switch {
	case patch.ClearCoordinates:
		p.Latitude, p.Longitude = nil, nil
	case patch.Latitude != nil || patch.Longitude != nil:
		if patch.Latitude != nil {
			p.Latitude = patch.Latitude
		}
		if patch.Longitude != nil {
			p.Longitude = patch.Longitude
		}
		if _, err := dom.CoordinatesFrom(p.Latitude, p.Longitude); err != nil {
			return dom.Place{}, err
		}
	}
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return dom.Place{}, notFound(err)
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *PlaceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *PlaceService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePlaces(ctx); err != nil {
		s.logger.Warn("places cache invalidation failed", zap.Error(err))
	}
}
