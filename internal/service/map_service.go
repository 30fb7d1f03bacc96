package service

import (
	"context"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/geomap"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
)

// MapService pairs a visible list with the marker layer reconciled from it.
type MapService struct {
	events *EventService
	places *PlaceService
	rec    *geomap.Reconciler
}

func NewMapService(events *EventService, places *PlaceService, rec *geomap.Reconciler) *MapService {
	return &MapService{events: events, places: places, rec: rec}
}

// Events returns the events visible under q and their map view.
func (s *MapService) Events(ctx context.Context, q EventQuery, user *dom.Coordinates) ([]dom.Event, geomap.View, error) {
	list, err := s.events.List(ctx, q)
	if err != nil {
		return nil, geomap.View{}, err
	}
	v, err := s.rec.Reconcile(geomap.Items(list), user)
	if err != nil {
		return nil, geomap.View{}, err
	}
	return list, v, nil
}

// Places returns the active places visible under q and their map view. The
// user location doubles as the origin for distances.
func (s *MapService) Places(ctx context.Context, q listing.PlaceQuery, user *dom.Coordinates) ([]dom.Place, geomap.View, error) {
	q.OnlyActive = true
	list, err := s.places.List(ctx, PlaceListQuery{PlaceQuery: q, From: user})
	if err != nil {
		return nil, geomap.View{}, err
	}
	v, err := s.rec.Reconcile(geomap.Items(list), user)
	if err != nil {
		return nil, geomap.View{}, err
	}
	return list, v, nil
}
