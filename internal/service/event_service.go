package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/cache"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/calendar"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type EventService struct {
	repo   repo.EventRepo
	cache  *cache.ListingCache
	sf     singleflight.Group
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService creates an EventService. If c is nil, caching is disabled.
// loc is the zone used for the today/tomorrow labels.
func NewEventService(r repo.EventRepo, c *cache.ListingCache, loc *time.Location, logger *zap.Logger) *EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{repo: r, cache: c, loc: loc, logger: logger, now: time.Now}
}

type EventQuery struct {
	Filter listing.EventFilter
	From   *time.Time
	To     *time.Time
}

// DayLabels are the derived flags shown on event cards.
type DayLabels struct {
	IsPast     bool
	IsToday    bool
	IsTomorrow bool
}

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Latitude    *float64
	Longitude   *float64
	ImageURL    string
}

// EventPatch is a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title            *string
	Description      *string
	Date             *time.Time
	Location         *string
	Latitude         *float64
	Longitude        *float64
	ClearCoordinates bool
	ImageURL         *string
}

// List returns the visible events for q.
func (s *EventService) List(ctx context.Context, q EventQuery) ([]dom.Event, error) {
	if q.Filter == "" {
		q.Filter = listing.FilterAll
	}
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	visible := listing.FilterEvents(all, q.Filter, s.now())
	return listing.InDateRange(visible, q.From, q.To), nil
}

func (s *EventService) all(ctx context.Context) ([]dom.Event, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do("events", func() (interface{}, error) {
		list, ok, err := s.cache.GetEvents(ctx)
		if ok {
			return list, nil
		}
		if err != nil {
			s.logger.Warn("events cache read failed", zap.Error(err))
		}
		list, err = s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetEvents(ctx, list); err != nil {
			s.logger.Warn("events cache write failed", zap.Error(err))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Event), nil
}

// Labels computes the card flags for e at the current time.
func (s *EventService) Labels(e dom.Event) DayLabels {
	now := s.now()
	return DayLabels{
		IsPast:     e.IsPast(now),
		IsToday:    e.IsToday(now, s.loc),
		IsTomorrow: e.IsTomorrow(now, s.loc),
	}
}

// Get returns one event. attending is nil for anonymous viewers.
func (s *EventService) Get(ctx context.Context, id, viewerID int64) (e dom.Event, attending *bool, err error) {
	e, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Event{}, nil, notFound(err)
	}
	if viewerID == 0 {
		return e, nil, nil
	}
	ok, err := s.repo.IsAttending(ctx, id, viewerID)
	if err != nil {
		return dom.Event{}, nil, err
	}
	return e, &ok, nil
}

func (s *EventService) Create(ctx context.Context, createdBy int64, in EventInput) (dom.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Date.IsZero() {
		return dom.Event{}, fmt.Errorf("%w: title and date are required", ErrInvalidInput)
	}
	if in.Date.Before(s.now()) {
		return dom.Event{}, ErrEventInPast
	}
	if _, err := dom.CoordinatesFrom(in.Latitude, in.Longitude); err != nil {
		return dom.Event{}, err
	}
	e, err := s.repo.Create(ctx, dom.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		Location:    strings.TrimSpace(in.Location),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedBy:   createdBy,
	})
	if err != nil {
		return dom.Event{}, err
	}
	s.invalidate(ctx)
	return e, nil
}

// Update applies p to the event. A coordinate given alone is paired with the
// stored value of the other one before validation.
func (s *EventService) Update(ctx context.Context, id int64, p EventPatch) (dom.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.Event{}, notFound(err)
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return dom.Event{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		e.Title = t
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Date != nil && !p.Date.Equal(e.Date) {
		if p.Date.Before(s.now()) {
			return dom.Event{}, ErrEventInPast
		}
		e.Date = p.Date.UTC()
	}
	if p.Location != nil {
		e.Location = strings.TrimSpace(*p.Location)
	}
	if p.ImageURL != nil {
		e.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	switch {
	case p.ClearCoordinates:
		e.Latitude, e.Longitude = nil, nil
	case p.Latitude != nil || p.Longitude != nil:
		if p.Latitude != nil {
			e.Latitude = p.Latitude
		}
		if p.Longitude != nil {
			e.Longitude = p.Longitude
		}
		if _, err := dom.CoordinatesFrom(e.Latitude, e.Longitude); err != nil {
			return dom.Event{}, err
		}
	}
	out, err := s.repo.Update(ctx, e)
	if err != nil {
		return dom.Event{}, notFound(err)
	}
	s.invalidate(ctx)
	return out, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx)
	return nil
}

// Attend registers userID for the event and returns the new attendee count.
// Attending twice is a no-op. Past events cannot be joined.
func (s *EventService) Attend(ctx context.Context, eventID, userID int64) (int, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return 0, notFound(err)
	}
	if e.IsPast(s.now()) {
		return 0, ErrEventInPast
	}
	n, err := s.repo.Attend(ctx, eventID, userID)
	if err != nil {
		return 0, notFound(err)
	}
	s.invalidate(ctx)
	return n, nil
}

// Unattend removes userID from the event and returns the new attendee count.
func (s *EventService) Unattend(ctx context.Context, eventID, userID int64) (int, error) {
	n, err := s.repo.Unattend(ctx, eventID, userID)
	if err != nil {
		return 0, notFound(err)
	}
	s.invalidate(ctx)
	return n, nil
}

// WriteICS writes a VCALENDAR holding the event to w.
func (s *EventService) WriteICS(ctx context.Context, w io.Writer, id int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	return calendar.Encode(w, []dom.Event{e}, s.now())
}

func (s *EventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEvents(ctx); err != nil {
		s.logger.Warn("events cache invalidation failed", zap.Error(err))
	}
}
