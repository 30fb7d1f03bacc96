package domain

import (
	"strconv"
	"time"
)

// Event is a dated meetup. Latitude/Longitude are optional; an event without
// both is listed but never plotted.
type Event struct {
	ID             int64
	Title          string
	Description    string
	Date           time.Time
	Location       string
	Latitude       *float64
	Longitude      *float64
	ImageURL       string
	AttendeesCount int
	CreatedBy      int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPast reports whether the event starts before now.
func (e Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// IsToday compares calendar days in loc.
func (e Event) IsToday(now time.Time, loc *time.Location) bool {
	return sameDay(e.Date, now, loc)
}

// IsTomorrow compares calendar days in loc. A nil loc means UTC.
func (e Event) IsTomorrow(now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	tomorrow := time.Date(n.Year(), n.Month(), n.Day()+1, 12, 0, 0, 0, loc)
	return sameDay(e.Date, tomorrow, loc)
}

func (e Event) Point() *Coordinates { return pointOf(e.Latitude, e.Longitude) }

func (e Event) MarkerID() string { return "event:" + strconv.FormatInt(e.ID, 10) }

// Events are plotted with the generic style.
func (e Event) MarkerCategory() Category { return CategoryPetFriendly }

func (e Event) MarkerTitle() string { return e.Title }

func sameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
