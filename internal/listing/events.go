// Package listing derives the visible list from a fetched list: predicates
// first, then a comparator. Everything here is pure and in-memory.
package listing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

var ErrUnknownFilter = errors.New("unknown filter")

// EventFilter selects events by their relation to now.
type EventFilter string

const (
	FilterAll      EventFilter = "all"
	FilterUpcoming EventFilter = "upcoming"
	FilterPast     EventFilter = "past"
)

// ParseEventFilter maps query input to a filter. Empty means all.
func ParseEventFilter(s string) (EventFilter, error) {
	switch EventFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUpcoming:
		return FilterUpcoming, nil
	case FilterPast:
		return FilterPast, nil
	}
	return "", fmt.Errorf("%w %q: use all, upcoming or past", ErrUnknownFilter, s)
}

// FilterEvents keeps the events matching f and sorts them: ascending by date
// for all and upcoming, descending (most recent first) for past.
// The input slice is not modified.
func FilterEvents(events []dom.Event, f EventFilter, now time.Time) []dom.Event {
	out := make([]dom.Event, 0, len(events))
	for _, e := range events {
		switch f {
		case FilterUpcoming:
			if e.IsPast(now) {
				continue
			}
		case FilterPast:
			if !e.IsPast(now) {
				continue
			}
		}
		out = append(out, e)
	}

	if f == FilterPast {
		slices.SortFunc(out, func(a, b dom.Event) int { return b.Date.Compare(a.Date) })
	} else {
		slices.SortFunc(out, func(a, b dom.Event) int { return a.Date.Compare(b.Date) })
	}
	return out
}

// InDateRange keeps events with from <= date <= to. A nil bound is open.
func InDateRange(events []dom.Event, from, to *time.Time) []dom.Event {
	if from == nil && to == nil {
		return events
	}
	out := make([]dom.Event, 0, len(events))
	for _, e := range events {
		if from != nil && e.Date.Before(*from) {
			continue
		}
		if to != nil && e.Date.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out
}
