package client

import (
	"context"
	"fmt"
	"sync"
)

// Notifier shows a failure to the user (toast, stderr line, ...).
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type AttendanceState int

const (
	NotAttending AttendanceState = iota
	Attending
)

func (s AttendanceState) String() string {
	if s == Attending {
		return "attending"
	}
	return "not-attending"
}

// AttendanceToggle is the two-state attend button for one event. A successful
// toggle flips the state and moves the displayed count by one; a failed one
// notifies and changes nothing. There are no retries.
type AttendanceToggle struct {
	client   *Client
	session  Session
	eventID  int64
	notifier Notifier

	mu    sync.Mutex
	state AttendanceState
	count int
}

func NewAttendanceToggle(c *Client, s Session, eventID int64, state AttendanceState, count int, n Notifier) *AttendanceToggle {
	return &AttendanceToggle{client: c, session: s, eventID: eventID, state: state, count: count, notifier: n}
}

// State returns the current state and displayed attendee count.
func (t *AttendanceToggle) State() (AttendanceState, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.count
}

// Toggle sends attend or unattend depending on the current state. Calls are
// serialized so a double click cannot send both requests at once.
func (t *AttendanceToggle) Toggle(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if t.state == Attending {
		_, err = t.client.Unattend(ctx, t.session, t.eventID)
	} else {
		_, err = t.client.Attend(ctx, t.session, t.eventID)
	}
	if err != nil {
		if t.notifier != nil {
			t.notifier.Notify(fmt.Sprintf("could not update attendance: %v", err))
		}
		return err
	}

	if t.state == Attending {
		t.state = NotAttending
		t.count--
	} else {
		t.state = Attending
		t.count++
	}
	return nil
}
