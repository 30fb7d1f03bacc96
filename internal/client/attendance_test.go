package client

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attendanceServer tracks one user's attendance for event 5.
type attendanceServer struct {
	mu        sync.Mutex
	attending bool
	count     int
	failWith  int
	methods   []string
}

func (s *attendanceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods = append(s.methods, r.Method)
	if ck, err := r.Cookie(auth.CookieName); err != nil || ck.Value != "sess" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authorization required"})
		return
	}
	if s.failWith != 0 {
		writeJSON(w, s.failWith, map[string]string{"error": "boom"})
		return
	}
	switch r.Method {
	case http.MethodPost:
		if !s.attending {
			s.attending = true
			s.count++
		}
	case http.MethodDelete:
		if s.attending {
			s.attending = false
			s.count--
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"eventId": 5, "attending": s.attending, "attendeesCount": s.count})
}

func (s *attendanceServer) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...)
}

type recordingNotifier struct{ msgs []string }

func (n *recordingNotifier) Notify(msg string) { n.msgs = append(n.msgs, msg) }

func TestAttendanceToggleRoundTrip(t *testing.T) {
	srv := &attendanceServer{count: 4}
	c := newTestClient(t, srv)
	n := &recordingNotifier{}
	toggle := NewAttendanceToggle(c, Session{ID: "sess"}, 5, NotAttending, 4, n)

	require.NoError(t, toggle.Toggle(context.Background()))
	state, count := toggle.State()
	assert.Equal(t, Attending, state)
	assert.Equal(t, 5, count)

	require.NoError(t, toggle.Toggle(context.Background()))
	state, count = toggle.State()
	assert.Equal(t, NotAttending, state)
	assert.Equal(t, 4, count, "attend then unattend restores the count")

	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, srv.calls())
	assert.Empty(t, n.msgs)
}

func TestAttendanceToggleConcurrentCallsAreSerialized(t *testing.T) {
	srv := &attendanceServer{count: 4}
	c := newTestClient(t, srv)
	toggle := NewAttendanceToggle(c, Session{ID: "sess"}, 5, NotAttending, 4, NotifierFunc(func(msg string) {
		t.Errorf("unexpected notification: %s", msg)
	}))

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- toggle.Toggle(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, srv.calls())
	state, count := toggle.State()
	assert.Equal(t, NotAttending, state)
	assert.Equal(t, 4, count)
}

func TestAttendanceToggleFailureLeavesStateUnchanged(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound, http.StatusBadRequest} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := &attendanceServer{count: 4, failWith: status}
			c := newTestClient(t, srv)
			n := &recordingNotifier{}
			toggle := NewAttendanceToggle(c, Session{ID: "sess"}, 5, NotAttending, 4, n)

			err := toggle.Toggle(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, status, apiErr.Status)

			state, count := toggle.State()
			assert.Equal(t, NotAttending, state)
			assert.Equal(t, 4, count)
			assert.Len(t, n.msgs, 1)
			assert.Len(t, srv.calls(), 1, "no retries")
		})
	}
}

func TestAttendanceToggleWithoutSession(t *testing.T) {
	srv := &attendanceServer{}
	c := newTestClient(t, srv)
	var got string
	toggle := NewAttendanceToggle(c, Session{}, 5, Attending, 1, NotifierFunc(func(msg string) { got = msg }))

	err := toggle.Toggle(context.Background())
	require.Error(t, err)
	assert.Contains(t, got, "401")
	state, count := toggle.State()
	assert.Equal(t, Attending, state)
	assert.Equal(t, 1, count)
}
