package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/service"
)

type memEvents struct {
	mu       sync.Mutex
	events   map[int64]dom.Event
	attendee map[[2]int64]bool
	nextID   int64
}

func newMemEvents(events ...dom.Event) *memEvents {
	m := &memEvents{events: map[int64]dom.Event{}, attendee: map[[2]int64]bool{}, nextID: 100}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *memEvents) Create(_ context.Context, e dom.Event) (dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.events[e.ID] = e
	return e, nil
}

func (m *memEvents) GetByID(_ context.Context, id int64) (dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	return e, nil
}

func (m *memEvents) List(_ context.Context) ([]dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dom.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memEvents) Update(_ context.Context, e dom.Event) (dom.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memEvents) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) Attend(_ context.Context, eventID, userID int64) (int, error) {
	return m.setAttendance(eventID, userID, true)
}

func (m *memEvents) Unattend(_ context.Context, eventID, userID int64) (int, error) {
	return m.setAttendance(eventID, userID, false)
}

func (m *memEvents) setAttendance(eventID, userID int64, attend bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	key := [2]int64{eventID, userID}
	switch {
	case attend && !m.attendee[key]:
		m.attendee[key] = true
		e.AttendeesCount++
	case !attend && m.attendee[key]:
		delete(m.attendee, key)
		e.AttendeesCount--
	}
	m.events[eventID] = e
	return e.AttendeesCount, nil
}

func (m *memEvents) IsAttending(_ context.Context, eventID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attendee[[2]int64{eventID, userID}], nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[int64]dom.User
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id int64) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) Create(_ context.Context, u dom.User) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dom.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUsers) SetBanned(_ context.Context, id int64, banned bool) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.IsBanned = banned
	m.users[id] = u
	return u, nil
}

const testPassword = "woofwoof1"

type testEnv struct {
	router *gin.Engine
	events *memEvents
	users  *memUsers
}

func newTestEnv(t *testing.T, events ...dom.Event) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := auth.NewStore(rdb, time.Hour)

	hash, err := service.HashPassword(testPassword)
	require.NoError(t, err)
	users := &memUsers{users: map[int64]dom.User{
		1: {ID: 1, Username: "luna", PasswordHash: hash, Role: dom.RoleUser},
		2: {ID: 2, Username: "admin", PasswordHash: hash, Role: dom.RoleAdmin},
		3: {ID: 3, Username: "rex", PasswordHash: hash, Role: dom.RoleUser, IsBanned: true},
	}}
	evRepo := newMemEvents(events...)

	logger := zap.NewNop()
	userSvc := service.NewUserService(users, nil, sessions, nil, logger)
	eventSvc := service.NewEventService(evRepo, nil, time.UTC, logger)

	authH := NewAuthHandler(sessions, userSvc, false)
	eventH := NewEventHandler(eventSvc)
	userH := NewUserHandler(userSvc)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", authH.Login)

	public := api.Group("", auth.OptionalSession(sessions, users))
	public.GET("/events", eventH.List)
	public.GET("/events/:id", eventH.Get)
	public.GET("/events/:id/ics", eventH.ICS)

	protected := api.Group("", auth.RequireSession(sessions, users))
	protected.GET("/auth/me", authH.Me)
	protected.POST("/events/:id/attend", eventH.Attend)
	protected.DELETE("/events/:id/attend", eventH.Unattend)

	admin := api.Group("/admin", auth.RequireSession(sessions, users), auth.RequireAdmin())
	admin.POST("/events", eventH.Create)
	admin.GET("/users", userH.List)
	admin.POST("/users/:id/ban", userH.Ban)

	return &testEnv{router: r, events: evRepo, users: users}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: username, Password: testPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("login for %s set no session cookie", username)
	return nil
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func relativeEvents() []dom.Event {
	now := time.Now()
	lat, lng := 40.4168, -3.7038
	return []dom.Event{
		{ID: 1, Title: "Last week walk", Date: now.Add(-7 * 24 * time.Hour)},
		{ID: 2, Title: "Yesterday meetup", Date: now.Add(-24 * time.Hour)},
		{ID: 3, Title: "Next month fair", Date: now.Add(30 * 24 * time.Hour), Latitude: &lat, Longitude: &lng},
		{ID: 4, Title: "Next week picnic", Date: now.Add(7 * 24 * time.Hour), AttendeesCount: 4},
	}
}

func titles(items []dto.EventResponse) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Title
	}
	return out
}

func TestListEventsFilters(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Last week walk", "Yesterday meetup", "Next week picnic", "Next month fair"}},
		{"?filter=all", []string{"Last week walk", "Yesterday meetup", "Next week picnic", "Next month fair"}},
		{"?filter=upcoming", []string{"Next week picnic", "Next month fair"}},
		{"?filter=past", []string{"Yesterday meetup", "Last week walk"}},
	}
	for _, tt := range tests {
		t.Run("filter"+tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/events"+tt.query, nil, nil)
			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeBody[dto.ListEventsResponse](t, w)
			assert.Equal(t, tt.want, titles(resp.Items))
			past := map[string]bool{"Last week walk": true, "Yesterday meetup": true}
			for _, e := range resp.Items {
				assert.Equal(t, past[e.Title], e.IsPast, e.Title)
			}
		})
	}
}

func TestListEventsRejectsBadQuery(t *testing.T) {
	env := newTestEnv(t)

	for _, q := range []string{"?filter=soon", "?from=yesterday", "?to=2025-13-01"} {
		t.Run(q, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/events"+q, nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestGetEvent(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)

	w := env.do(t, http.MethodGet, "/api/events/3", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[dto.EventResponse](t, w)
	assert.Equal(t, "Next month fair", resp.Title)
	require.NotNil(t, resp.Latitude)
	assert.InDelta(t, 40.4168, *resp.Latitude, 1e-9)
	assert.Nil(t, resp.Attending, "anonymous callers get no attending flag")

	cookie := env.login(t, "luna")
	w = env.do(t, http.MethodGet, "/api/events/3", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[dto.EventResponse](t, w)
	require.NotNil(t, resp.Attending)
	assert.False(t, *resp.Attending)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/events/999", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/events/abc", nil, nil).Code)
}

func TestEventICS(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)

	w := env.do(t, http.MethodGet, "/api/events/4/ics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, w.Body.String(), "SUMMARY:Next week picnic")
}

func TestAttendanceRequiresSession(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)

	w := env.do(t, http.MethodPost, "/api/events/4/attend", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/events/4/attend", nil, &http.Cookie{Name: auth.CookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceRoundTrip(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)
	cookie := env.login(t, "luna")

	w := env.do(t, http.MethodPost, "/api/events/4/attend", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[dto.AttendanceResponse](t, w)
	assert.True(t, resp.Attending)
	assert.Equal(t, 5, resp.AttendeesCount)

	// Attending twice does not count twice.
	w = env.do(t, http.MethodPost, "/api/events/4/attend", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, decodeBody[dto.AttendanceResponse](t, w).AttendeesCount)

	w = env.do(t, http.MethodDelete, "/api/events/4/attend", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[dto.AttendanceResponse](t, w)
	assert.False(t, resp.Attending)
	assert.Equal(t, 4, resp.AttendeesCount)
}

func TestAttendPastEventRejected(t *testing.T) {
	env := newTestEnv(t, relativeEvents()...)
	cookie := env.login(t, "luna")

	w := env.do(t, http.MethodPost, "/api/events/2/attend", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.events.events[2].AttendeesCount)

	w = env.do(t, http.MethodPost, "/api/events/404/attend", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "luna", Password: "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "rex", Password: testPassword}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "luna"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	event := map[string]any{
		"title": "Adoption day",
		"date":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/admin/events", event, nil).Code)
	})

	t.Run("regular user", func(t *testing.T) {
		cookie := env.login(t, "luna")
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/admin/events", event, cookie).Code)
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/admin/users", nil, cookie).Code)
	})

	t.Run("admin", func(t *testing.T) {
		cookie := env.login(t, "admin")
		w := env.do(t, http.MethodPost, "/api/admin/events", event, cookie)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decodeBody[dto.EventResponse](t, w)
		assert.Equal(t, "Adoption day", created.Title)
		assert.False(t, created.IsPast)

		bad := map[string]any{"title": "Half pinned", "date": event["date"], "latitude": 40.0}
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/admin/events", bad, cookie).Code)

		past := map[string]any{"title": "Too late", "date": time.Now().Add(-48 * time.Hour).Format(time.RFC3339)}
		assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/admin/events", past, cookie).Code)
	})
}

func TestBanRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	userCookie := env.login(t, "luna")
	adminCookie := env.login(t, "admin")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", nil, userCookie).Code)

	w := env.do(t, http.MethodPost, "/api/admin/users/1/ban", nil, adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeBody[dto.UserResponse](t, w).IsBanned)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", nil, userCookie).Code)

	w = env.do(t, http.MethodPost, "/api/admin/users/2/ban", nil, adminCookie)
	assert.Equal(t, http.StatusForbidden, w.Code, "admins cannot ban themselves")
}

func TestWriteErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("event 7: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrUserBanned, http.StatusForbidden},
		{service.ErrUsernameTaken, http.StatusConflict},
		{service.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{service.ErrInvalidCoordinates, http.StatusBadRequest},
		{service.ErrEventInPast, http.StatusBadRequest},
		{service.ErrUnsupportedImage, http.StatusBadRequest},
		{fmt.Errorf("filter: %w", listing.ErrUnknownFilter), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection reset")
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}
