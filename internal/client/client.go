// Package client is a typed HTTP client for the BarkAndMeow API. Every
// response is validated before it is handed to the caller, so the rest of the
// program only sees well-formed values.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/auth"
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/dto"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/listing"

	"github.com/go-playground/validator/v10"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// ValidationError is a 2xx response whose body does not have the expected
// shape.
type ValidationError struct {
	Endpoint string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Session is the caller's login. It is passed explicitly to every call that
// needs it; the zero value is an anonymous caller.
type Session struct {
	ID   string
	User dto.UserResponse
}

func (s Session) Anonymous() bool { return s.ID == "" }

type Client struct {
	base     *url.URL
	http     *http.Client
	validate *validator.Validate
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}
	c := &Client{
		base:     u,
		http:     &http.Client{Timeout: 15 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Login authenticates and returns the new session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	body, err := json.Marshal(dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		return Session{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, Session{}, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	var user dto.UserResponse
	if err := c.decode(resp, "/api/auth/login", &user); err != nil {
		return Session{}, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName && ck.Value != "" {
			return Session{ID: ck.Value, User: user}, nil
		}
	}
	return Session{}, &ValidationError{Endpoint: "/api/auth/login", Err: errors.New("no session cookie")}
}

// ListEvents fetches events. The server applies filter and range too; callers
// that re-filter locally get the same result.
func (c *Client) ListEvents(ctx context.Context, filter listing.EventFilter, from, to *time.Time) ([]dom.Event, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", string(filter))
	}
	if from != nil {
		q.Set("from", from.Format(time.RFC3339))
	}
	if to != nil {
		q.Set("to", to.Format(time.RFC3339))
	}
	var out dto.ListEventsResponse
	if err := c.getJSON(ctx, "/api/events", q, Session{}, &out); err != nil {
		return nil, err
	}
	events := make([]dom.Event, 0, len(out.Items))
	for _, e := range out.Items {
		if _, err := dom.CoordinatesFrom(e.Latitude, e.Longitude); err != nil {
			return nil, &ValidationError{Endpoint: "/api/events", Err: fmt.Errorf("event %d: %w", e.ID, err)}
		}
		events = append(events, dom.Event{
			ID:             e.ID,
			Title:          e.Title,
			Description:    e.Description,
			Date:           e.Date,
			Location:       e.Location,
			Latitude:       e.Latitude,
			Longitude:      e.Longitude,
			ImageURL:       e.ImageURL,
			AttendeesCount: e.AttendeesCount,
		})
	}
	return events, nil
}

type PlaceParams struct {
	Category *dom.Category
	Text     string
	From     *dom.Coordinates
}

// ListPlaces fetches the active place directory.
func (c *Client) ListPlaces(ctx context.Context, p PlaceParams) ([]dom.Place, error) {
	q := url.Values{}
	if p.Category != nil {
		q.Set("category", string(*p.Category))
	}
	if p.Text != "" {
		q.Set("q", p.Text)
	}
	if p.From != nil {
		q.Set("lat", strconv.FormatFloat(p.From.Latitude, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(p.From.Longitude, 'f', -1, 64))
	}
	var out dto.ListPlacesResponse
	if err := c.getJSON(ctx, "/api/services", q, Session{}, &out); err != nil {
		return nil, err
	}
	places := make([]dom.Place, 0, len(out.Items))
	for _, r := range out.Items {
		if _, err := dom.CoordinatesFrom(r.Latitude, r.Longitude); err != nil {
			return nil, &ValidationError{Endpoint: "/api/services", Err: fmt.Errorf("place %d: %w", r.ID, err)}
		}
		cat, err := dom.ParseCategory(r.Category)
		if err != nil {
			return nil, &ValidationError{Endpoint: "/api/services", Err: err}
		}
		places = append(places, dom.Place{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Address:     r.Address,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			IsActive:    r.IsActive,
			Category:    cat,
			Phone:       r.Phone,
			Website:     r.Website,
			Distance:    r.Distance,
		})
	}
	return places, nil
}

// GetEvent fetches one event. With a session, Attending is set.
func (c *Client) GetEvent(ctx context.Context, s Session, id int64) (dto.EventResponse, error) {
	endpoint := "/api/events/" + strconv.FormatInt(id, 10)
	var out dto.EventResponse
	if err := c.getJSON(ctx, endpoint, nil, s, &out); err != nil {
		return dto.EventResponse{}, err
	}
	if _, err := dom.CoordinatesFrom(out.Latitude, out.Longitude); err != nil {
		return dto.EventResponse{}, &ValidationError{Endpoint: endpoint, Err: fmt.Errorf("event %d: %w", out.ID, err)}
	}
	return out, nil
}

// LocationStats fetches the admin location analytics.
func (c *Client) LocationStats(ctx context.Context, s Session) ([]dom.LocationStat, error) {
	var out dto.LocationAnalyticsResponse
	if err := c.getJSON(ctx, "/api/admin/analytics/location", nil, s, &out); err != nil {
		return nil, err
	}
	stats := make([]dom.LocationStat, len(out.Items))
	for i, r := range out.Items {
		stats[i] = dom.LocationStat{Location: r.Location, Users: r.Users, Pets: r.Pets}
	}
	return stats, nil
}

// Attend and Unattend change the caller's attendance for an event.
func (c *Client) Attend(ctx context.Context, s Session, eventID int64) (dto.AttendanceResponse, error) {
	return c.attendance(ctx, http.MethodPost, s, eventID)
}

func (c *Client) Unattend(ctx context.Context, s Session, eventID int64) (dto.AttendanceResponse, error) {
	return c.attendance(ctx, http.MethodDelete, s, eventID)
}

func (c *Client) attendance(ctx context.Context, method string, s Session, eventID int64) (dto.AttendanceResponse, error) {
	path := "/api/events/" + strconv.FormatInt(eventID, 10) + "/attend"
	resp, err := c.do(ctx, method, path, nil, s, nil)
	if err != nil {
		return dto.AttendanceResponse{}, err
	}
	defer resp.Body.Close()
	var out dto.AttendanceResponse
	if err := c.decode(resp, path, &out); err != nil {
		return dto.AttendanceResponse{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, s Session, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, q, s, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.decode(resp, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, s Session, body io.Reader) (*http.Response, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !s.Anonymous() {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: s.ID})
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decode turns a non-2xx response into *APIError, otherwise decodes the body
// into out and validates it.
func (c *Client) decode(resp *http.Response, endpoint string, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ValidationError{Endpoint: endpoint, Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &ValidationError{Endpoint: endpoint, Err: err}
	}
	return nil
}
