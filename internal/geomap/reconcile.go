// Package geomap turns geo-tagged items into map markers and a viewport.
package geomap

import (
	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

// Item is anything that can be pinned on the map.
type Item interface {
	MarkerID() string
	MarkerTitle() string
	MarkerCategory() dom.Category
	Point() *dom.Coordinates
}

// Items adapts a typed slice for Reconcile.
func Items[T Item](xs []T) []Item {
	out := make([]Item, len(xs))
	for i := range xs {
		out[i] = xs[i]
	}
	return out
}

type Marker struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category dom.Category    `json:"category"`
	Position dom.Coordinates `json:"position"`
	Style    Style           `json:"style"`
}

type ViewportMode string

const (
	ModeFitBounds    ViewportMode = "fit_bounds"
	ModeUserLocation ViewportMode = "user_location"
	ModeDefault      ViewportMode = "default"
	ModeFocus        ViewportMode = "focus"
)

type Viewport struct {
	Mode   ViewportMode    `json:"mode"`
	Center dom.Coordinates `json:"center"`
	Zoom   int             `json:"zoom"`
}

// View is the complete marker layer plus viewport. Each reconciliation builds
// a new View; nothing carries over from the previous one.
type View struct {
	Markers  []Marker       `json:"markers"`
	User     *Marker        `json:"user,omitempty"`
	Bounds   *Bounds        `json:"bounds,omitempty"`
	Viewport Viewport       `json:"viewport"`
	Index    map[string]int `json:"index"`
}

type Options struct {
	DefaultCenter dom.Coordinates
	DefaultZoom   int
	UserZoom      int
	FocusZoom     int
	MaxZoom       int
	WidthPx       int
	HeightPx      int
	PaddingPx     int
}

func DefaultOptions() Options {
	return Options{
		DefaultCenter: dom.Coordinates{Latitude: 40.4168, Longitude: -3.7038},
		DefaultZoom:   6,
		UserZoom:      13,
		FocusZoom:     16,
		MaxZoom:       18,
		WidthPx:       800,
		HeightPx:      600,
		PaddingPx:     20,
	}
}

type Reconciler struct {
	opts Options
}

func NewReconciler(opts Options) *Reconciler {
	return &Reconciler{opts: opts}
}

// Reconcile builds markers for items carrying both coordinates. Bounds cover
// every marker and the user location. The viewport fits the bounds when at
// least one marker exists, else centres on the user, else on the default.
func (r *Reconciler) Reconcile(items []Item, user *dom.Coordinates) (View, error) {
	v := View{
		Markers: make([]Marker, 0, len(items)),
		Index:   make(map[string]int, len(items)),
	}

	var b Bounds
	for _, it := range items {
		pt := it.Point()
		if pt == nil {
			continue
		}
		style, err := StyleFor(it.MarkerCategory())
		if err != nil {
			return View{}, err
		}
		v.Index[it.MarkerID()] = len(v.Markers)
		v.Markers = append(v.Markers, Marker{
			ID:       it.MarkerID(),
			Title:    it.MarkerTitle(),
			Category: it.MarkerCategory(),
			Position: *pt,
			Style:    style,
		})
		b.Extend(*pt)
	}
	if user != nil {
		v.User = &Marker{ID: "user", Title: "You are here", Position: *user, Style: UserStyle}
		b.Extend(*user)
	}
	if !b.Empty() {
		v.Bounds = &b
	}

	switch {
	case len(v.Markers) > 0:
		v.Viewport = Viewport{
			Mode:   ModeFitBounds,
			Center: b.Center(),
			Zoom:   b.FitZoom(r.opts.WidthPx, r.opts.HeightPx, r.opts.PaddingPx, r.opts.MaxZoom),
		}
	case user != nil:
		v.Viewport = Viewport{Mode: ModeUserLocation, Center: *user, Zoom: r.opts.UserZoom}
	default:
		v.Viewport = Viewport{Mode: ModeDefault, Center: r.opts.DefaultCenter, Zoom: r.opts.DefaultZoom}
	}
	return v, nil
}

// Focus centres the map on the marker for id, as when its card is clicked.
func (r *Reconciler) Focus(v View, id string) (Viewport, bool) {
	i, ok := v.Index[id]
	if !ok {
		return Viewport{}, false
	}
	return Viewport{Mode: ModeFocus, Center: v.Markers[i].Position, Zoom: min(r.opts.FocusZoom, r.opts.MaxZoom)}, true
}
