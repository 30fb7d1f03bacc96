package service

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[int64]dom.User{}} }

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.users {
		if x.Username == u.Username {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.User
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b dom.User) int { return cmp.Compare(a.ID, b.ID) })
	if offset >= len(out) {
		return nil, nil
	}
	return out[offset:min(len(out), offset+limit)], nil
}

func (r *fakeUserRepo) SetBanned(_ context.Context, id int64, banned bool) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.IsBanned = banned
	r.users[id] = u
	return u, nil
}

type fakeRevoker struct{ revoked []int64 }

func (f *fakeRevoker) RevokeUser(_ context.Context, userID int64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[int64]dom.Event
	attendees map[int64]map[int64]bool
	nextID    int64
	listCalls int
}

func newFakeEventRepo(events ...dom.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[int64]dom.Event{}, attendees: map[int64]map[int64]bool{}}
	for _, e := range events {
		r.events[e.ID] = e
		r.nextID = max(r.nextID, e.ID)
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, e dom.Event) (dom.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.events[e.ID] = e
	return e, nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int64) (dom.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	return e, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]dom.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var out []dom.Event
	for _, e := range r.events {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b dom.Event) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e dom.Event) (dom.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return dom.Event{}, pgx.ErrNoRows
	}
	r.events[e.ID] = e
	return e, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Attend(_ context.Context, eventID, userID int64) (int, error) {
	return r.change(eventID, userID, true)
}

func (r *fakeEventRepo) Unattend(_ context.Context, eventID, userID int64) (int, error) {
	return r.change(eventID, userID, false)
}

func (r *fakeEventRepo) change(eventID, userID int64, attend bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	set := r.attendees[eventID]
	if set == nil {
		set = map[int64]bool{}
		r.attendees[eventID] = set
	}
	switch {
	case attend && !set[userID]:
		set[userID] = true
		e.AttendeesCount++
	case !attend && set[userID]:
		delete(set, userID)
		e.AttendeesCount--
	}
	r.events[eventID] = e
	return e.AttendeesCount, nil
}

func (r *fakeEventRepo) IsAttending(_ context.Context, eventID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attendees[eventID][userID], nil
}

type fakePlaceRepo struct {
	mu     sync.Mutex
	places map[int64]dom.Place
	nextID int64
}

func newFakePlaceRepo(places ...dom.Place) *fakePlaceRepo {
	r := &fakePlaceRepo{places: map[int64]dom.Place{}}
	for _, p := range places {
		r.places[p.ID] = p
		r.nextID = max(r.nextID, p.ID)
	}
	return r
}

func (r *fakePlaceRepo) Create(_ context.Context, p dom.Place) (dom.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.places[p.ID] = p
	return p, nil
}

func (r *fakePlaceRepo) GetByID(_ context.Context, id int64) (dom.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.places[id]
	if !ok {
		return dom.Place{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakePlaceRepo) List(_ context.Context, onlyActive bool) ([]dom.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Place
	for _, p := range r.places {
		if onlyActive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePlaceRepo) Update(_ context.Context, p dom.Place) (dom.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.places[p.ID]; !ok {
		return dom.Place{}, pgx.ErrNoRows
	}
	r.places[p.ID] = p
	return p, nil
}

func (r *fakePlaceRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.places[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.places, id)
	return nil
}

type fakePetRepo struct {
	mu     sync.Mutex
	pets   map[int64]dom.Pet
	nextID int64
}

func newFakePetRepo(pets ...dom.Pet) *fakePetRepo {
	r := &fakePetRepo{pets: map[int64]dom.Pet{}}
	for _, p := range pets {
		r.pets[p.ID] = p
		r.nextID = max(r.nextID, p.ID)
	}
	return r
}

func (r *fakePetRepo) Create(_ context.Context, p dom.Pet) (dom.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	r.pets[p.ID] = p
	return p, nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id int64) (dom.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pets[id]
	if !ok {
		return dom.Pet{}, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakePetRepo) ListByOwner(_ context.Context, ownerID int64) ([]dom.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Pet
	for _, p := range r.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b dom.Pet) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *fakePetRepo) Update(_ context.Context, p dom.Pet) (dom.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[p.ID]; !ok {
		return dom.Pet{}, pgx.ErrNoRows
	}
	r.pets[p.ID] = p
	return p, nil
}

func (r *fakePetRepo) SetAvatar(_ context.Context, id int64, key string) (dom.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pets[id]
	if !ok {
		return dom.Pet{}, pgx.ErrNoRows
	}
	p.AvatarKey = key
	r.pets[id] = p
	return p, nil
}

func (r *fakePetRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.pets, id)
	return nil
}

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[int64]dom.Post
	likes    map[int64]map[int64]bool
	comments []dom.Comment
	nextID   int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[int64]dom.Post{}, likes: map[int64]map[int64]bool{}}
}

func (r *fakePostRepo) Create(_ context.Context, p dom.Post) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.posts[p.ID] = p
	return p, nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id, viewerID int64) (dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return dom.Post{}, pgx.ErrNoRows
	}
	return r.decorate(p, viewerID), nil
}

func (r *fakePostRepo) decorate(p dom.Post, viewerID int64) dom.Post {
	p.Likes = len(r.likes[p.ID])
	p.LikedByMe = r.likes[p.ID][viewerID]
	for _, c := range r.comments {
		if c.PostID == p.ID {
			p.Comments++
		}
	}
	return p
}

func (r *fakePostRepo) Feed(_ context.Context, q repo.FeedQuery) ([]dom.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Post
	for _, p := range r.posts {
		if q.Before != 0 && p.ID >= q.Before {
			continue
		}
		if q.AuthorID != 0 && p.AuthorID != q.AuthorID {
			continue
		}
		if q.Hashtag != "" && !slices.Contains(p.Hashtags, q.Hashtag) {
			continue
		}
		out = append(out, r.decorate(p, q.ViewerID))
	}
	slices.SortFunc(out, func(a, b dom.Post) int { return cmp.Compare(b.ID, a.ID) })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Like(_ context.Context, postID, userID int64) (int, error) {
	return r.changeLike(postID, userID, true)
}

func (r *fakePostRepo) Unlike(_ context.Context, postID, userID int64) (int, error) {
	return r.changeLike(postID, userID, false)
}

func (r *fakePostRepo) changeLike(postID, userID int64, like bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[postID]; !ok {
		return 0, pgx.ErrNoRows
	}
	set := r.likes[postID]
	if set == nil {
		set = map[int64]bool{}
		r.likes[postID] = set
	}
	if like {
		set[userID] = true
	} else {
		delete(set, userID)
	}
	return len(set), nil
}

func (r *fakePostRepo) AddComment(_ context.Context, c dom.Comment) (dom.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = int64(len(r.comments) + 1)
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, c)
	return c, nil
}

func (r *fakePostRepo) ListComments(_ context.Context, postID int64) ([]dom.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeAnalyticsRepo struct {
	stats []dom.LocationStat
	calls int
}

func (r *fakeAnalyticsRepo) LocationStats(context.Context) ([]dom.LocationStat, error) {
	r.calls++
	return r.stats, nil
}

func f64(v float64) *float64 { return &v }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
