package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

type stubUsers map[int64]dom.User

func (s stubUsers) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := s[id]
	if !ok {
		return dom.User{}, errors.New("not found")
	}
	return u, nil
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Hour), mr
}

func TestStoreLifecycle(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, id, 32)

	userID, ok := s.GetUserID(ctx, id)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+id))

	require.NoError(t, s.Delete(ctx, id))
	_, ok = s.GetUserID(ctx, id)
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, 1)
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, ok := s.GetUserID(ctx, id)
	assert.False(t, ok)
}

func TestRevokeUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, 7)
	require.NoError(t, err)
	b, err := s.Create(ctx, 7)
	require.NoError(t, err)
	other, err := s.Create(ctx, 8)
	require.NoError(t, err)

	require.NoError(t, s.RevokeUser(ctx, 7))

	_, ok := s.GetUserID(ctx, a)
	assert.False(t, ok)
	_, ok = s.GetUserID(ctx, b)
	assert.False(t, ok)
	_, ok = s.GetUserID(ctx, other)
	assert.True(t, ok)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _ := newTestStore(t)
	ctx := context.Background()
	users := stubUsers{
		1: {ID: 1, Username: "ana", Role: dom.RoleUser},
		2: {ID: 2, Username: "root", Role: dom.RoleAdmin},
		3: {ID: 3, Username: "troll", Role: dom.RoleUser, IsBanned: true},
	}

	r := gin.New()
	r.GET("/me", RequireSession(s, users), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.Username)
	})
	r.GET("/admin", RequireSession(s, users), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/public", OptionalSession(s, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserIDFromContext(c)})
	})

	do := func(path, session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if session != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: session})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	ana, err := s.Create(ctx, 1)
	require.NoError(t, err)
	root, err := s.Create(ctx, 2)
	require.NoError(t, err)
	troll, err := s.Create(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "bogus").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", troll).Code)

	w := do("/me", ana)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", w.Body.String())

	assert.Equal(t, http.StatusForbidden, do("/admin", ana).Code)
	assert.Equal(t, http.StatusNoContent, do("/admin", root).Code)

	assert.JSONEq(t, `{"user_id":0}`, do("/public", "").Body.String())
	assert.JSONEq(t, `{"user_id":1}`, do("/public", ana).Body.String())
}
