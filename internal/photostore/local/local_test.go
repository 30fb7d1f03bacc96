package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/photostore"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	data := []byte("fake png data")

	key, err := s.Save(ctx, "pet_1", "image/png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "pet_1_"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	rc, mime, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/png", mime)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSaveKeysAreUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "pet_1", "image/jpeg", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	b, err := s.Save(ctx, "pet_1", "image/jpeg", bytes.NewReader([]byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key, err := s.Save(ctx, "post_9", "image/jpeg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, key))

	_, _, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, photostore.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, key), photostore.ErrNotFound)
}

func TestPathTraversal(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, photostore.ErrNotFound)
}
