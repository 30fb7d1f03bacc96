package service

import (
	"context"
	"testing"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserServiceRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, newFakePetRepo(), nil, nil, zap.NewNop())
	ctx := context.Background()

	u, err := s.Register(ctx, Registration{Username: " rex ", Password: "woofwoof", Location: "Madrid"})
	require.NoError(t, err)
	assert.Equal(t, "rex", u.Username)
	assert.Equal(t, dom.RoleUser, u.Role)
	assert.NotEqual(t, "woofwoof", u.PasswordHash)

	_, err = s.Register(ctx, Registration{Username: "rex", Password: "another1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.ValidateCredentials(ctx, "rex", "woofwoof")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.ValidateCredentials(ctx, "rex", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.ValidateCredentials(ctx, "nobody", "woofwoof")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceBan(t *testing.T) {
	users := newFakeUserRepo()
	revoker := &fakeRevoker{}
	s := NewUserService(users, newFakePetRepo(), revoker, nil, zap.NewNop())
	ctx := context.Background()

	admin, err := s.Register(ctx, Registration{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	u, err := s.Register(ctx, Registration{Username: "mia", Password: "meowmeow"})
	require.NoError(t, err)

	_, err = s.SetBanned(ctx, admin.ID, admin.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)

	banned, err := s.SetBanned(ctx, admin.ID, u.ID, true)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)
	assert.Equal(t, []int64{u.ID}, revoker.revoked)

	_, err = s.ValidateCredentials(ctx, "mia", "meowmeow")
	assert.ErrorIs(t, err, ErrUserBanned)
	_, _, err = s.Profile(ctx, "mia")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SetBanned(ctx, admin.ID, u.ID, false)
	require.NoError(t, err)
	_, err = s.ValidateCredentials(ctx, "mia", "meowmeow")
	assert.NoError(t, err)

	_, err = s.SetBanned(ctx, admin.ID, 999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceProfile(t *testing.T) {
	users := newFakeUserRepo()
	pets := newFakePetRepo()
	s := NewUserService(users, pets, nil, nil, zap.NewNop())
	ctx := context.Background()

	u, err := s.Register(ctx, Registration{Username: "luna", Password: "password"})
	require.NoError(t, err)
	_, err = pets.Create(ctx, dom.Pet{OwnerID: u.ID, Name: "Luna", Species: "cat"})
	require.NoError(t, err)

	got, list, err := s.Profile(ctx, "luna")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.Len(t, list, 1)
	assert.Equal(t, "Luna", list[0].Name)

	_, _, err = s.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
