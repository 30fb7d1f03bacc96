package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/repo"
	"github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionRevoker drops every session of a user. Implemented by auth.Store.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

// UserService handles accounts, login checks and moderation.
type UserService struct {
	repo     repo.UserRepo
	pets     repo.PetRepo
	sessions SessionRevoker
	stats    StatsInvalidator
	logger   *zap.Logger
}

// NewUserService returns a new UserService. sessions may be nil, in which
// case bans take effect on the next request through the session middleware.
// stats may be nil.
func NewUserService(r repo.UserRepo, pets repo.PetRepo, sessions SessionRevoker, stats StatsInvalidator, logger *zap.Logger) *UserService {
	return &UserService{repo: r, pets: pets, sessions: sessions, stats: stats, logger: logger}
}

// ValidateCredentials checks username and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	if u.IsBanned {
		return dom.User{}, ErrUserBanned
	}
	return u, nil
}

type Registration struct {
	Username string
	Password string
	Email    string
	Location string
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, in Registration) (dom.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		Role:         dom.RoleUser,
		Location:     strings.TrimSpace(in.Location),
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	if s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}
	return u, nil
}

// HashPassword returns the bcrypt hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dom.User{}, notFound(err)
	}
	return u, nil
}

// Profile returns a public profile and the user's pets. Banned users are hidden.
func (s *UserService) Profile(ctx context.Context, username string) (dom.User, []dom.Pet, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return dom.User{}, nil, notFound(err)
	}
	if u.IsBanned {
		return dom.User{}, nil, ErrNotFound
	}
	pets, err := s.pets.ListByOwner(ctx, u.ID)
	if err != nil {
		return dom.User{}, nil, err
	}
	return u, pets, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]dom.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// SetBanned bans or unbans a user. Banning revokes every open session.
// Admins cannot ban themselves.
func (s *UserService) SetBanned(ctx context.Context, actorID, userID int64, banned bool) (dom.User, error) {
	if banned && actorID == userID {
		return dom.User{}, ErrForbidden
	}
	u, err := s.repo.SetBanned(ctx, userID, banned)
	if err != nil {
		return dom.User{}, notFound(err)
	}
	if banned && s.sessions != nil {
		if err := s.sessions.RevokeUser(ctx, userID); err != nil {
			s.logger.Warn("revoke sessions failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return u, nil
}
