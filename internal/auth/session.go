package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userSessionsPrefix = "user_sessions:"
	sessionTTL         = 24 * time.Hour
)

// Store manages sessions in Redis. Each session maps to a user id; a per-user
// set tracks that user's sessions so they can be revoked together.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session for userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	setKey := userSessionsKey(userID)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKeyPrefix+id, userID, s.ttl)
		p.SAdd(ctx, setKey, id)
		p.Expire(ctx, setKey, s.ttl)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetUserID resolves a session. ok is false for unknown or expired sessions
// and on Redis errors.
func (s *Store) GetUserID(ctx context.Context, id string) (int64, bool) {
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	userID, ok := s.GetUserID(ctx, id)
	if err := s.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return err
	}
	if ok {
		return s.rdb.SRem(ctx, userSessionsKey(userID), id).Err()
	}
	return nil
}

// RevokeUser deletes every session belonging to userID.
func (s *Store) RevokeUser(ctx context.Context, userID int64) error {
	setKey := userSessionsKey(userID)
	ids, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, setKey)
	return s.rdb.Del(ctx, keys...).Err()
}

func userSessionsKey(userID int64) string {
	return userSessionsPrefix + strconv.FormatInt(userID, 10)
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
