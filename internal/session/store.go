// Package session issues and validates the opaque tokens that stand in
// for a logged-in user. Tokens live in Redis under a fixed TTL; expiry
// is handled entirely by Redis, there is no sweeping on our side.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TTL is the fixed lifetime of a session token.
const TTL = 24 * time.Hour

const keyPrefix = "auth_"

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Issue generates a fresh token for userID and stores the mapping with
// the fixed TTL.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+token, userID, TTL).Err(); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Resolve returns the user ID a token maps to, or "" if the token is
// unknown or expired. An unknown token is not an error; it is the
// caller's signal to reject the request as unauthenticated. Lookup does
// not refresh the TTL.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving session: %w", err)
	}
	return userID, nil
}

// Revoke deletes the mapping and reports whether it existed. Revoking a
// missing token is a no-op, so concurrent revokes are safe.
func (s *Store) Revoke(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("revoking session: %w", err)
	}
	return n > 0, nil
}
