package challenge

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// challengeSize is the entropy of a challenge in bytes.
const challengeSize = 32

// Store issues single-use challenges bound to an owner id. Consume removes
// the outstanding challenge and hands it back exactly once, so a ceremony can
// never be replayed against the same challenge.
type Store interface {
	// Issue creates a new challenge for the owner, replacing any outstanding
	// one, and returns its value.
	Issue(ctx context.Context, ownerID string) (string, error)
	// Consume removes and returns the owner's outstanding challenge.
	// Returns ErrNoChallenge when none is outstanding or it has expired.
	Consume(ctx context.Context, ownerID string) (string, error)
}

func newChallenge() (string, error) {
	raw := make([]byte, challengeSize)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// RedisStore keeps challenges in Redis with a TTL, one key per owner.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisStore wraps an existing client. A non-positive ttl falls back
// to five minutes.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl, prefix: "mfa:challenge:"}
}

func (s *RedisStore) key(ownerID string) string {
	return s.prefix + ownerID
}

func (s *RedisStore) Issue(ctx context.Context, ownerID string) (string, error) {
	value, err := newChallenge()
	if err != nil {
		return "", errors.Join(ErrFailedToIssueChallenge, err)
	}
	if err := s.client.Set(ctx, s.key(ownerID), value, s.ttl).Err(); err != nil {
		return "", errors.Join(ErrFailedToIssueChallenge, err)
	}
	return value, nil
}

func (s *RedisStore) Consume(ctx context.Context, ownerID string) (string, error) {
	stored, err := s.client.GetDel(ctx, s.key(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoChallenge
	}
	if err != nil {
		return "", errors.Join(ErrFailedToConsumeChallenge, err)
	}
	return stored, nil
}
