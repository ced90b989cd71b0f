// Package lease provides TTL-bound mutual exclusion on top of Redis.
package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// ErrLockTimeout is returned when a lock could not be acquired before the retry budget ran out.
var ErrLockTimeout = errors.New("timed out acquiring lock")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = rueidis.NewLuaScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a held lease. Release is safe to call more than once.
type Lease struct {
	store *Store
	key   string
	token string
}

// Key returns the leased key.
func (l *Lease) Key() string {
	return l.key
}

// Release gives the lease back. A lease that already expired and was taken by
// another holder is left untouched.
func (l *Lease) Release(ctx context.Context) error {
	return l.store.release(ctx, l.key, l.token)
}

// Store acquires and releases leases.
type Store struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewStore creates a lease store on the given client.
func NewStore(client rueidis.Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.Named("lease"),
	}
}

// Acquire tries to take the lease on key for ttl. It returns nil without an error
// when somebody else holds it.
func (s *Store) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	token := uuid.New().String()

	err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(token).Nx().Px(ttl).Build()).Error()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to acquire lease %s: %w", key, err)
	}

	s.logger.Debug("Acquired lease", zap.String("key", key), zap.Duration("ttl", ttl))

	return &Lease{store: s, key: key, token: token}, nil
}

// Held reports whether anybody holds the lease on key.
func (s *Store) Held(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Do(ctx, s.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check lease %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) release(ctx context.Context, key, token string) error {
	if err := releaseScript.Exec(ctx, s.client, []string{key}, []string{token}).Error(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", key, err)
	}

	s.logger.Debug("Released lease", zap.String("key", key))
	return nil
}
