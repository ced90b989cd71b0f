package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/robalyx/warden/pkg/utils"
	"go.uber.org/zap"
)

// UserLockTTL bounds how long a crashed holder can block a user.
const UserLockTTL = 30 * time.Second

var errLockBusy = errors.New("lock busy")

type heldLocksKey struct{}

// Locker serializes work per user so that reputation recomputation and penalty
// application never interleave for the same user across worker instances.
// Locks are reentrant within a context chain: a nested WithUser call for a user
// already locked by an outer call runs fn directly.
type Locker struct {
	store *Store
	ttl   time.Duration
	retry utils.RetryOptions
}

// NewLocker creates a per-user locker.
func NewLocker(store *Store) *Locker {
	return &Locker{
		store: store,
		ttl:   UserLockTTL,
		retry: utils.GetLockRetryOptions(),
	}
}

// WithRetryOptions overrides how long the locker waits for a busy lock.
func (l *Locker) WithRetryOptions(opts utils.RetryOptions) *Locker {
	c := *l
	c.retry = opts
	return &c
}

// WithUser runs fn while holding the lock of userID.
func (l *Locker) WithUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error {
	held, _ := ctx.Value(heldLocksKey{}).(map[string]struct{})
	if _, ok := held[userID]; ok {
		return fn(ctx)
	}

	key := "lock:user:" + userID
	lease, err := utils.WithRetry(ctx, func() (*Lease, error) {
		lease, err := l.store.Acquire(ctx, key, l.ttl)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if lease == nil {
			return nil, errLockBusy
		}
		return lease, nil
	}, l.retry)
	if err != nil {
		if errors.Is(err, errLockBusy) {
			return fmt.Errorf("%w: user %s", ErrLockTimeout, userID)
		}
		return err
	}

	defer func() {
		// Release even if the caller's context was cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil {
			l.store.logger.Warn("Failed to release user lock", zap.String("userID", userID), zap.Error(err))
		}
	}()

	next := make(map[string]struct{}, len(held)+1)
	for id := range held {
		next[id] = struct{}{}
	}
	next[userID] = struct{}{}

	return fn(context.WithValue(ctx, heldLocksKey{}, next))
}
