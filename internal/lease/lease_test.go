package lease_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/lease"
	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) (*lease.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return lease.NewStore(client, zap.NewNop()), mr
}

func TestAcquireIsExclusive(t *testing.T) {
	t.Parallel()

	store, mr := setupStore(t)
	ctx := context.Background()

	first, err := store.Acquire(ctx, "processing:article:1", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := store.Acquire(ctx, "processing:article:1", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, second)

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("processing:article:1"))

	third, err := store.Acquire(ctx, "processing:article:1", time.Minute)
	require.NoError(t, err)
	assert.NotNil(t, third)
}

func TestLeaseExpires(t *testing.T) {
	t.Parallel()

	store, mr := setupStore(t)
	ctx := context.Background()

	stale, err := store.Acquire(ctx, "processing:post:9", 300*time.Second)
	require.NoError(t, err)
	require.NotNil(t, stale)

	mr.FastForward(301 * time.Second)

	fresh, err := store.Acquire(ctx, "processing:post:9", 300*time.Second)
	require.NoError(t, err)
	require.NotNil(t, fresh)

	// The stale holder must not release the new holder's lease.
	require.NoError(t, stale.Release(ctx))
	held, err := store.Held(ctx, "processing:post:9")
	require.NoError(t, err)
	assert.True(t, held)
}

func TestConcurrentAcquire(t *testing.T) {
	t.Parallel()

	store, _ := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var winners atomic.Int32
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := store.Acquire(ctx, "processing:comment:7", time.Minute)
			if err == nil && l != nil {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestLockerReentrant(t *testing.T) {
	t.Parallel()

	store, _ := setupStore(t)
	locker := lease.NewLocker(store)
	ctx := context.Background()

	calls := 0
	err := locker.WithUser(ctx, "u1", func(ctx context.Context) error {
		return locker.WithUser(ctx, "u1", func(context.Context) error {
			calls++
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestLockerTimeout(t *testing.T) {
	t.Parallel()

	store, _ := setupStore(t)
	locker := lease.NewLocker(store).WithRetryOptions(utils.RetryOptions{
		MaxElapsedTime:  50 * time.Millisecond,
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		MaxRetries:      3,
	})
	ctx := context.Background()

	errInner := errors.New("inner")
	err := locker.WithUser(ctx, "u2", func(context.Context) error {
		return locker.WithUser(context.Background(), "u2", func(context.Context) error {
			return nil
		})
	})
	require.ErrorIs(t, err, lease.ErrLockTimeout)

	err = locker.WithUser(ctx, "u2", func(context.Context) error { return errInner })
	require.ErrorIs(t, err, errInner)
}
