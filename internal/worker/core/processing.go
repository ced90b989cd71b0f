package core

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/lease"
	"go.uber.org/zap"
)

// ContentLeases guarantees that at most one worker processes a content item at a time.
// A crashed worker's lease expires after the TTL and the item is picked up again.
type ContentLeases struct {
	store  *lease.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewContentLeases creates content leases backed by the lease store.
func NewContentLeases(store *lease.Store, ttl time.Duration, logger *zap.Logger) *ContentLeases {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}

	return &ContentLeases{
		store:  store,
		ttl:    ttl,
		logger: logger.Named("content_leases"),
	}
}

// Process runs fn while holding the item's lease. It reports false without calling fn
// when another worker holds the lease. The lease is released whether fn fails or not.
func (c *ContentLeases) Process(
	ctx context.Context, item *types.ContentItem, fn func(ctx context.Context) error,
) (bool, error) {
	held, err := c.store.Acquire(ctx, item.LeaseKey(), c.ttl)
	if err != nil {
		return false, fmt.Errorf("failed to acquire content lease: %w", err)
	}
	if held == nil {
		c.logger.Debug("Content item leased by another worker, skipping",
			zap.String("key", item.LeaseKey()))
		return false, nil
	}

	defer func() {
		// Release must happen even when the scan was cancelled.
		if err := held.Release(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("Failed to release content lease",
				zap.String("key", held.Key()),
				zap.Error(err))
		}
	}()

	return true, fn(ctx)
}
