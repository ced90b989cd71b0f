package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// PendingCounter counts violation records waiting for review.
type PendingCounter interface {
	CountPending(ctx context.Context) (int, error)
}

// BacklogChecker watches the length of the moderation queue.
type BacklogChecker struct {
	pending   PendingCounter
	threshold int
	reporter  *StatusReporter
	logger    *zap.Logger
}

// NewBacklogChecker creates a backlog checker. reporter may be nil.
func NewBacklogChecker(pending PendingCounter, threshold int, reporter *StatusReporter, logger *zap.Logger) *BacklogChecker {
	if threshold <= 0 {
		threshold = DefaultPendingThreshold
	}

	return &BacklogChecker{
		pending:   pending,
		threshold: threshold,
		reporter:  reporter,
		logger:    logger,
	}
}

// Check returns the queue length and whether it exceeds the threshold.
func (b *BacklogChecker) Check(ctx context.Context) (int, bool, error) {
	count, err := b.pending.CountPending(ctx)
	if err != nil {
		b.logger.Error("Error getting pending violation count", zap.Error(err))
		return 0, false, fmt.Errorf("failed to count pending violations: %w", err)
	}

	if count <= b.threshold {
		return count, false, nil
	}

	if b.reporter != nil {
		b.reporter.UpdateStatus(fmt.Sprintf("Backlog - %d pending violations exceeds threshold", count), 0)
	}
	b.logger.Warn("Moderation backlog above threshold",
		zap.Int("pending", count),
		zap.Int("threshold", b.threshold))

	return count, true, nil
}
