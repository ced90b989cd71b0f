package monitor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/penalty"
	"go.uber.org/zap"
)

// staleCachePattern matches moderation cache keys; keys without a TTL are leftovers.
const staleCachePattern = "moderation:cache:*"

// RefreshReputations recomputes the reputation of every user with recent violations.
func (w *Worker) RefreshReputations(ctx context.Context) error {
	userIDs, err := w.deps.Violations.ListUserIDsSince(ctx, w.now().Add(-ReputationRefreshWindow))
	if err != nil {
		return fmt.Errorf("failed to list recent violators: %w", err)
	}

	w.deps.Reporter.UpdateStatus(fmt.Sprintf("Refreshing %d reputations", len(userIDs)), 0)

	var failed int
	for _, userID := range userIDs {
		if _, err := w.deps.Ledger.Recompute(ctx, userID); err != nil {
			failed++
			w.logger.Error("Failed to refresh reputation", zap.String("userID", userID), zap.Error(err))
		}
	}

	w.logger.Info("Reputations refreshed", zap.Int("users", len(userIDs)), zap.Int("failed", failed))
	return nil
}

// SweepPenalties expires due penalties, retries failed enforcement and runs the
// auto-escalation rules for users with recent activity.
func (w *Worker) SweepPenalties(ctx context.Context) error {
	var errs []error

	expired, err := w.deps.Machine.ExpireDue(ctx, SweepBatchSize)
	if err != nil {
		errs = append(errs, err)
	}
	penaltiesExpired.Add(float64(len(expired)))
	for _, p := range expired {
		if p.Metadata.Superseded || !p.PenaltyType.State().AtLeast(enum.PenaltyTypeOutrightBan) {
			continue
		}
		// The machine already published the event; only the alert row is missing.
		_, err := w.deps.Notifier.Persist(ctx, enum.EventTypePenaltyExpired, enum.SeverityLow,
			"Penalty expired",
			fmt.Sprintf("%s for user %s expired", p.PenaltyType, p.UserID),
			p.UserID, map[string]any{"penaltyId": p.ID.String(), "penaltyType": p.PenaltyType.String()})
		if err != nil {
			w.logger.Warn("Failed to store expiry alert", zap.String("penaltyID", p.ID.String()), zap.Error(err))
		}
	}

	retried, err := w.deps.Machine.RetryUnenforced(ctx, EnforcementGrace, SweepBatchSize)
	if err != nil {
		errs = append(errs, err)
	}

	users, err := w.sweepCandidates(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	var escalated int
	for _, userID := range users {
		outcome, err := w.deps.Machine.Sweep(ctx, userID)
		if err != nil {
			w.logger.Error("Failed to run escalation sweep", zap.String("userID", userID), zap.Error(err))
			continue
		}
		if outcome != nil && outcome.Created {
			escalated++
			penaltiesApplied.WithLabelValues(outcome.Penalty.PenaltyType.String(), "sweep").Inc()
		}
	}

	w.logger.Info("Penalty sweep finished",
		zap.Int("expired", len(expired)),
		zap.Int("retried", retried),
		zap.Int("candidates", len(users)),
		zap.Int("escalated", escalated))

	return errors.Join(errs...)
}

// sweepCandidates are users with an active penalty or a violation in the sweep window.
func (w *Worker) sweepCandidates(ctx context.Context) ([]string, error) {
	active, err := w.deps.Penalties.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalized users: %w", err)
	}

	recent, err := w.deps.Violations.ListUserIDsSince(ctx, w.now().Add(-penalty.SweepWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent violators: %w", err)
	}

	users := append(active, recent...)
	slices.Sort(users)
	return slices.Compact(users), nil
}

// CleanupRetention prunes old alerts and cache keys that lost their TTL.
func (w *Worker) CleanupRetention(ctx context.Context) error {
	deleted, err := w.deps.Alerts.DeleteBefore(ctx, w.now().Add(-AlertRetention))
	if err != nil {
		return fmt.Errorf("failed to delete old alerts: %w", err)
	}

	stale, err := w.deleteStaleCacheKeys(ctx)
	if err != nil {
		return err
	}

	w.logger.Info("Retention cleanup finished", zap.Int("alerts", deleted), zap.Int("cacheKeys", stale))
	return nil
}

func (w *Worker) deleteStaleCacheKeys(ctx context.Context) (int, error) {
	client := w.deps.Cache

	var (
		cursor  uint64
		deleted int
	)
	for {
		entry, err := client.Do(ctx, client.B().Scan().Cursor(cursor).Match(staleCachePattern).Count(100).Build()).AsScanEntry()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		for _, key := range entry.Elements {
			ttl, err := client.Do(ctx, client.B().Ttl().Key(key).Build()).AsInt64()
			if err != nil || ttl != -1 {
				continue
			}
			if err := client.Do(ctx, client.B().Del().Key(key).Build()).Error(); err != nil {
				w.logger.Warn("Failed to delete stale cache key", zap.String("key", key), zap.Error(err))
				continue
			}
			deleted++
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// LearnFromFeedback mines whitelist patterns and adjusts thresholds from corrections.
func (w *Worker) LearnFromFeedback(ctx context.Context) error {
	report := w.deps.Learner.Learn(ctx)

	var changed int
	for _, a := range report.Adjustments {
		if a.Changed() {
			changed++
		}
	}

	var mined int
	for _, patterns := range report.Whitelisted {
		mined += len(patterns)
	}

	w.logger.Info("Feedback learning finished",
		zap.Int("thresholdsChanged", changed),
		zap.Int("whitelistPatterns", mined))
	return nil
}
