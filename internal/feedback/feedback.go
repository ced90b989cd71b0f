// Package feedback implements the false-positive feedback loop: human corrections,
// per-category threshold drift and whitelist mining.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/classifier"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/settings"
	"go.uber.org/zap"
)

const (
	// Window is the trailing window for rates and mining.
	Window = 30 * 24 * time.Hour
	// DriftRate is the false-positive rate above which a threshold is raised.
	DriftRate = 0.10
	// DriftStep is how much a threshold is raised at a time.
	DriftStep = 0.05
	// MiningShare is the share of recent false positives a pattern must appear in.
	MiningShare = 0.30
	// MiningSample is how many recent false positives are mined.
	MiningSample = 100
	// MiningMinimum is the fewest false positives worth mining.
	MiningMinimum = 3
)

// ErrInvalidStatusChange is returned when a record cannot become a false positive.
var ErrInvalidStatusChange = errors.New("invalid violation status change")

// ViolationStore reads and updates violation records.
type ViolationStore interface {
	Get(ctx context.Context, id uuid.UUID) (*types.ViolationRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enum.ViolationStatus, reviewer string, at time.Time) error
	CountByTypeSince(ctx context.Context, vt enum.ViolationType, since time.Time) (int, error)
}

// FalsePositiveStore persists corrections.
type FalsePositiveStore interface {
	Create(ctx context.Context, record *types.FalsePositiveRecord) error
	GetByViolation(ctx context.Context, violationID uuid.UUID) (*types.FalsePositiveRecord, error)
	CountByTypeSince(ctx context.Context, vt enum.ViolationType, since time.Time) (int, error)
	ListByTypeSince(ctx context.Context, vt enum.ViolationType, since time.Time, limit int) ([]*types.FalsePositiveRecord, error)
}

// SettingsStore reads and updates the moderation settings.
type SettingsStore interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
	Update(ctx context.Context, fn func(s *types.ModerationSettings) error) (*types.ModerationSettings, error)
}

// Recomputer rebuilds a user's reputation.
type Recomputer interface {
	Recompute(ctx context.Context, userID string) (*types.UserReputation, error)
}

// Locker serializes work per user.
type Locker interface {
	WithUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// Notifier publishes dashboard events.
type Notifier interface {
	Publish(ctx context.Context, event enum.EventType, userID string, data map[string]any)
}

// Adjustment is the outcome of a threshold drift check.
type Adjustment struct {
	Type           enum.ViolationType
	FalsePositives int
	Total          int
	Rate           float64
	Old            float64
	New            float64
}

// Changed reports whether the threshold moved.
func (a Adjustment) Changed() bool {
	return a.New != a.Old
}

// Correction is the outcome of marking a record as a false positive.
type Correction struct {
	Record     *types.FalsePositiveRecord
	Adjustment Adjustment
}

// Loop records corrections and tunes the classifier from them.
type Loop struct {
	violations     ViolationStore
	falsePositives FalsePositiveStore
	settings       SettingsStore
	ledger         Recomputer
	locker         Locker
	notifier       Notifier
	now            func() time.Time
	logger         *zap.Logger
}

// New creates a feedback loop.
func New(
	violations ViolationStore,
	falsePositives FalsePositiveStore,
	settings SettingsStore,
	ledger Recomputer,
	locker Locker,
	notifier Notifier,
	logger *zap.Logger,
) *Loop {
	return &Loop{
		violations:     violations,
		falsePositives: falsePositives,
		settings:       settings,
		ledger:         ledger,
		locker:         locker,
		notifier:       notifier,
		now:            time.Now,
		logger:         logger.Named("feedback"),
	}
}

// WithClock replaces the loop's clock.
func (l *Loop) WithClock(now func() time.Time) *Loop {
	l.now = now
	return l
}

// MarkFalsePositive records a human correction of a pending or confirmed record,
// recomputes the user's reputation and checks the category for threshold drift.
func (l *Loop) MarkFalsePositive(
	ctx context.Context, violationID uuid.UUID, correctedBy, reason string,
) (*Correction, error) {
	record, err := l.violations.Get(ctx, violationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get violation record: %w", err)
	}
	if !record.Status.CanTransitionTo(enum.ViolationStatusFalsePositive) {
		return nil, fmt.Errorf("%w: %s record %s", ErrInvalidStatusChange, record.Status, violationID)
	}

	var fp *types.FalsePositiveRecord

	err = l.locker.WithUser(ctx, record.UserID, func(ctx context.Context) error {
		now := l.now()

		fp = &types.FalsePositiveRecord{
			ID:                    uuid.New(),
			ViolationRecordID:     record.ID,
			UserID:                record.UserID,
			CorrectedBy:           correctedBy,
			Reason:                reason,
			OriginalViolationType: record.ViolationType,
			OriginalConfidence:    record.Confidence,
			Patterns:              record.DetectedPatterns,
			Keywords:              record.Keywords,
			CreatedAt:             now,
		}

		// Written before the status flips; a retry reuses the earlier correction.
		if err := l.falsePositives.Create(ctx, fp); err != nil {
			if !errors.Is(err, types.ErrDuplicate) {
				return fmt.Errorf("failed to create false positive record: %w", err)
			}
			existing, err := l.falsePositives.GetByViolation(ctx, record.ID)
			if err != nil {
				return fmt.Errorf("failed to get false positive record: %w", err)
			}
			fp = existing
		}

		err := l.violations.UpdateStatus(ctx, record.ID, record.Status, enum.ViolationStatusFalsePositive, correctedBy, now)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("%w: record %s changed concurrently", ErrInvalidStatusChange, violationID)
			}
			return fmt.Errorf("failed to update violation status: %w", err)
		}

		if _, err := l.ledger.Recompute(ctx, record.UserID); err != nil {
			return fmt.Errorf("failed to recompute reputation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("False positive recorded",
		zap.String("violationID", violationID.String()),
		zap.String("userID", record.UserID),
		zap.String("violationType", record.ViolationType.String()),
		zap.String("correctedBy", correctedBy))

	adjustment, err := l.AdjustThreshold(ctx, record.ViolationType)
	if err != nil {
		l.logger.Warn("Failed to evaluate threshold drift",
			zap.String("violationType", record.ViolationType.String()),
			zap.Error(err))
	}

	l.notifier.Publish(ctx, enum.EventTypeFalsePositiveRecorded, record.UserID, map[string]any{
		"violationId":   violationID.String(),
		"violationType": record.ViolationType.String(),
		"correctedBy":   correctedBy,
		"thresholdOld":  adjustment.Old,
		"thresholdNew":  adjustment.New,
	})

	return &Correction{Record: fp, Adjustment: adjustment}, nil
}

// AdjustThreshold raises a category's threshold by DriftStep when its false-positive
// rate over Window exceeds DriftRate. Categories without a threshold are left alone.
func (l *Loop) AdjustThreshold(ctx context.Context, vt enum.ViolationType) (Adjustment, error) {
	adj := Adjustment{Type: vt}

	current, err := l.settings.Get(ctx)
	if err != nil {
		return adj, fmt.Errorf("failed to load settings: %w", err)
	}
	adj.Old = current.Thresholds.For(vt)
	adj.New = adj.Old

	if vt.IsZeroTolerance() || vt == enum.ViolationTypeOther {
		return adj, nil
	}

	since := l.now().Add(-Window)

	adj.FalsePositives, err = l.falsePositives.CountByTypeSince(ctx, vt, since)
	if err != nil {
		return adj, fmt.Errorf("failed to count false positives: %w", err)
	}
	adj.Total, err = l.violations.CountByTypeSince(ctx, vt, since)
	if err != nil {
		return adj, fmt.Errorf("failed to count violations: %w", err)
	}
	if adj.Total == 0 {
		return adj, nil
	}

	adj.Rate = float64(adj.FalsePositives) / float64(adj.Total)
	if adj.Rate <= DriftRate {
		return adj, nil
	}

	next := Drift(adj.Old)
	if next <= adj.Old {
		return adj, nil
	}

	updated, err := l.settings.Update(ctx, func(s *types.ModerationSettings) error {
		s.Thresholds.Set(vt, Drift(s.Thresholds.For(vt)))
		return nil
	})
	if err != nil {
		return adj, fmt.Errorf("failed to raise threshold: %w", err)
	}
	adj.New = updated.Thresholds.For(vt)

	l.logger.Info("Raised confidence threshold",
		zap.String("violationType", vt.String()),
		zap.Float64("rate", adj.Rate),
		zap.Float64("old", adj.Old),
		zap.Float64("new", adj.New))

	l.notifier.Publish(ctx, enum.EventTypeSettingsUpdated, "", map[string]any{
		"violationType": vt.String(),
		"threshold":     adj.New,
		"reason":        "false_positive_rate",
	})

	return adj, nil
}

// Drift returns a threshold raised by DriftStep, rounded to two decimals and capped.
func Drift(threshold float64) float64 {
	next := math.Round((threshold+DriftStep)*100) / 100
	return math.Min(next, settings.MaxThreshold)
}

// MineWhitelist adds to a category's whitelist every detected pattern that appears in at
// least MiningShare of its recent false positives. It returns the patterns added.
func (l *Loop) MineWhitelist(ctx context.Context, vt enum.ViolationType) ([]string, error) {
	if vt.IsZeroTolerance() || vt == enum.ViolationTypeOther {
		return nil, nil
	}

	records, err := l.falsePositives.ListByTypeSince(ctx, vt, l.now().Add(-Window), MiningSample)
	if err != nil {
		return nil, fmt.Errorf("failed to list false positives: %w", err)
	}
	if len(records) < MiningMinimum {
		return nil, nil
	}

	candidates := CommonPatterns(records, MiningShare)
	if len(candidates) == 0 {
		return nil, nil
	}

	var added []string
	_, err = l.settings.Update(ctx, func(s *types.ModerationSettings) error {
		added = added[:0]
		for _, pattern := range candidates {
			if _, err := regexp.Compile(pattern); err != nil {
				l.logger.Warn("Skipping pattern that is not a valid expression",
					zap.String("pattern", pattern), zap.Error(err))
				continue
			}
			if s.AddWhitelistPattern(vt, pattern) {
				added = append(added, pattern)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update whitelist: %w", err)
	}

	if len(added) > 0 {
		l.logger.Info("Whitelisted patterns from false positives",
			zap.String("violationType", vt.String()),
			zap.Strings("patterns", added),
			zap.Int("sample", len(records)))
	}

	return added, nil
}

// CommonPatterns returns the patterns found in at least share of records, sorted.
// Oracle attribute markers and heuristic markers are never returned.
func CommonPatterns(records []*types.FalsePositiveRecord, share float64) []string {
	counts := make(map[string]int)
	for _, r := range records {
		seen := make(map[string]struct{}, len(r.Patterns))
		for _, pattern := range r.Patterns {
			if pattern == "" ||
				strings.HasPrefix(pattern, classifier.OraclePatternPrefix) ||
				strings.HasPrefix(pattern, classifier.HeuristicPatternPrefix) {
				continue
			}
			if _, ok := seen[pattern]; ok {
				continue
			}
			seen[pattern] = struct{}{}
			counts[pattern]++
		}
	}

	var out []string
	for pattern, n := range counts {
		if float64(n)/float64(len(records)) >= share {
			out = append(out, pattern)
		}
	}
	sort.Strings(out)
	return out
}

// Report summarizes a learning run.
type Report struct {
	Adjustments []Adjustment
	Whitelisted map[enum.ViolationType][]string
}

// Learn runs whitelist mining and threshold drift for every tunable category.
// A failing category is logged and the rest still run.
func (l *Loop) Learn(ctx context.Context) Report {
	report := Report{Whitelisted: make(map[enum.ViolationType][]string)}

	for _, vt := range enum.DetectionOrder() {
		if vt.IsZeroTolerance() {
			continue
		}

		added, err := l.MineWhitelist(ctx, vt)
		if err != nil {
			l.logger.Error("Whitelist mining failed", zap.String("violationType", vt.String()), zap.Error(err))
		} else if len(added) > 0 {
			report.Whitelisted[vt] = added
		}

		adj, err := l.AdjustThreshold(ctx, vt)
		if err != nil {
			l.logger.Error("Threshold drift failed", zap.String("violationType", vt.String()), zap.Error(err))
			continue
		}
		report.Adjustments = append(report.Adjustments, adj)
	}

	return report
}
