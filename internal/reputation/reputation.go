// Package reputation derives user reputations from violation and penalty history.
package reputation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/tier"
	"go.uber.org/zap"
)

// ViolationReader lists a user's confirmed violations.
type ViolationReader interface {
	ListConfirmedByUser(ctx context.Context, userID string) ([]*types.ViolationRecord, error)
}

// PenaltyReader lists a user's penalties, active or not.
type PenaltyReader interface {
	ListByUser(ctx context.Context, userID string) ([]*types.Penalty, error)
}

// FalsePositiveCounter counts corrections made in a user's favor.
type FalsePositiveCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// AccountReader loads the account used for tier calculation.
type AccountReader interface {
	Get(ctx context.Context, userID string) (*types.Account, error)
}

// Store persists reputations.
type Store interface {
	Get(ctx context.Context, userID string) (*types.UserReputation, error)
	Upsert(ctx context.Context, rep *types.UserReputation) error
}

// Locker serializes work per user.
type Locker interface {
	WithUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// Derive computes every reputation field from history. It is pure: the same history
// and clock always produce the same result. Superseded penalties never changed the
// account state and are not counted.
func Derive(
	userID string,
	violations []*types.ViolationRecord,
	penalties []*types.Penalty,
	falsePositives int,
	priorityTier enum.PriorityTier,
	now time.Time,
) *types.UserReputation {
	rep := types.DefaultReputation(userID)
	rep.PriorityTier = priorityTier
	rep.FalsePositiveCount = falsePositives

	for _, v := range violations {
		if !v.IsConfirmed() || v.UserID != userID {
			continue
		}
		rep.TotalViolations++
		rep.Counts.Add(v.ViolationType)

		if rep.LastViolationAt == nil || v.CreatedAt.After(*rep.LastViolationAt) {
			at := v.CreatedAt
			rep.LastViolationAt = &at
		}
	}

	for _, p := range penalties {
		if p.UserID != userID || p.Metadata.Superseded {
			continue
		}
		switch p.PenaltyType {
		case enum.PenaltyTypeShadowBan:
			rep.ShadowBanCount++
		case enum.PenaltyTypeOutrightBan:
			rep.OutrightBanCount++
		case enum.PenaltyTypeOfficialBan:
			rep.OfficialBanCount++
		case enum.PenaltyTypeWarning:
		}
	}

	rep.ViolationScore = ViolationScore(rep)
	rep.OverallScore = 100 - rep.ViolationScore
	rep.TrustLevel = Trust(rep)

	if rep.LastViolationAt != nil && now.After(*rep.LastViolationAt) {
		rep.ConsecutiveCleanDays = int(now.Sub(*rep.LastViolationAt).Hours() / 24)
	}

	return rep
}

// ViolationScore weighs violation and penalty counts into a 0-100 score.
func ViolationScore(rep *types.UserReputation) int {
	score := 5*rep.TotalViolations +
		20*rep.Counts.Religious +
		15*rep.Counts.HateSpeech +
		50*rep.OfficialBanCount +
		30*rep.OutrightBanCount +
		10*rep.ShadowBanCount
	return min(100, score)
}

// Trust resolves the trust level. Rules are checked from most to least severe.
func Trust(rep *types.UserReputation) enum.TrustLevel {
	switch {
	case rep.ViolationScore > 80 || rep.OfficialBanCount > 0:
		return enum.TrustLevelUntrusted
	case rep.ViolationScore > 50 || rep.OutrightBanCount > 0:
		return enum.TrustLevelLow
	case rep.ViolationScore < 10 && rep.TotalViolations == 0:
		return enum.TrustLevelHigh
	default:
		return enum.TrustLevelNormal
	}
}

// Ledger is the single writer of user reputations.
type Ledger struct {
	violations     ViolationReader
	penalties      PenaltyReader
	falsePositives FalsePositiveCounter
	accounts       AccountReader
	store          Store
	locker         Locker
	now            func() time.Time
	logger         *zap.Logger
}

// NewLedger creates a Ledger.
func NewLedger(
	violations ViolationReader,
	penalties PenaltyReader,
	falsePositives FalsePositiveCounter,
	accounts AccountReader,
	store Store,
	locker Locker,
	logger *zap.Logger,
) *Ledger {
	return &Ledger{
		violations:     violations,
		penalties:      penalties,
		falsePositives: falsePositives,
		accounts:       accounts,
		store:          store,
		locker:         locker,
		now:            time.Now,
		logger:         logger.Named("reputation"),
	}
}

// WithClock replaces the ledger's clock.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Recompute rebuilds and stores a user's reputation under the user's lock.
func (l *Ledger) Recompute(ctx context.Context, userID string) (*types.UserReputation, error) {
	var rep *types.UserReputation

	err := l.locker.WithUser(ctx, userID, func(ctx context.Context) error {
		violations, err := l.violations.ListConfirmedByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list violations: %w", err)
		}

		penalties, err := l.penalties.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list penalties: %w", err)
		}

		falsePositives, err := l.falsePositives.CountByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to count false positives: %w", err)
		}

		now := l.now()
		priorityTier := enum.PriorityTierFree
		account, err := l.accounts.Get(ctx, userID)
		switch {
		case err == nil:
			priorityTier = tier.Calculate(account, enum.TrustLevelNormal, now).Tier
		case !errors.Is(err, types.ErrNotFound):
			return fmt.Errorf("failed to get account: %w", err)
		}

		rep = Derive(userID, violations, penalties, falsePositives, priorityTier, now)
		if err := l.store.Upsert(ctx, rep); err != nil {
			return fmt.Errorf("failed to store reputation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Recomputed reputation",
		zap.String("userID", userID),
		zap.Int("violationScore", rep.ViolationScore),
		zap.String("trustLevel", rep.TrustLevel.String()))

	return rep, nil
}

// Snapshot returns the stored reputation, or the default for a user without one.
func (l *Ledger) Snapshot(ctx context.Context, userID string) (*types.UserReputation, error) {
	rep, err := l.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.DefaultReputation(userID), nil
		}
		return nil, fmt.Errorf("failed to get reputation: %w", err)
	}
	return rep, nil
}
