package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/feedback"
	"github.com/robalyx/warden/internal/penalty"
	"go.uber.org/zap"
)

const (
	// AutoApplyReviewer is recorded as the reviewer of records confirmed by auto-apply.
	AutoApplyReviewer = "system:auto-apply"
	// AutoApplyMinConfidence is the top violation confidence auto-apply requires.
	AutoApplyMinConfidence = 0.9
	// DefaultQueueLimit bounds ModerationQueue when no limit is given.
	DefaultQueueLimit = 50
)

// ErrNotPending is returned when a review action targets a record that was already reviewed.
var ErrNotPending = errors.New("violation record is not pending")

// ConfirmViolation confirms a pending record and hands it to the penalty state machine.
func (e *Engine) ConfirmViolation(ctx context.Context, violationID uuid.UUID, reviewer string) (*penalty.Outcome, error) {
	record, err := e.deps.Violations.Get(ctx, violationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get violation record: %w", err)
	}

	return e.confirm(ctx, record, detailOf(record), reviewer)
}

// confirm flips a record to confirmed, escalates the user and rebuilds the reputation.
func (e *Engine) confirm(
	ctx context.Context, record *types.ViolationRecord, detail types.ViolationDetail, reviewer string,
) (*penalty.Outcome, error) {
	var outcome *penalty.Outcome

	err := e.deps.Locker.WithUser(ctx, record.UserID, func(ctx context.Context) error {
		err := e.deps.Violations.UpdateStatus(ctx, record.ID,
			enum.ViolationStatusPending, enum.ViolationStatusConfirmed, reviewer, e.now())
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrNotPending, record.ID)
			}
			return fmt.Errorf("failed to confirm violation record: %w", err)
		}

		record.Status = enum.ViolationStatusConfirmed
		record.ReviewedBy = reviewer

		outcome, err = e.deps.Machine.ForViolation(ctx, record, detail)
		if err != nil {
			return fmt.Errorf("failed to apply penalty: %w", err)
		}

		if _, err := e.deps.Ledger.Recompute(ctx, record.UserID); err != nil {
			return fmt.Errorf("failed to recompute reputation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Violation confirmed",
		zap.String("violationID", record.ID.String()),
		zap.String("userID", record.UserID),
		zap.String("reviewer", reviewer),
		zap.String("penalty", outcome.Penalty.PenaltyType.String()))

	return outcome, nil
}

// MarkFalsePositive records a human correction of a detection.
func (e *Engine) MarkFalsePositive(
	ctx context.Context, violationID uuid.UUID, reviewer, reason string,
) (*feedback.Correction, error) {
	return e.deps.Feedback.MarkFalsePositive(ctx, violationID, reviewer, reason)
}

// ManualPenalty is an operator-issued penalty.
type ManualPenalty struct {
	UserID        string
	Type          enum.PenaltyType
	DurationHours *int
	Reason        string
	AppliedBy     string
	ViolationID   *uuid.UUID
}

// ApplyPenalty applies a manual penalty through the state machine.
func (e *Engine) ApplyPenalty(ctx context.Context, p ManualPenalty) (*penalty.Outcome, error) {
	outcome, err := e.deps.Machine.Manual(ctx, penalty.ManualRequest{
		UserID:        p.UserID,
		Type:          p.Type,
		DurationHours: p.DurationHours,
		Reason:        p.Reason,
		AppliedBy:     p.AppliedBy,
		ViolationID:   p.ViolationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply manual penalty: %w", err)
	}
	return outcome, nil
}

// RevokePenalties lifts every active penalty of a user. Deny-list entries stay.
func (e *Engine) RevokePenalties(ctx context.Context, userID, revokedBy string) (int, error) {
	return e.deps.Machine.Revoke(ctx, userID, revokedBy)
}

// PenaltyState returns the user's current account state.
func (e *Engine) PenaltyState(ctx context.Context, userID string) (enum.BanState, error) {
	return e.deps.Machine.State(ctx, userID)
}

// ModerationQueue lists pending records, most urgent first.
func (e *Engine) ModerationQueue(ctx context.Context, limit int) ([]*types.ViolationRecord, error) {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	records, err := e.deps.Violations.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending violations: %w", err)
	}
	return records, nil
}

// IsIPBanned reports whether an address is on the deny-list.
func (e *Engine) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	return e.deps.DenyList.IsIPBanned(ctx, ip)
}

// IsEmailBanned reports whether an email address is on the deny-list.
func (e *Engine) IsEmailBanned(ctx context.Context, email string) (bool, error) {
	return e.deps.DenyList.IsEmailBanned(ctx, email)
}

// AutoApply escalates a pending decision without human review when it is urgent and
// certain enough and the matching automatic penalty is enabled. It returns nil when
// the decision does not qualify.
func (e *Engine) AutoApply(ctx context.Context, d *Decision) (*penalty.Outcome, error) {
	if d == nil || d.Record == nil || d.Record.Status != enum.ViolationStatusPending {
		return nil, nil
	}
	if d.Tier.AutoApprove || d.AutoApproved {
		return nil, nil
	}

	settings, err := e.deps.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	top, ok := Top(d.Violations)
	if !ok || d.Priority < settings.AutoApplyMinPriority || top.Confidence < AutoApplyMinConfidence {
		return nil, nil
	}

	penaltyType, ok := AutoPenaltyFor(top.Severity)
	if !ok || !settings.AutoEnable.Allows(penaltyType) {
		return nil, nil
	}

	outcome, err := e.confirm(ctx, d.Record, top, AutoApplyReviewer)
	if err != nil {
		if errors.Is(err, ErrNotPending) {
			return nil, nil
		}
		return nil, err
	}

	d.Penalty = outcome
	return outcome, nil
}
