// Package penalty implements the penalty state machine: penalty selection, escalation,
// the auto-escalation sweep, expiry and revocation. Side effects are planned as Effect
// lists and executed by an EffectRunner.
package penalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// MaxCapturedIPs bounds how many session IPs an official ban deny-lists.
const MaxCapturedIPs = 10

// ErrInvalidTransition is returned for a state or penalty type outside the machine.
var ErrInvalidTransition = errors.New("invalid penalty transition")

// PenaltyStore persists penalty rows.
type PenaltyStore interface {
	Create(ctx context.Context, penalty *types.Penalty) (bool, error)
	GetByKey(ctx context.Context, key string) (*types.Penalty, error)
	ListByUser(ctx context.Context, userID string) ([]*types.Penalty, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*types.Penalty, error)
	Deactivate(ctx context.Context, ids []uuid.UUID) error
	DeactivateByUser(ctx context.Context, userID string) (int, error)
	ListUnenforced(ctx context.Context, before time.Time, limit int) ([]*types.Penalty, error)
	MarkEnforced(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ViolationReader lists confirmed violations.
type ViolationReader interface {
	ListConfirmedByUser(ctx context.Context, userID string) ([]*types.ViolationRecord, error)
	ListConfirmedByUserSince(ctx context.Context, userID string, since time.Time) ([]*types.ViolationRecord, error)
}

// AccountReader reads the identifiers an official ban captures.
type AccountReader interface {
	Get(ctx context.Context, userID string) (*types.Account, error)
	ListSessionIPs(ctx context.Context, userID string, limit int) ([]string, error)
}

// EffectRunner executes planned side effects.
type EffectRunner interface {
	Run(ctx context.Context, effects []Effect) error
}

// Recomputer rebuilds a user's reputation.
type Recomputer interface {
	Recompute(ctx context.Context, userID string) (*types.UserReputation, error)
}

// Locker serializes work per user.
type Locker interface {
	WithUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// SettingsSource provides escalation thresholds and durations.
type SettingsSource interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
}

// Notifier publishes dashboard events.
type Notifier interface {
	Publish(ctx context.Context, event enum.EventType, userID string, data map[string]any)
}

// Outcome describes what applying a penalty did.
type Outcome struct {
	Penalty *types.Penalty
	// Created is false when a penalty with the same idempotency key already existed.
	Created  bool
	Previous enum.BanState
	State    enum.BanState
	// Enforced is false when a side effect failed; the sweep retries it.
	Enforced bool
}

// ManualRequest is an operator-issued penalty.
type ManualRequest struct {
	UserID string
	Type   enum.PenaltyType
	// DurationHours overrides the configured duration when set. 0 means permanent.
	DurationHours *int
	Reason        string
	AppliedBy     string
	ViolationID   *uuid.UUID
}

// request is a penalty about to be written.
type request struct {
	userID      string
	violationID *uuid.UUID
	penaltyType enum.PenaltyType
	level       int
	hours       *int
	automatic   bool
	key         string
	event       enum.EventType
	metadata    types.PenaltyMetadata
}

// Machine owns every write to penalty rows.
type Machine struct {
	penalties  PenaltyStore
	violations ViolationReader
	accounts   AccountReader
	runner     EffectRunner
	ledger     Recomputer
	locker     Locker
	settings   SettingsSource
	notifier   Notifier
	now        func() time.Time
	logger     *zap.Logger
}

// NewMachine creates a penalty state machine.
func NewMachine(
	penalties PenaltyStore,
	violations ViolationReader,
	accounts AccountReader,
	runner EffectRunner,
	ledger Recomputer,
	locker Locker,
	settings SettingsSource,
	notifier Notifier,
	logger *zap.Logger,
) *Machine {
	return &Machine{
		penalties:  penalties,
		violations: violations,
		accounts:   accounts,
		runner:     runner,
		ledger:     ledger,
		locker:     locker,
		settings:   settings,
		notifier:   notifier,
		now:        time.Now,
		logger:     logger.Named("penalty_machine"),
	}
}

// WithClock replaces the machine's clock.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// State returns the current account state of a user.
func (m *Machine) State(ctx context.Context, userID string) (enum.BanState, error) {
	penalties, err := m.penalties.ListByUser(ctx, userID)
	if err != nil {
		return enum.BanStateNone, fmt.Errorf("failed to list penalties: %w", err)
	}
	return CurrentState(penalties, m.now()), nil
}

// ForViolation escalates a user for a confirmed violation record. detail is the
// violation that drives the penalty. Calling it again for the same record returns
// the existing penalty and retries its enforcement if needed.
func (m *Machine) ForViolation(
	ctx context.Context, record *types.ViolationRecord, detail types.ViolationDetail,
) (*Outcome, error) {
	var outcome *Outcome

	err := m.locker.WithUser(ctx, record.UserID, func(ctx context.Context) error {
		settings, err := m.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		confirmed, err := m.violations.ListConfirmedByUser(ctx, record.UserID)
		if err != nil {
			return fmt.Errorf("failed to list confirmed violations: %w", err)
		}

		prior := 0
		for _, v := range confirmed {
			if v.ID != record.ID {
				prior++
			}
		}

		level := EscalationLevel(prior, settings.Escalation)
		penaltyType := SelectType(detail, level)
		hours := settings.Durations.HoursFor(penaltyType)
		violationID := record.ID

		outcome, err = m.apply(ctx, request{
			userID:      record.UserID,
			violationID: &violationID,
			penaltyType: penaltyType,
			level:       level,
			hours:       &hours,
			automatic:   true,
			key:         ViolationKey(record.ID),
			event:       enum.EventTypePenaltyApplied,
			metadata: types.PenaltyMetadata{
				Reason:        "automatic: " + detail.Type.String(),
				AppliedBy:     "system",
				ViolationType: detail.Type,
				Severity:      detail.Severity,
				Confidence:    detail.Confidence,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// Manual applies an operator penalty. It always creates a new row.
func (m *Machine) Manual(ctx context.Context, req ManualRequest) (*Outcome, error) {
	if !req.Type.IsAPenaltyType() {
		return nil, fmt.Errorf("%w: unknown penalty type %d", ErrInvalidTransition, int(req.Type))
	}
	if req.DurationHours != nil && *req.DurationHours < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalidTransition)
	}

	var outcome *Outcome

	err := m.locker.WithUser(ctx, req.UserID, func(ctx context.Context) error {
		settings, err := m.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		confirmed, err := m.violations.ListConfirmedByUser(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to list confirmed violations: %w", err)
		}

		hours := req.DurationHours
		if hours == nil {
			configured := settings.Durations.HoursFor(req.Type)
			hours = &configured
		}

		outcome, err = m.apply(ctx, request{
			userID:      req.UserID,
			violationID: req.ViolationID,
			penaltyType: req.Type,
			level:       EscalationLevel(len(confirmed), settings.Escalation),
			hours:       hours,
			automatic:   false,
			key:         ManualKey(uuid.New()),
			event:       enum.EventTypePenaltyApplied,
			metadata: types.PenaltyMetadata{
				Reason:        req.Reason,
				AppliedBy:     req.AppliedBy,
				ViolationType: enum.ViolationTypeOther,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// Sweep runs the auto-escalation rules for one user. It returns nil when no rule fires.
func (m *Machine) Sweep(ctx context.Context, userID string) (*Outcome, error) {
	var outcome *Outcome

	err := m.locker.WithUser(ctx, userID, func(ctx context.Context) error {
		now := m.now()

		penalties, err := m.penalties.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list penalties: %w", err)
		}

		violations, err := m.violations.ListConfirmedByUserSince(ctx, userID, now.Add(-SweepWindow))
		if err != nil {
			return fmt.Errorf("failed to list confirmed violations: %w", err)
		}

		action, ok := EvaluateSweep(penalties, violations, CurrentState(penalties, now), now)
		if !ok {
			return nil
		}

		settings, err := m.settings.Get(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		level := 2
		if action.Target == enum.PenaltyTypeOfficialBan {
			level = 3
		}
		hours := settings.Durations.HoursFor(action.Target)

		metadata := types.PenaltyMetadata{
			Reason:           "escalation: " + action.Rule,
			AppliedBy:        "system:sweep",
			ViolationType:    enum.ViolationTypeOther,
			Rule:             action.Rule,
			ShadowBanCount:   action.ShadowBans,
			OutrightBanCount: action.OutrightBans,
		}
		if action.Rule == RuleZeroTolerance {
			metadata.ViolationType = enum.ViolationTypeReligious
			metadata.Severity = enum.SeverityCritical
		}

		outcome, err = m.apply(ctx, request{
			userID:      userID,
			penaltyType: action.Target,
			level:       level,
			hours:       &hours,
			automatic:   true,
			key:         action.IdempotencyKey(),
			event:       enum.EventTypePenaltyEscalated,
			metadata:    metadata,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// apply writes a penalty and enforces it. It must run under the user's lock.
func (m *Machine) apply(ctx context.Context, req request) (*Outcome, error) {
	existing, err := m.penalties.GetByKey(ctx, req.key)
	switch {
	case err == nil:
		return m.resume(ctx, existing)
	case !errors.Is(err, types.ErrNotFound):
		return nil, fmt.Errorf("failed to look up penalty %s: %w", req.key, err)
	}

	now := m.now()

	penalties, err := m.penalties.ListByUser(ctx, req.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list penalties: %w", err)
	}

	previous := CurrentState(penalties, now)
	next, superseded, err := Transition(previous, req.penaltyType)
	if err != nil {
		return nil, err
	}

	metadata := req.metadata
	metadata.PreviousState = previous
	metadata.Superseded = superseded

	p := &types.Penalty{
		ID:                uuid.New(),
		UserID:            req.userID,
		ViolationRecordID: req.violationID,
		IdempotencyKey:    req.key,
		PenaltyType:       req.penaltyType,
		EscalationLevel:   req.level,
		IsAutomatic:       req.automatic,
		IsActive:          true,
		StartDate:         now,
		CreatedAt:         now,
	}
	if req.hours != nil && *req.hours > 0 {
		p.DurationHours = *req.hours
		end := now.Add(p.Duration())
		p.EndDate = &end
	}

	// Identifiers are captured before the row exists so a retried enforcement
	// never reads an already anonymized account.
	if req.penaltyType == enum.PenaltyTypeOfficialBan && !superseded {
		if err := m.capture(ctx, req.userID, &metadata); err != nil {
			return nil, err
		}
	}
	p.Metadata = metadata

	created, err := m.penalties.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create penalty: %w", err)
	}
	if !created {
		existing, err := m.penalties.GetByKey(ctx, req.key)
		if err != nil {
			return nil, fmt.Errorf("failed to load concurrent penalty %s: %w", req.key, err)
		}
		return m.resume(ctx, existing)
	}

	m.logger.Info("Penalty applied",
		zap.String("userID", p.UserID),
		zap.String("penaltyType", p.PenaltyType.String()),
		zap.String("key", p.IdempotencyKey),
		zap.Int("level", p.EscalationLevel),
		zap.Bool("superseded", superseded))

	enforced := m.enforce(ctx, p)

	if _, err := m.ledger.Recompute(ctx, p.UserID); err != nil {
		return nil, fmt.Errorf("failed to recompute reputation: %w", err)
	}

	if !superseded {
		m.notifier.Publish(ctx, req.event, p.UserID, map[string]any{
			"penaltyId":     p.ID.String(),
			"penaltyType":   p.PenaltyType.String(),
			"level":         p.EscalationLevel,
			"durationHours": p.DurationHours,
			"automatic":     p.IsAutomatic,
			"key":           p.IdempotencyKey,
		})
	}

	return &Outcome{
		Penalty:  p,
		Created:  true,
		Previous: previous,
		State:    next,
		Enforced: enforced,
	}, nil
}

// resume finishes a penalty written by an earlier attempt.
func (m *Machine) resume(ctx context.Context, p *types.Penalty) (*Outcome, error) {
	enforced := p.EnforcedAt != nil
	if !enforced && p.IsActive && !p.IsExpired(m.now()) {
		enforced = m.enforce(ctx, p)
		if _, err := m.ledger.Recompute(ctx, p.UserID); err != nil {
			return nil, fmt.Errorf("failed to recompute reputation: %w", err)
		}
	}

	state, err := m.State(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Penalty:  p,
		Created:  false,
		Previous: p.Metadata.PreviousState,
		State:    state,
		Enforced: enforced,
	}, nil
}

// enforce runs the penalty's effects and stamps it enforced on success.
// Failures are logged and left for the sweep.
func (m *Machine) enforce(ctx context.Context, p *types.Penalty) bool {
	if err := m.runner.Run(ctx, PlanAt(p, m.now())); err != nil {
		m.logger.Error("Penalty enforcement failed, will retry on next sweep",
			zap.String("failure", "enforcement"),
			zap.String("userID", p.UserID),
			zap.String("penaltyID", p.ID.String()),
			zap.String("penaltyType", p.PenaltyType.String()),
			zap.Error(err))
		return false
	}

	now := m.now()
	if err := m.penalties.MarkEnforced(ctx, p.ID, now); err != nil {
		m.logger.Error("Failed to mark penalty enforced",
			zap.String("failure", "enforcement"),
			zap.String("penaltyID", p.ID.String()),
			zap.Error(err))
		return false
	}
	p.EnforcedAt = &now
	return true
}

// capture records the identifiers an official ban deny-lists.
func (m *Machine) capture(ctx context.Context, userID string, metadata *types.PenaltyMetadata) error {
	account, err := m.accounts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			m.logger.Warn("No account to capture identifiers from", zap.String("userID", userID))
			return nil
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	ips, err := m.accounts.ListSessionIPs(ctx, userID, MaxCapturedIPs)
	if err != nil {
		return fmt.Errorf("failed to list session IPs: %w", err)
	}

	metadata.CapturedIPs = ips
	metadata.CapturedEmail = account.Email
	metadata.CapturedUsername = account.Username
	return nil
}

// ExpireDue deactivates penalties past their end date and reinstates suspended
// accounts that no longer hold a suspension-level penalty.
func (m *Machine) ExpireDue(ctx context.Context, limit int) ([]*types.Penalty, error) {
	expired, err := m.penalties.ListExpired(ctx, m.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired penalties: %w", err)
	}
	if len(expired) == 0 {
		return nil, nil
	}

	byUser := make(map[string][]*types.Penalty)
	var users []string
	for _, p := range expired {
		if _, ok := byUser[p.UserID]; !ok {
			users = append(users, p.UserID)
		}
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	done := make([]*types.Penalty, 0, len(expired))
	for _, userID := range users {
		err := m.locker.WithUser(ctx, userID, func(ctx context.Context) error {
			ids := make([]uuid.UUID, 0, len(byUser[userID]))
			for _, p := range byUser[userID] {
				ids = append(ids, p.ID)
			}
			if err := m.penalties.Deactivate(ctx, ids); err != nil {
				return fmt.Errorf("failed to deactivate expired penalties: %w", err)
			}

			state, err := m.State(ctx, userID)
			if err != nil {
				return err
			}

			if err := m.runner.Run(ctx, PlanExpiry(userID, state)); err != nil {
				m.logger.Error("Failed to reinstate account after expiry",
					zap.String("failure", "enforcement"),
					zap.String("userID", userID),
					zap.Error(err))
			}

			if _, err := m.ledger.Recompute(ctx, userID); err != nil {
				return fmt.Errorf("failed to recompute reputation: %w", err)
			}
			return nil
		})
		if err != nil {
			m.logger.Error("Failed to finish penalty expiry", zap.String("userID", userID), zap.Error(err))
			continue
		}
		done = append(done, byUser[userID]...)

		for _, p := range byUser[userID] {
			if p.Metadata.Superseded || !p.PenaltyType.State().AtLeast(enum.PenaltyTypeOutrightBan) {
				continue
			}
			m.notifier.Publish(ctx, enum.EventTypePenaltyExpired, userID, map[string]any{
				"penaltyId":   p.ID.String(),
				"penaltyType": p.PenaltyType.String(),
			})
		}
	}

	m.logger.Info("Expired penalties", zap.Int("count", len(done)), zap.Int("users", len(users)))
	return done, nil
}

// RetryUnenforced re-runs the effects of penalties whose enforcement failed earlier.
// Penalties younger than grace are left alone since they may still be in flight.
func (m *Machine) RetryUnenforced(ctx context.Context, grace time.Duration, limit int) (int, error) {
	pending, err := m.penalties.ListUnenforced(ctx, m.now().Add(-grace), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list unenforced penalties: %w", err)
	}

	var enforced int
	for _, p := range pending {
		err := m.locker.WithUser(ctx, p.UserID, func(ctx context.Context) error {
			outcome, err := m.resume(ctx, p)
			if err != nil {
				return err
			}
			if outcome.Enforced {
				enforced++
			}
			return nil
		})
		if err != nil {
			m.logger.Error("Failed to retry penalty enforcement",
				zap.String("penaltyID", p.ID.String()),
				zap.Error(err))
		}
	}

	return enforced, nil
}

// Revoke deactivates every active penalty of a user and resets the account state.
// Deny-list entries stay in place.
func (m *Machine) Revoke(ctx context.Context, userID, revokedBy string) (int, error) {
	var revoked int

	err := m.locker.WithUser(ctx, userID, func(ctx context.Context) error {
		var err error
		revoked, err = m.penalties.DeactivateByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to deactivate penalties: %w", err)
		}

		if err := m.runner.Run(ctx, PlanRevoke(userID)); err != nil {
			m.logger.Error("Failed to lift penalty effects",
				zap.String("failure", "enforcement"),
				zap.String("userID", userID),
				zap.Error(err))
		}

		if _, err := m.ledger.Recompute(ctx, userID); err != nil {
			return fmt.Errorf("failed to recompute reputation: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	m.logger.Info("Penalties revoked",
		zap.String("userID", userID),
		zap.String("revokedBy", revokedBy),
		zap.Int("count", revoked))

	m.notifier.Publish(ctx, enum.EventTypePenaltyRevoked, userID, map[string]any{
		"revokedBy": revokedBy,
		"count":     revoked,
	})

	return revoked, nil
}
