// Package moderation holds the decision engine: it turns a piece of content into a
// moderation decision, persists violations and hands blocking decisions to the
// penalty state machine. Engine is also the entry point for operator actions.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/feedback"
	"github.com/robalyx/warden/internal/penalty"
	"github.com/robalyx/warden/internal/tier"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrPersistence is returned when a decision could not be recorded. The caller retries
// the item later; nothing visible was left behind.
var ErrPersistence = errors.New("failed to persist moderation decision")

// ViolationStore persists violation records.
type ViolationStore interface {
	Create(ctx context.Context, record *types.ViolationRecord) error
	Get(ctx context.Context, id uuid.UUID) (*types.ViolationRecord, error)
	GetByContent(ctx context.Context, contentType enum.ContentType, contentID string) (*types.ViolationRecord, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enum.ViolationStatus, reviewer string, at time.Time) error
	ListPending(ctx context.Context, limit int) ([]*types.ViolationRecord, error)
	ListSince(ctx context.Context, since time.Time) ([]*types.ViolationRecord, error)
	CountByTypeSince(ctx context.Context, vt enum.ViolationType, since time.Time) (int, error)
}

// PenaltyCounter counts active penalties.
type PenaltyCounter interface {
	CountActive(ctx context.Context) (int, error)
}

// FalsePositiveReader lists corrections.
type FalsePositiveReader interface {
	ListSince(ctx context.Context, since time.Time) ([]*types.FalsePositiveRecord, error)
}

// AccountReader reads accounts.
type AccountReader interface {
	Get(ctx context.Context, userID string) (*types.Account, error)
}

// Classifier detects violations in text.
type Classifier interface {
	Classify(ctx context.Context, contentID, text string) []types.ViolationDetail
}

// Ledger reads and rebuilds reputations.
type Ledger interface {
	Snapshot(ctx context.Context, userID string) (*types.UserReputation, error)
	Recompute(ctx context.Context, userID string) (*types.UserReputation, error)
}

// PenaltyMachine applies and lifts penalties.
type PenaltyMachine interface {
	ForViolation(ctx context.Context, record *types.ViolationRecord, detail types.ViolationDetail) (*penalty.Outcome, error)
	Manual(ctx context.Context, req penalty.ManualRequest) (*penalty.Outcome, error)
	Revoke(ctx context.Context, userID, revokedBy string) (int, error)
	State(ctx context.Context, userID string) (enum.BanState, error)
}

// Feedback records human corrections.
type Feedback interface {
	MarkFalsePositive(ctx context.Context, violationID uuid.UUID, correctedBy, reason string) (*feedback.Correction, error)
}

// SettingsSource provides the current moderation settings.
type SettingsSource interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
}

// DenyList answers the submission and login gates.
type DenyList interface {
	IsIPBanned(ctx context.Context, ip string) (bool, error)
	IsEmailBanned(ctx context.Context, email string) (bool, error)
}

// Locker serializes work per user.
type Locker interface {
	WithUser(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// Notifier publishes dashboard events.
type Notifier interface {
	Publish(ctx context.Context, event enum.EventType, userID string, data map[string]any)
}

// Dependencies are the collaborators of an Engine.
type Dependencies struct {
	Violations     ViolationStore
	Penalties      PenaltyCounter
	FalsePositives FalsePositiveReader
	Accounts       AccountReader
	Classifier     Classifier
	Ledger         Ledger
	Machine        PenaltyMachine
	Feedback       Feedback
	Settings       SettingsSource
	DenyList       DenyList
	Locker         Locker
	Notifier       Notifier
}

// Engine is the moderation decision engine. It is built once at process start and
// shared by the worker and the admin CLI.
type Engine struct {
	deps   Dependencies
	now    func() time.Time
	tracer trace.Tracer
	logger *zap.Logger
}

// NewEngine creates an Engine.
func NewEngine(deps Dependencies, logger *zap.Logger) *Engine {
	return &Engine{
		deps:   deps,
		now:    time.Now,
		tracer: otel.Tracer("github.com/robalyx/warden/internal/moderation"),
		logger: logger.Named("moderation"),
	}
}

// WithClock replaces the engine's clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Decision is the result of evaluating one piece of content.
type Decision struct {
	UserID            string                  `json:"userId"`
	ContentID         string                  `json:"contentId"`
	ContentType       enum.ContentType        `json:"contentType"`
	IsViolation       bool                    `json:"isViolation"`
	Violations        []types.ViolationDetail `json:"violations"`
	Confidence        float64                 `json:"confidence"`
	ShouldBlock       bool                    `json:"shouldBlock"`
	Priority          int                     `json:"priority"`
	RecommendedAction enum.RecommendedAction  `json:"recommendedAction"`
	Tier              tier.Info               `json:"tier"`
	// AutoApproved is set when the author's tier approved content that would otherwise be reviewed or blocked.
	AutoApproved bool                   `json:"autoApproved"`
	RecordID     *uuid.UUID             `json:"recordId,omitempty"`
	Record       *types.ViolationRecord `json:"-"`
	Penalty      *penalty.Outcome       `json:"-"`
}

// Evaluate classifies content and acts on the result. Classification problems never
// surface here; only a failure to persist the decision is returned, wrapped in
// ErrPersistence. Evaluating the same content again reuses the existing record.
func (e *Engine) Evaluate(
	ctx context.Context, userID, contentID string, contentType enum.ContentType, text string,
) (*Decision, error) {
	ctx, span := e.tracer.Start(ctx, "moderation.Evaluate", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("content.id", contentID),
		attribute.String("content.type", contentType.String()),
	))
	defer span.End()

	rep := e.reputation(ctx, userID)
	info := e.tier(ctx, userID, rep.TrustLevel)

	violations := e.deps.Classifier.Classify(ctx, contentID, text)

	d := &Decision{
		UserID:            userID,
		ContentID:         contentID,
		ContentType:       contentType,
		IsViolation:       len(violations) > 0,
		Violations:        violations,
		RecommendedAction: enum.RecommendedActionApprove,
		Tier:              info,
	}
	if !d.IsViolation {
		span.SetAttributes(attribute.Bool("violation", false))
		return d, nil
	}

	d.Confidence = MeanConfidence(violations)
	d.Priority = Priority(violations, rep)

	// Privileged tiers skip the blocking rules unless a zero-tolerance or critical
	// detection is present. The record is kept pending for audit.
	if info.ApprovesDespite(violations) {
		d.RecommendedAction = enum.RecommendedActionApprove
		d.AutoApproved = true
	} else {
		d.ShouldBlock = ShouldBlock(violations)
		d.RecommendedAction = Recommend(d.ShouldBlock, d.Confidence)
	}

	top, _ := Top(violations)

	record, err := e.persist(ctx, d, top)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failure")
		return nil, err
	}
	d.Record = record
	d.RecordID = &record.ID

	if record.IsConfirmed() {
		outcome, err := e.deps.Machine.ForViolation(ctx, record, top)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "penalty handoff failure")
			return nil, fmt.Errorf("%w: penalty for record %s: %w", ErrPersistence, record.ID, err)
		}
		d.Penalty = outcome
	}

	span.SetAttributes(
		attribute.Bool("violation", true),
		attribute.Int("priority", d.Priority),
		attribute.String("action", d.RecommendedAction.String()),
	)

	e.logger.Info("Content evaluated",
		zap.String("userID", userID),
		zap.String("contentID", contentID),
		zap.String("violationType", top.Type.String()),
		zap.String("severity", top.Severity.String()),
		zap.Float64("confidence", d.Confidence),
		zap.Int("priority", d.Priority),
		zap.String("action", d.RecommendedAction.String()))

	return d, nil
}

// persist writes the violation record of a decision, or returns the record an earlier
// attempt wrote for the same content.
func (e *Engine) persist(ctx context.Context, d *Decision, top types.ViolationDetail) (*types.ViolationRecord, error) {
	existing, err := e.deps.Violations.GetByContent(ctx, d.ContentType, d.ContentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	status := enum.ViolationStatusPending
	if d.ShouldBlock {
		status = enum.ViolationStatusConfirmed
	}

	record := &types.ViolationRecord{
		ID:               uuid.New(),
		UserID:           d.UserID,
		ContentID:        d.ContentID,
		ContentType:      d.ContentType,
		ViolationType:    top.Type,
		Severity:         top.Severity,
		Confidence:       d.Confidence,
		Priority:         d.Priority,
		DetectedPatterns: collect(d.Violations, func(v types.ViolationDetail) []string { return v.Patterns }),
		Keywords:         collect(d.Violations, func(v types.ViolationDetail) []string { return v.Keywords }),
		Status:           status,
		CreatedAt:        e.now(),
	}

	if err := e.deps.Violations.Create(ctx, record); err != nil {
		if errors.Is(err, types.ErrDuplicate) {
			existing, getErr := e.deps.Violations.GetByContent(ctx, d.ContentType, d.ContentID)
			if getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if status == enum.ViolationStatusConfirmed {
		if _, err := e.deps.Ledger.Recompute(ctx, d.UserID); err != nil {
			e.logger.Warn("Failed to recompute reputation after violation",
				zap.String("userID", d.UserID), zap.Error(err))
		}
	}

	if settings, err := e.deps.Settings.Get(ctx); err != nil || settings.AutoEnable.RealTimeAlerts {
		e.deps.Notifier.Publish(ctx, enum.EventTypeViolationDetected, d.UserID, map[string]any{
			"violationId":   record.ID.String(),
			"contentId":     d.ContentID,
			"contentType":   d.ContentType.String(),
			"violationType": top.Type.String(),
			"severity":      top.Severity.String(),
			"confidence":    d.Confidence,
			"priority":      d.Priority,
			"action":        d.RecommendedAction.String(),
		})
	}

	return record, nil
}

// reputation returns the user's stored reputation, falling back to the default.
func (e *Engine) reputation(ctx context.Context, userID string) *types.UserReputation {
	rep, err := e.deps.Ledger.Snapshot(ctx, userID)
	if err != nil {
		e.logger.Warn("Failed to read reputation, using defaults", zap.String("userID", userID), zap.Error(err))
		return types.DefaultReputation(userID)
	}
	return rep
}

// tier returns the user's priority tier. Unknown users are new free accounts.
func (e *Engine) tier(ctx context.Context, userID string, trust enum.TrustLevel) tier.Info {
	now := e.now()

	account, err := e.deps.Accounts.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			e.logger.Warn("Failed to read account, assuming free tier", zap.String("userID", userID), zap.Error(err))
		}
		account = &types.Account{ID: userID, CreatedAt: now}
	}
	return tier.Calculate(account, trust, now)
}

func collect(violations []types.ViolationDetail, field func(types.ViolationDetail) []string) []string {
	var out []string
	for _, v := range violations {
		for _, s := range field(v) {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// detailOf rebuilds the driving detection of a stored record.
func detailOf(record *types.ViolationRecord) types.ViolationDetail {
	return types.ViolationDetail{
		Type:       record.ViolationType,
		Severity:   record.Severity,
		Confidence: record.Confidence,
		Patterns:   record.DetectedPatterns,
		Keywords:   record.Keywords,
	}
}
