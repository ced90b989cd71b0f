package monitor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/moderation"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ScanContent evaluates a batch of unmoderated content, oldest first. Each item is
// processed under its lease; an item whose evaluation fails stays unmoderated and is
// picked up by a later scan.
func (w *Worker) ScanContent(ctx context.Context) error {
	settings, err := w.deps.Settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AutoEnable.BackgroundMonitoring {
		w.logger.Debug("Background monitoring disabled, skipping content scan")
		return nil
	}

	now := w.now()
	items, err := w.deps.Contents.ListUnmoderated(ctx, now.Add(-w.opts.ScanLookback), w.opts.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list unmoderated content: %w", err)
	}

	w.deps.Reporter.UpdateStatus(fmt.Sprintf("Scanning %d content items", len(items)), 0)

	var (
		p         = pool.New().WithContext(ctx).WithMaxGoroutines(w.opts.Concurrency)
		processed atomic.Int64
		failed    atomic.Int64
		skipped   atomic.Int64
	)

	for _, item := range items {
		p.Go(func(ctx context.Context) error {
			ok, err := w.deps.Leases.Process(ctx, item, func(ctx context.Context) error {
				return w.processItem(ctx, item)
			})
			switch {
			case err != nil:
				failed.Add(1)
				contentScanned.WithLabelValues("error").Inc()
				w.logger.Error("Failed to process content item",
					zap.String("contentID", item.ID),
					zap.String("contentType", item.ContentType.String()),
					zap.Error(err))
			case !ok:
				skipped.Add(1)
				contentScanned.WithLabelValues("leased").Inc()
			default:
				processed.Add(1)
			}
			// Failures are counted, not returned, so one item cannot fail the batch.
			return nil
		})
	}
	_ = p.Wait()

	w.deps.Counters.Record(ctx, int(processed.Load()+failed.Load()), int(failed.Load()), w.now())
	w.deps.Reporter.UpdateStatus("Content scan completed", 100)

	w.logger.Info("Content scan finished",
		zap.Int("items", len(items)),
		zap.Int64("processed", processed.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int64("skipped", skipped.Load()))

	return nil
}

// processItem evaluates one item under its lease.
func (w *Worker) processItem(ctx context.Context, item *types.ContentItem) error {
	moderated, err := w.deps.Contents.IsModerated(ctx, item.ContentType, item.ID)
	if err != nil {
		return fmt.Errorf("failed to check moderation state: %w", err)
	}
	if moderated {
		contentScanned.WithLabelValues("already_moderated").Inc()
		return nil
	}

	decision, err := w.deps.Engine.Evaluate(ctx, item.AuthorID, item.ID, item.ContentType, item.Text())
	if err != nil {
		return err
	}

	decisionsMade.WithLabelValues(decision.RecommendedAction.String()).Inc()
	for _, v := range decision.Violations {
		violationsDetected.WithLabelValues(v.Type.String(), v.Severity.String()).Inc()
	}

	if decision.Penalty != nil && decision.Penalty.Created {
		penaltiesApplied.WithLabelValues(decision.Penalty.Penalty.PenaltyType.String(), "decision").Inc()
	}

	if decision.Record != nil && decision.Record.Status == enum.ViolationStatusPending {
		w.handlePending(ctx, item, decision)
	}

	if err := w.deps.Contents.MarkModerated(ctx, item.ContentType, item.ID, w.now()); err != nil {
		return fmt.Errorf("failed to mark content moderated: %w", err)
	}

	contentScanned.WithLabelValues("evaluated").Inc()
	return nil
}

// handlePending auto-applies a penalty to a pending decision when it qualifies and
// otherwise asks for a human review.
func (w *Worker) handlePending(ctx context.Context, item *types.ContentItem, d *moderation.Decision) {
	top, _ := moderation.Top(d.Violations)
	data := map[string]any{
		"contentId":     item.ID,
		"contentType":   item.ContentType.String(),
		"violationId":   d.Record.ID.String(),
		"violationType": top.Type.String(),
		"priority":      d.Priority,
	}

	outcome, err := w.deps.Engine.AutoApply(ctx, d)
	if err != nil {
		w.logger.Error("Failed to auto-apply penalty",
			zap.String("userID", item.AuthorID),
			zap.String("violationID", d.Record.ID.String()),
			zap.Error(err))
	}

	if outcome != nil {
		penaltiesApplied.WithLabelValues(outcome.Penalty.PenaltyType.String(), "auto_apply").Inc()
		data["penaltyType"] = outcome.Penalty.PenaltyType.String()
		w.alert(ctx, enum.EventTypeAutoPenaltyApplied, top.Severity,
			"Automatic penalty applied",
			fmt.Sprintf("%s applied to user %s", outcome.Penalty.PenaltyType, item.AuthorID),
			item.AuthorID, data)
		return
	}

	if d.AutoApproved {
		return
	}

	w.alert(ctx, enum.EventTypeManualReviewRequired, top.Severity,
		"Content requires manual review",
		fmt.Sprintf("%s %s requires manual review", item.ContentType, item.ID),
		item.AuthorID, data)
}

func (w *Worker) alert(
	ctx context.Context, event enum.EventType, severity enum.Severity, title, message, userID string, data map[string]any,
) {
	if err := w.deps.Notifier.Alert(ctx, event, severity, title, message, userID, data); err != nil {
		w.logger.Warn("Failed to store alert", zap.String("event", event.String()), zap.Error(err))
	}
}
