package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// Health is the outcome of one health probe.
type Health struct {
	Status    enum.HealthStatus
	Pending   int
	ErrorRate float64
	Problems  []string
}

// CheckHealth probes the backing services and the worker's own counters.
func (w *Worker) CheckHealth(ctx context.Context) Health {
	h := Health{Status: enum.HealthStatusHealthy}

	if err := w.deps.Database.Ping(ctx); err != nil {
		h.Status = enum.HealthStatusUnhealthy
		h.Problems = append(h.Problems, "database: "+err.Error())
	}
	if err := w.deps.Redis.Ping(ctx); err != nil {
		h.Status = enum.HealthStatusUnhealthy
		h.Problems = append(h.Problems, "redis: "+err.Error())
	}
	if h.Status == enum.HealthStatusUnhealthy {
		return h
	}

	snapshot, err := w.deps.Counters.Snapshot(ctx)
	if err != nil {
		h.Problems = append(h.Problems, "counters: "+err.Error())
	} else {
		h.ErrorRate = snapshot.ErrorRate()
		if h.ErrorRate > w.opts.ErrorRateThreshold {
			h.Status = enum.HealthStatusDegraded
			h.Problems = append(h.Problems, fmt.Sprintf("error rate %.2f", h.ErrorRate))
		}
	}

	pending, exceeded, err := w.backlog.Check(ctx)
	if err != nil {
		h.Problems = append(h.Problems, "backlog: "+err.Error())
	}
	h.Pending = pending
	if exceeded {
		h.Status = enum.HealthStatusDegraded
		h.Problems = append(h.Problems, fmt.Sprintf("%d pending violations", pending))
	}

	return h
}

// ProbeHealth records the worker's health and announces changes.
func (w *Worker) ProbeHealth(ctx context.Context) error {
	h := w.CheckHealth(ctx)

	workerHealth.Set(float64(h.Status))
	pendingViolations.Set(float64(h.Pending))

	previous := w.deps.Reporter.SetHealth(h.Status)
	w.deps.Reporter.Report(ctx)

	data := map[string]any{
		"status":    h.Status.String(),
		"previous":  previous.String(),
		"pending":   h.Pending,
		"errorRate": h.ErrorRate,
		"problems":  h.Problems,
	}

	w.deps.Notifier.Publish(ctx, enum.EventTypeMetricsUpdated, "", map[string]any{
		"pending":   h.Pending,
		"errorRate": h.ErrorRate,
	})

	if previous != h.Status {
		w.logger.Info("Worker health changed",
			zap.String("from", previous.String()),
			zap.String("to", h.Status.String()),
			zap.Strings("problems", h.Problems))
		w.deps.Notifier.Publish(ctx, enum.EventTypeSystemHealthChanged, "", data)
	}

	if h.Status == enum.HealthStatusUnhealthy {
		w.alert(ctx, enum.EventTypeSystemCritical, enum.SeverityCritical,
			"Moderation worker unhealthy", fmt.Sprintf("%v", h.Problems), "", data)
		return errors.New("worker unhealthy")
	}

	return nil
}
