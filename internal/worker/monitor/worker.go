// Package monitor is the background monitoring worker: it scans new content,
// keeps reputations and penalties current and watches its own health.
package monitor

import (
	"context"
	"time"

	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/feedback"
	"github.com/robalyx/warden/internal/moderation"
	"github.com/robalyx/warden/internal/penalty"
	"github.com/robalyx/warden/internal/worker/core"
	"go.uber.org/zap"
)

// Job names.
const (
	JobContentScan       = "content-scan"
	JobReputationRefresh = "reputation-refresh"
	JobPenaltySweep      = "penalty-sweep"
	JobRetentionCleanup  = "retention-cleanup"
	JobFeedbackLearning  = "false-positive-learning"
	JobHealthProbe       = "health-probe"
)

// Job cadences other than the content scan, which follows the settings.
const (
	ReputationRefreshInterval = time.Hour
	PenaltySweepInterval      = 30 * time.Minute
	RetentionCleanupInterval  = 24 * time.Hour
	FeedbackLearningInterval  = 7 * 24 * time.Hour
	HealthProbeInterval       = 5 * time.Minute

	// ReputationRefreshWindow selects users with violations this recent.
	ReputationRefreshWindow = 24 * time.Hour
	// AlertRetention is how long moderation alerts are kept.
	AlertRetention = 30 * 24 * time.Hour
	// EnforcementGrace leaves freshly written penalties to the path that created them.
	EnforcementGrace = time.Minute
	// SweepBatchSize bounds how many penalties one sweep expires or retries.
	SweepBatchSize = 500
)

// Engine evaluates content and auto-applies penalties.
type Engine interface {
	Evaluate(
		ctx context.Context, userID, contentID string, contentType enum.ContentType, text string,
	) (*moderation.Decision, error)
	AutoApply(ctx context.Context, d *moderation.Decision) (*penalty.Outcome, error)
}

// ContentSource lists content waiting for moderation.
type ContentSource interface {
	ListUnmoderated(ctx context.Context, since time.Time, limit int) ([]*types.ContentItem, error)
	IsModerated(ctx context.Context, contentType enum.ContentType, id string) (bool, error)
	MarkModerated(ctx context.Context, contentType enum.ContentType, id string, at time.Time) error
}

// PenaltyMachine expires, retries and escalates penalties.
type PenaltyMachine interface {
	ExpireDue(ctx context.Context, limit int) ([]*types.Penalty, error)
	RetryUnenforced(ctx context.Context, grace time.Duration, limit int) (int, error)
	Sweep(ctx context.Context, userID string) (*penalty.Outcome, error)
}

// Ledger rebuilds reputations.
type Ledger interface {
	Recompute(ctx context.Context, userID string) (*types.UserReputation, error)
}

// ViolationReader reads violation activity.
type ViolationReader interface {
	ListUserIDsSince(ctx context.Context, since time.Time) ([]string, error)
	CountPending(ctx context.Context) (int, error)
}

// PenaltyReader reads penalty activity.
type PenaltyReader interface {
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

// AlertStore prunes stored alerts.
type AlertStore interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Learner tunes the classifier from human corrections.
type Learner interface {
	Learn(ctx context.Context) feedback.Report
}

// SettingsSource provides the current moderation settings.
type SettingsSource interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
}

// Notifier publishes events and stores alerts.
type Notifier interface {
	Publish(ctx context.Context, event enum.EventType, userID string, data map[string]any)
	Alert(
		ctx context.Context, event enum.EventType, severity enum.Severity, title, message, userID string, data map[string]any,
	) error
	Persist(
		ctx context.Context, event enum.EventType, severity enum.Severity, title, message, userID string, data map[string]any,
	) (*types.ModerationAlert, error)
}

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of the monitoring worker.
type Dependencies struct {
	Engine     Engine
	Contents   ContentSource
	Machine    PenaltyMachine
	Ledger     Ledger
	Violations ViolationReader
	Penalties  PenaltyReader
	Alerts     AlertStore
	Learner    Learner
	Settings   SettingsSource
	Notifier   Notifier
	Leases     *core.ContentLeases
	Counters   *core.Counters
	Reporter   *core.StatusReporter
	// Cache is the Redis database holding moderation caches.
	Cache    rueidis.Client
	Database Pinger
	Redis    Pinger
}

// Options tune the monitoring worker.
type Options struct {
	BatchSize          int
	Concurrency        int
	ScanLookback       time.Duration
	ErrorRateThreshold float64
	PendingThreshold   int
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = core.DefaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = core.DefaultConcurrency
	}
	if o.ScanLookback <= 0 {
		o.ScanLookback = 24 * time.Hour
	}
	if o.ErrorRateThreshold <= 0 {
		o.ErrorRateThreshold = core.DefaultErrorRateThreshold
	}
	if o.PendingThreshold <= 0 {
		o.PendingThreshold = core.DefaultPendingThreshold
	}
	return o
}

// Worker is the background monitoring worker.
type Worker struct {
	deps      Dependencies
	opts      Options
	backlog   *core.BacklogChecker
	scheduler *core.Scheduler
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a monitoring worker with every job registered.
func New(deps Dependencies, opts Options, logger *zap.Logger) *Worker {
	opts = opts.withDefaults()
	logger = logger.Named("monitor")

	w := &Worker{
		deps:    deps,
		opts:    opts,
		backlog: core.NewBacklogChecker(deps.Violations, opts.PendingThreshold, deps.Reporter, logger),
		now:     time.Now,
		logger:  logger,
	}
	w.scheduler = core.NewScheduler(logger).OnResult(w.observe)

	return w
}

// WithClock replaces the worker's clock.
func (w *Worker) WithClock(now func() time.Time) *Worker {
	w.now = now
	w.scheduler.WithClock(now)
	return w
}

// Scheduler returns the job scheduler.
func (w *Worker) Scheduler() *core.Scheduler {
	return w.scheduler
}

// Register adds every job. The content scan and the health probe start at first;
// the other jobs wait one interval.
func (w *Worker) Register(first time.Time) {
	w.scheduler.Add(JobContentScan, w.scanInterval, first, w.ScanContent)
	w.scheduler.Add(JobHealthProbe, core.Every(HealthProbeInterval), first, w.ProbeHealth)
	w.scheduler.Add(JobReputationRefresh, core.Every(ReputationRefreshInterval),
		first.Add(ReputationRefreshInterval), w.RefreshReputations)
	w.scheduler.Add(JobPenaltySweep, core.Every(PenaltySweepInterval), first.Add(PenaltySweepInterval), w.SweepPenalties)
	w.scheduler.Add(JobRetentionCleanup, core.Every(RetentionCleanupInterval),
		first.Add(RetentionCleanupInterval), w.CleanupRetention)
	w.scheduler.Add(JobFeedbackLearning, core.Every(FeedbackLearningInterval),
		first.Add(FeedbackLearningInterval), w.LearnFromFeedback)
}

// Run registers the jobs and runs them until ctx ends. Running jobs finish first.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Monitoring worker started", zap.String("workerID", w.deps.Reporter.GetWorkerID()))

	w.deps.Reporter.Start(ctx)
	defer w.deps.Reporter.Stop()

	w.Register(w.now())
	w.scheduler.Run(ctx, core.TickInterval)

	w.logger.Info("Monitoring worker stopped")
}

// scanInterval follows the monitoring interval in the settings.
func (w *Worker) scanInterval(ctx context.Context) time.Duration {
	settings, err := w.deps.Settings.Get(ctx)
	if err != nil {
		w.logger.Warn("Failed to load monitoring interval, using default", zap.Error(err))
		return 5 * time.Minute
	}
	return settings.MonitoringInterval()
}

func (w *Worker) observe(result core.JobResult) {
	status := "success"
	if result.Err != nil {
		status = "error"
	}
	jobRuns.WithLabelValues(result.Name, status).Inc()
	jobDuration.WithLabelValues(result.Name).Observe(result.Duration.Seconds())
}
