package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var contentScanned = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_content_scanned_total",
	Help: "Number of content items handled by the content scan, by result",
}, []string{"result"})

var decisionsMade = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_decisions_total",
	Help: "Number of moderation decisions, by recommended action",
}, []string{"action"})

var violationsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_violations_total",
	Help: "Number of detected violations, by type and severity",
}, []string{"type", "severity"})

var penaltiesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_penalties_applied_total",
	Help: "Number of penalties applied by the worker, by type and source",
}, []string{"type", "source"})

var penaltiesExpired = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_penalties_expired_total",
	Help: "Number of penalties deactivated after their end date",
})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "warden_job_duration_sec",
	Help:    "Duration of background job runs",
	Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
}, []string{"job"})

var jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_job_runs_total",
	Help: "Number of background job runs, by job and status",
}, []string{"job", "status"})

var pendingViolations = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "warden_pending_violations",
	Help: "Number of violation records waiting for review",
})

var workerHealth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "warden_worker_health",
	Help: "Worker health: 0 healthy, 1 degraded, 2 unhealthy",
})
