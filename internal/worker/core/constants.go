package core

import "time"

const (
	// DefaultBatchSize is how many content items a scan fetches when none is configured.
	DefaultBatchSize = 50
	// DefaultConcurrency is how many content items a scan evaluates at once.
	DefaultConcurrency = 10
	// DefaultLeaseTTL bounds how long a crashed worker can hold a content item.
	DefaultLeaseTTL = 5 * time.Minute

	// DefaultPendingThreshold is the moderation queue length above which the worker is degraded.
	DefaultPendingThreshold = 1000
	// DefaultErrorRateThreshold is the error rate above which the worker is degraded.
	DefaultErrorRateThreshold = 0.1

	// TickInterval is how often the scheduler checks for due jobs.
	TickInterval = time.Second
)
