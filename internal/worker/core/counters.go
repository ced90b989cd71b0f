package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// ProcessedCountKey counts content items evaluated by all workers.
	ProcessedCountKey = "worker:processed_count"
	// ErrorCountKey counts content items whose evaluation failed.
	ErrorCountKey = "worker:error_count"
	// LastRunKey holds the unix time of the last finished content scan.
	LastRunKey = "worker:last_run"
)

// CounterSnapshot is the state of the shared worker counters.
type CounterSnapshot struct {
	Processed int64     `json:"processed"`
	Errors    int64     `json:"errors"`
	LastRun   time.Time `json:"lastRun"`
}

// ErrorRate returns the share of evaluations that failed.
func (s CounterSnapshot) ErrorRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Processed)
}

// Counters are worker totals shared by every worker instance.
type Counters struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewCounters creates the shared worker counters.
func NewCounters(client rueidis.Client, logger *zap.Logger) *Counters {
	return &Counters{
		client: client,
		logger: logger.Named("worker_counters"),
	}
}

// Record adds the outcome of a scan and stamps the last run. Failures are logged;
// counters are advisory.
func (c *Counters) Record(ctx context.Context, processed, failed int, at time.Time) {
	cmds := make(rueidis.Commands, 0, 3)
	if processed > 0 {
		cmds = append(cmds, c.client.B().Incrby().Key(ProcessedCountKey).Increment(int64(processed)).Build())
	}
	if failed > 0 {
		cmds = append(cmds, c.client.B().Incrby().Key(ErrorCountKey).Increment(int64(failed)).Build())
	}
	cmds = append(cmds, c.client.B().Set().Key(LastRunKey).Value(strconv.FormatInt(at.Unix(), 10)).Build())

	for _, resp := range c.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			c.logger.Warn("Failed to update worker counters", zap.Error(err))
			return
		}
	}
}

// Snapshot reads the counters.
func (c *Counters) Snapshot(ctx context.Context) (CounterSnapshot, error) {
	values, err := c.client.Do(ctx,
		c.client.B().Mget().Key(ProcessedCountKey, ErrorCountKey, LastRunKey).Build(),
	).ToArray()
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("failed to read worker counters: %w", err)
	}

	var snapshot CounterSnapshot
	fields := []*int64{&snapshot.Processed, &snapshot.Errors, nil}
	for i, value := range values {
		n, err := value.AsInt64()
		if err != nil {
			// Missing keys come back as nil.
			continue
		}
		if fields[i] != nil {
			*fields[i] = n
		} else {
			snapshot.LastRun = time.Unix(n, 0).UTC()
		}
	}

	return snapshot, nil
}
