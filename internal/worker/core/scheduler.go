package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// IntervalFunc returns the current cadence of a job. It is read again after every
// run so that cadence changes take effect without a restart.
type IntervalFunc func(ctx context.Context) time.Duration

// Every returns a fixed cadence.
func Every(d time.Duration) IntervalFunc {
	return func(context.Context) time.Duration { return d }
}

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// JobResult describes one finished run.
type JobResult struct {
	Name     string
	Started  time.Time
	Duration time.Duration
	Err      error
}

type job struct {
	name     string
	interval IntervalFunc
	run      JobFunc
	next     time.Time
	running  bool
	skipped  int
}

// Scheduler runs named jobs at their cadence. A job that is still running when it
// becomes due again is skipped for that occurrence. Time only advances through Tick,
// so tests drive the scheduler without sleeping.
type Scheduler struct {
	mu       sync.Mutex
	jobs     []*job
	wg       conc.WaitGroup
	stopped  bool
	observer func(JobResult)
	now      func() time.Time
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		now:    time.Now,
		tracer: otel.Tracer("github.com/robalyx/warden/internal/worker/core"),
		logger: logger.Named("scheduler"),
	}
}

// WithClock replaces the clock used to time job runs.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// OnResult registers a callback invoked after every run.
func (s *Scheduler) OnResult(fn func(JobResult)) *Scheduler {
	s.observer = fn
	return s
}

// Add registers a job. The first run happens at the first tick at or after first.
// Adding a name twice replaces the earlier registration.
func (s *Scheduler) Add(name string, interval IntervalFunc, first time.Time, run JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.name == name {
			j.interval = interval
			j.run = run
			j.next = first
			return
		}
	}

	s.jobs = append(s.jobs, &job{
		name:     name,
		interval: interval,
		run:      run,
		next:     first,
	})
}

// Tick starts every job due at now and returns their names.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}

	var started []string
	for _, j := range s.jobs {
		if now.Before(j.next) {
			continue
		}

		interval := j.interval(ctx)
		if interval <= 0 {
			interval = time.Minute
		}
		j.next = now.Add(interval)

		if j.running {
			j.skipped++
			s.logger.Warn("Job still running, skipping this run",
				zap.String("job", j.name),
				zap.Int("skipped", j.skipped))
			continue
		}

		j.running = true
		started = append(started, j.name)

		s.wg.Go(func() {
			s.execute(ctx, j)
		})
	}

	return started
}

func (s *Scheduler) execute(ctx context.Context, j *job) {
	ctx, span := s.tracer.Start(ctx, "worker."+j.name, trace.WithAttributes(
		attribute.String("job", j.name),
	))
	defer span.End()

	started := s.now()
	err := s.safeRun(ctx, j)
	duration := s.now().Sub(started)

	s.mu.Lock()
	j.running = false
	s.mu.Unlock()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job failed")
		s.logger.Error("Job failed",
			zap.String("job", j.name),
			zap.Duration("duration", duration),
			zap.Error(err))
	} else {
		s.logger.Debug("Job finished", zap.String("job", j.name), zap.Duration("duration", duration))
	}

	if s.observer != nil {
		s.observer(JobResult{Name: j.name, Started: started, Duration: duration, Err: err})
	}
}

// safeRun turns a panicking job into an error so one bad job cannot stop the worker.
func (s *Scheduler) safeRun(ctx context.Context, j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}
	}()
	return j.run(ctx)
}

// Running reports whether the named job is running.
func (s *Scheduler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.name == name {
			return j.running
		}
	}
	return false
}

// Skipped returns how often the named job was skipped because it was still running.
func (s *Scheduler) Skipped(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.name == name {
			return j.skipped
		}
	}
	return 0
}

// Run ticks every interval until ctx ends, then waits for running jobs.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = TickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Tick(ctx, s.now())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping, waiting for running jobs")
			s.Wait()
			return
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Wait stops dispatching and blocks until every started job returned.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.wg.Wait()
}
