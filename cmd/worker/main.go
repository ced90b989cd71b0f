package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robalyx/warden/internal/setup"
	"github.com/robalyx/warden/internal/setup/telemetry"
	"github.com/robalyx/warden/internal/worker/core"
	"github.com/robalyx/warden/internal/worker/monitor"
	"github.com/robalyx/warden/pkg/utils"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// MonitorWorker scans content and maintains penalties and reputations.
	MonitorWorker = "monitor"

	// shutdownTimeout bounds the cleanup after the workers stop.
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the warden worker",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  MonitorWorker,
				Usage: "Start background monitoring workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runWorkers(ctx, c.Int("workers"))
				},
			},
		},
	}

	return app.Run(ctx, os.Args)
}

// runWorkers starts multiple monitoring workers sharing one application.
func runWorkers(ctx context.Context, count int64) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceWorker, WorkerLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		app.Cleanup(cleanupCtx)
	}()

	cfg := app.Config.Worker
	repo := app.DB.Model()

	if cfg.StartupDelay > 0 {
		app.Logger.Info("Delaying worker startup", zap.Int("delayMs", cfg.StartupDelay))
		if utils.ContextSleep(ctx, time.Duration(cfg.StartupDelay)*time.Millisecond) == utils.SleepCancelled {
			return nil
		}
	}

	leaseTTL := time.Duration(cfg.LeaseTTL) * time.Second
	if leaseTTL <= 0 {
		leaseTTL = core.DefaultLeaseTTL
	}

	counters := core.NewCounters(app.StatusClient, app.Logger)
	leases := core.NewContentLeases(app.Leases, leaseTTL, app.Logger)

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(workerID int64) {
			defer wg.Done()

			workerLogger := app.LogManager.GetWorkerLogger(fmt.Sprintf("%s_worker_%d", MonitorWorker, workerID))

			w := monitor.New(monitor.Dependencies{
				Engine:     app.Engine,
				Contents:   repo.Content(),
				Machine:    app.Machine,
				Ledger:     app.Ledger,
				Violations: repo.Violation(),
				Penalties:  repo.Penalty(),
				Alerts:     repo.Alert(),
				Learner:    app.Feedback,
				Settings:   app.Settings,
				Notifier:   app.Notifier,
				Leases:     leases,
				Counters:   counters,
				Reporter:   core.NewStatusReporter(app.StatusClient, MonitorWorker, workerLogger),
				Cache:      app.CacheClient,
				Database:   app.DB,
				Redis:      app.RedisManager,
			}, monitor.Options{
				BatchSize:          cfg.BatchSize,
				Concurrency:        cfg.Concurrency,
				ScanLookback:       time.Duration(cfg.ScanLookback) * time.Hour,
				ErrorRateThreshold: cfg.DegradedErrorRate,
				PendingThreshold:   cfg.DegradedPending,
			}, workerLogger)

			runWorker(ctx, w, workerLogger)
		}(i)
	}

	log.Printf("Started %d %s workers", count, MonitorWorker)
	wg.Wait()
	log.Println("All workers have finished. Exiting.")

	return nil
}

// runWorker runs a single worker in a loop with panic recovery until ctx ends.
func runWorker(ctx context.Context, w *monitor.Worker, logger *zap.Logger) {
	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Worker execution failed", zap.Any("panic", r))
				}
			}()

			logger.Info("Starting worker")
			w.Run(ctx)
		}()

		if ctx.Err() != nil {
			logger.Info("Context cancelled, stopping worker")
			return
		}

		logger.Warn("Worker stopped unexpectedly, restarting in 5 seconds")
		if utils.ContextSleep(ctx, 5*time.Second) == utils.SleepCancelled {
			return
		}
	}
}
