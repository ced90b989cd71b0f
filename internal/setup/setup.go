package setup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/classifier"
	"github.com/robalyx/warden/internal/database"
	"github.com/robalyx/warden/internal/database/migrations"
	"github.com/robalyx/warden/internal/enforcement"
	"github.com/robalyx/warden/internal/feedback"
	"github.com/robalyx/warden/internal/lease"
	"github.com/robalyx/warden/internal/moderation"
	"github.com/robalyx/warden/internal/notify"
	"github.com/robalyx/warden/internal/penalty"
	"github.com/robalyx/warden/internal/perspective"
	"github.com/robalyx/warden/internal/redis"
	"github.com/robalyx/warden/internal/reputation"
	"github.com/robalyx/warden/internal/settings"
	"github.com/robalyx/warden/internal/setup/config"
	"github.com/robalyx/warden/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	DBLogger     *zap.Logger        // Database-specific logger
	DB           database.Client    // Database connection pool
	RedisManager *redis.Manager     // Redis connection manager
	CacheClient  rueidis.Client     // Redis client for moderation caches
	LeaseClient  rueidis.Client     // Redis client for leases and user locks
	StatusClient rueidis.Client     // Redis client for worker status reporting
	LogManager   *telemetry.Manager // Log management system
	Settings     *settings.Provider // Cached moderation settings
	Leases       *lease.Store       // Lease store for content items
	Notifier     *notify.Notifier   // Event publisher and alert store
	Flags        *enforcement.Flags // Shadow-ban flags and deny-lists
	Ledger       *reputation.Ledger // Reputation ledger
	Machine      *penalty.Machine   // Penalty state machine
	Feedback     *feedback.Loop     // False-positive feedback loop
	Engine       *moderation.Engine // Moderation decision engine
	tracing      bool               // Whether tracing was started
	metrics      *metricsServer     // Prometheus and pprof endpoint
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug, serviceType == telemetry.ServiceWorker)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	tracing := telemetry.SetupTracing(&cfg.Common.Telemetry, config.RepositoryVersion)
	if tracing {
		logger.Info("Tracing enabled", zap.String("service", cfg.Common.Telemetry.ServiceName))
	}

	// Redis manager provides connection pools for various subsystems
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	clients := make(map[int]rueidis.Client)
	for _, idx := range []int{
		redis.CacheDBIndex, redis.LeaseDBIndex, redis.EnforcementDBIndex,
		redis.WorkerStatusDBIndex, redis.EventsDBIndex,
	} {
		client, err := redisManager.GetClient(idx)
		if err != nil {
			redisManager.Close()
			return nil, err
		}
		clients[idx] = client
	}

	// Initialize database with migration check
	db, err := checkAndRunMigrations(ctx, &cfg.Common.PostgreSQL, dbLogger)
	if err != nil {
		redisManager.Close()
		return nil, err
	}

	repo := db.Model()

	provider := settings.NewProvider(
		repo.Setting(), clients[redis.CacheDBIndex], settings.Defaults(&cfg.Common.Moderation), logger,
	)
	leases := lease.NewStore(clients[redis.LeaseDBIndex], logger)
	locker := lease.NewLocker(leases)
	notifier := notify.New(clients[redis.EventsDBIndex], repo.Alert(), logger)
	flags := enforcement.NewFlags(clients[redis.EnforcementDBIndex], logger)
	runner := enforcement.NewRunner(repo.Account(), repo.Content(), flags, logger)

	ledger := reputation.NewLedger(
		repo.Violation(), repo.Penalty(), repo.FalsePositive(), repo.Account(), repo.Reputation(),
		locker, logger,
	)
	machine := penalty.NewMachine(
		repo.Penalty(), repo.Violation(), repo.Account(),
		runner, ledger, locker, provider, notifier, logger,
	)
	loop := feedback.New(repo.Violation(), repo.FalsePositive(), provider, ledger, locker, notifier, logger)

	oracle := perspective.NewClient(&cfg.Common.Perspective, logger)
	if !oracle.Enabled() {
		logger.Warn("Perspective API key not configured, oracle categories are disabled")
	}

	engine := moderation.NewEngine(moderation.Dependencies{
		Violations:     repo.Violation(),
		Penalties:      repo.Penalty(),
		FalsePositives: repo.FalsePositive(),
		Accounts:       repo.Account(),
		Classifier: classifier.New(
			oracle, provider, time.Duration(cfg.Common.Perspective.Timeout)*time.Millisecond, logger,
		),
		Ledger:   ledger,
		Machine:  machine,
		Feedback: loop,
		Settings: provider,
		DenyList: flags,
		Locker:   locker,
		Notifier: notifier,
	}, logger)

	// Start metrics server for the worker if an address is configured
	var metricsSrv *metricsServer

	if serviceType == telemetry.ServiceWorker && cfg.Worker.MetricsAddr != "" {
		srv, err := startMetricsServer(cfg.Worker.MetricsAddr, logger)
		if err != nil {
			logger.Error("Failed to start metrics server", zap.Error(err))
		} else {
			metricsSrv = srv
		}
	}

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		DBLogger:     dbLogger.Named("database"),
		DB:           db,
		RedisManager: redisManager,
		CacheClient:  clients[redis.CacheDBIndex],
		LeaseClient:  clients[redis.LeaseDBIndex],
		StatusClient: clients[redis.WorkerStatusDBIndex],
		LogManager:   logManager,
		Settings:     provider,
		Leases:       leases,
		Notifier:     notifier,
		Flags:        flags,
		Ledger:       ledger,
		Machine:      machine,
		Feedback:     loop,
		Engine:       engine,
		tracing:      tracing,
		metrics:      metricsSrv,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Shutdown metrics server if running
	if s.metrics != nil {
		if err := s.metrics.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}

		s.metrics.listener.Close()
	}

	// Flush pending spans
	if s.tracing {
		if err := telemetry.ShutdownTracing(ctx); err != nil {
			s.Logger.Error("Failed to shutdown tracing", zap.Error(err))
		}
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	// Close database connections
	if err := s.DB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
	}

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// checkAndRunMigrations runs database migrations if needed.
func checkAndRunMigrations(ctx context.Context, cfg *config.PostgreSQL, dbLogger *zap.Logger) (database.Client, error) {
	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	var db database.Client

	unapplied := ms.Unapplied()
	if len(unapplied) > 0 {
		log.Println("Database migrations are pending. Would you like to run them now? (y/N)")

		var response string

		_, _ = fmt.Scanln(&response)

		if response == "y" || response == "Y" {
			tempDB.Close()

			db, err = database.NewConnection(ctx, cfg, dbLogger, true)
		} else {
			log.Fatalf("Closing program due to incomplete migrations")
		}
	} else {
		db = tempDB
	}

	return db, err
}
