package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Worker WorkerConfig `koanf:"worker"`
}

// CommonConfig contains configuration shared between the worker and the admin CLI.
type CommonConfig struct {
	// Version of the common config.
	Version     int         `koanf:"version"`
	Debug       Debug       `koanf:"debug"`
	PostgreSQL  PostgreSQL  `koanf:"postgresql"`
	Redis       Redis       `koanf:"redis"`
	Telemetry   Telemetry   `koanf:"telemetry"`
	Perspective Perspective `koanf:"perspective"`
	Moderation  Moderation  `koanf:"moderation"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Startup delay in milliseconds.
	StartupDelay int `koanf:"startup_delay"`
	// Number of content items fetched per scan.
	BatchSize int `koanf:"batch_size"`
	// Number of content items evaluated concurrently.
	Concurrency int `koanf:"concurrency"`
	// Lease TTL for a content item in seconds.
	LeaseTTL int `koanf:"lease_ttl"`
	// How far back the scan looks for unmoderated content, in hours.
	ScanLookback int `koanf:"scan_lookback"`
	// Address of the Prometheus metrics endpoint. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`
	// Error rate above which the worker reports itself degraded.
	DegradedErrorRate float64 `koanf:"degraded_error_rate"`
	// Pending review backlog above which the worker reports itself degraded.
	DegradedPending int `koanf:"degraded_pending"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log session directories to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Also write logs to stdout.
	LogToStdout bool `koanf:"log_to_stdout"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN. Empty disables tracing.
	DSN string `koanf:"dsn"`
	// Service name reported to the collector.
	ServiceName string `koanf:"service_name"`
	// Deployment environment reported to the collector.
	Environment string `koanf:"environment"`
}

// Perspective contains the classification oracle configuration.
type Perspective struct {
	// API key. Empty disables oracle-backed categories.
	APIKey string `koanf:"api_key"`
	// Base URL of the analyze endpoint.
	BaseURL string `koanf:"base_url"`
	// Per-category request timeout in milliseconds.
	Timeout int `koanf:"timeout"`
	// Maximum concurrent requests.
	MaxConcurrent int64 `koanf:"max_concurrent"`
	// Maximum retries for 5xx responses.
	MaxRetries uint64 `koanf:"max_retries"`
	// Circuit breaker settings.
	CircuitBreaker CircuitBreaker `koanf:"circuit_breaker"`
}

// CircuitBreaker contains circuit breaker configuration.
type CircuitBreaker struct {
	// Maximum number of requests allowed to pass through when the circuit is half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// The cyclic period of the closed state for the circuit breaker to clear the internal counts, in seconds.
	Interval int `koanf:"interval"`
	// The period of the open state after which the state of the circuit breaker becomes half-open, in seconds.
	Timeout int `koanf:"timeout"`
}

// Moderation seeds the moderation settings row the first time it is created.
type Moderation struct {
	HateSpeechThreshold       float64 `koanf:"hate_speech_threshold"`
	HarassmentThreshold       float64 `koanf:"harassment_threshold"`
	SexualThreshold           float64 `koanf:"sexual_threshold"`
	SpamThreshold             float64 `koanf:"spam_threshold"`
	AutoShadowBan             bool    `koanf:"auto_shadow_ban"`
	AutoOutrightBan           bool    `koanf:"auto_outright_ban"`
	AutoOfficialBan           bool    `koanf:"auto_official_ban"`
	BackgroundMonitoring      bool    `koanf:"background_monitoring"`
	RealTimeAlerts            bool    `koanf:"real_time_alerts"`
	Level1Threshold           int     `koanf:"level1_threshold"`
	Level2Threshold           int     `koanf:"level2_threshold"`
	Level3Threshold           int     `koanf:"level3_threshold"`
	ShadowBanHours            int     `koanf:"shadow_ban_hours"`   // 0 means permanent
	OutrightBanHours          int     `koanf:"outright_ban_hours"` // 0 means permanent
	OfficialBanHours          int     `koanf:"official_ban_hours"` // 0 means permanent
	MonitoringIntervalMinutes int     `koanf:"monitoring_interval_minutes"`
	AutoApplyMinPriority      int     `koanf:"auto_apply_min_priority"`
}

// LoadConfig loads the configuration from the first search path containing each file.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadConfigFrom(
		".warden",
		filepath.Join(homeDir, ".warden", "config"),
		"/etc/warden/config",
		"/app/config",
		"config",
		".",
	)
}

// LoadConfigFrom loads the configuration from the given search paths in order.
func LoadConfigFrom(configPaths ...string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	for _, configName := range []string{"common", "worker"} {
		configLoaded := false

		for _, path := range configPaths {
			configPath := filepath.Join(path, configName+".toml")
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/warden/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
