package telemetry

import (
	"context"

	"github.com/robalyx/warden/internal/setup/config"
	"github.com/uptrace/uptrace-go/uptrace"
)

// SetupTracing configures the global OpenTelemetry providers to export to Uptrace.
// It returns false without doing anything when no DSN is configured.
func SetupTracing(cfg *config.Telemetry, version string) bool {
	if cfg.DSN == "" {
		return false
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.DSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(version),
		uptrace.WithDeploymentEnvironment(cfg.Environment),
	)

	return true
}

// ShutdownTracing flushes pending spans.
func ShutdownTracing(ctx context.Context) error {
	return uptrace.Shutdown(ctx)
}
