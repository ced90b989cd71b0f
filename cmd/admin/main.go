package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/robalyx/warden/cmd/admin/commands"
	"github.com/robalyx/warden/internal/setup"
	"github.com/robalyx/warden/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

// AdminLogDir specifies where admin log files are stored.
const AdminLogDir = "logs/admin_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup.InitializeApp(ctx, telemetry.ServiceAdmin, AdminLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.WithoutCancel(ctx))

	deps := &commands.CLIDependencies{App: app}

	cmd := &cli.Command{
		Name:  "admin",
		Usage: "Moderation operator tool",
		Commands: slices.Concat(
			commands.ReviewCommands(deps),
			commands.PenaltyCommands(deps),
			commands.SettingsCommands(deps),
			commands.ReportCommands(deps),
		),
	}

	return cmd.Run(ctx, os.Args)
}
