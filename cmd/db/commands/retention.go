package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robalyx/warden/pkg/utils"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// RetentionCommands returns commands that prune stored moderation data.
func RetentionCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "prune-alerts",
			Usage:     "Delete moderation alerts created before a cutoff",
			ArgsUsage: "TIME",
			Description: `Delete moderation alerts older than TIME.

TIME is either an age or a point in time:
  - "30d" or "72h" (age, measured back from now)
  - "2006-01-02" (date only, assumes 00:00:00 UTC)
  - "2006-01-02 15:04:05" (datetime, assumes UTC)
  - "2006-01-02 15:04:05 America/New_York" (datetime with timezone)
  - "2006-01-02T15:04:05Z" (RFC3339 format)

Examples:
  db prune-alerts 30d
  db prune-alerts "2025-01-01" --yes`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "yes",
					Usage:   "Skip the confirmation prompt",
					Aliases: []string{"y"},
				},
			},
			Action: handlePruneAlerts(deps),
		},
	}
}

// handlePruneAlerts handles the 'prune-alerts' command.
func handlePruneAlerts(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrTimeRequired
		}

		timeStr := c.Args().First()

		cutoff, err := utils.ParseCutoff(timeStr, time.Now())
		if err != nil {
			return fmt.Errorf("failed to parse time %q: %w", timeStr, err)
		}

		deps.Logger.Info("Parsed cutoff time",
			zap.String("input", timeStr),
			zap.Time("cutoffTime", cutoff))

		if !c.Bool("yes") {
			log.Printf("Are you sure you want to delete every alert created before %s? (y/N)",
				cutoff.Format("2006-01-02 15:04:05 MST"))

			var response string

			_, _ = fmt.Scanln(&response)

			if response != "y" && response != "Y" {
				deps.Logger.Info("Operation cancelled")
				return nil
			}
		}

		deleted, err := deps.DB.Model().Alert().DeleteBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete alerts: %w", err)
		}

		deps.Logger.Info("Pruned moderation alerts",
			zap.Int("deleted", deleted),
			zap.Time("cutoffTime", cutoff))

		return nil
	}
}
