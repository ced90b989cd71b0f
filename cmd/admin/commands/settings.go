package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/urfave/cli/v3"
)

// SettingsCommands returns commands that read and change the moderation settings.
func SettingsCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "settings",
			Usage: "Read and change moderation settings",
			Commands: []*cli.Command{
				{
					Name:  "show",
					Usage: "Print the current settings",
					Action: func(ctx context.Context, _ *cli.Command) error {
						s, err := deps.App.Settings.Get(ctx)
						if err != nil {
							return err
						}
						return printJSON(s)
					},
				},
				{
					Name:      "threshold",
					Usage:     "Set the confidence threshold of a category",
					ArgsUsage: "TYPE VALUE",
					Action:    handleSetThreshold(deps),
				},
				{
					Name:      "interval",
					Usage:     "Set the content scan interval in minutes",
					ArgsUsage: "MINUTES",
					Action:    handleSetInterval(deps),
				},
				{
					Name:      "whitelist",
					Usage:     "Add a whitelist pattern to a category",
					ArgsUsage: "TYPE PATTERN",
					Action:    handleAddWhitelist(deps),
				},
			},
		},
	}
}

// handleSetThreshold handles the 'settings threshold' command.
func handleSetThreshold(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 2 {
			return ErrValueRequired
		}

		vt, err := enum.ViolationTypeString(enumArg(c.Args().Get(0)))
		if err != nil {
			return fmt.Errorf("invalid violation type %q: %w", c.Args().Get(0), err)
		}

		value, err := strconv.ParseFloat(c.Args().Get(1), 64)
		if err != nil {
			return fmt.Errorf("invalid threshold %q: %w", c.Args().Get(1), err)
		}

		s, err := deps.App.Settings.SetThreshold(ctx, vt, value)
		if err != nil {
			return err
		}

		return printJSON(s.Thresholds)
	}
}

// handleSetInterval handles the 'settings interval' command.
func handleSetInterval(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrValueRequired
		}

		minutes, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", c.Args().First(), err)
		}

		s, err := deps.App.Settings.SetMonitoringInterval(ctx, minutes)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{"monitoringIntervalMinutes": s.MonitoringIntervalMinutes})
	}
}

// handleAddWhitelist handles the 'settings whitelist' command.
func handleAddWhitelist(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 2 {
			return ErrValueRequired
		}

		vt, err := enum.ViolationTypeString(enumArg(c.Args().Get(0)))
		if err != nil {
			return fmt.Errorf("invalid violation type %q: %w", c.Args().Get(0), err)
		}

		s, err := deps.App.Settings.AddWhitelistPattern(ctx, vt, c.Args().Get(1))
		if err != nil {
			return err
		}

		return printJSON(s.Whitelist)
	}
}
