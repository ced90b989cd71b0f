package commands

import (
	"context"
	"time"

	"github.com/robalyx/warden/internal/worker/core"
	"github.com/urfave/cli/v3"
)

// ReportCommands returns commands that report on moderation activity.
func ReportCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "stats",
			Usage:  "Show moderation metrics for a window",
			Flags:  []cli.Flag{windowFlag()},
			Action: handleStats(deps),
		},
		{
			Name:   "fp-stats",
			Usage:  "Show false-positive statistics for a window",
			Flags:  []cli.Flag{windowFlag()},
			Action: handleFalsePositiveStats(deps),
		},
		{
			Name:   "workers",
			Usage:  "Show the status of running workers",
			Action: handleWorkers(deps),
		},
	}
}

func windowFlag() cli.Flag {
	return &cli.DurationFlag{
		Name:    "window",
		Usage:   "How far back to look",
		Value:   7 * 24 * time.Hour,
		Aliases: []string{"w"},
	}
}

// handleStats handles the 'stats' command.
func handleStats(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		metrics, err := deps.App.Engine.Metrics(ctx, c.Duration("window"))
		if err != nil {
			return err
		}
		return printJSON(metrics)
	}
}

// handleFalsePositiveStats handles the 'fp-stats' command.
func handleFalsePositiveStats(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		stats, err := deps.App.Engine.FalsePositiveStats(ctx, c.Duration("window"))
		if err != nil {
			return err
		}
		return printJSON(stats)
	}
}

// handleWorkers handles the 'workers' command.
func handleWorkers(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		statuses, err := core.NewMonitor(deps.App.StatusClient, deps.App.Logger).GetAllStatuses(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		out := make([]map[string]any, 0, len(statuses))
		for _, s := range statuses {
			out = append(out, map[string]any{
				"workerId":    s.WorkerID,
				"workerType":  s.WorkerType,
				"health":      s.Health.String(),
				"currentTask": s.CurrentTask,
				"progress":    s.Progress,
				"lastSeen":    s.LastSeen,
				"stale":       s.IsStale(now),
			})
		}

		return printJSON(out)
	}
}
