package commands

import (
	"context"
	"fmt"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/moderation"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// PenaltyCommands returns commands that manage penalties and deny-lists.
func PenaltyCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "penalty",
			Usage: "Manage user penalties",
			Commands: []*cli.Command{
				{
					Name:      "apply",
					Usage:     "Apply a manual penalty",
					ArgsUsage: "USER",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:     "type",
							Usage:    "Penalty type (warning, shadow-ban, outright-ban, official-ban)",
							Required: true,
							Aliases:  []string{"t"},
						},
						&cli.IntFlag{
							Name:  "hours",
							Usage: "Duration in hours; 0 is permanent, unset uses the configured default",
						},
						&cli.StringFlag{
							Name:    "reason",
							Usage:   "Reason shown in the penalty metadata",
							Aliases: []string{"r"},
						},
						&cli.StringFlag{
							Name:     "by",
							Usage:    "ID of the moderator applying the penalty",
							Required: true,
						},
						&cli.StringFlag{
							Name:  "violation",
							Usage: "Violation record the penalty answers",
						},
					},
					Action: handleApplyPenalty(deps),
				},
				{
					Name:      "revoke",
					Usage:     "Revoke every active penalty of a user",
					ArgsUsage: "USER",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:     "by",
							Usage:    "ID of the moderator revoking the penalties",
							Required: true,
						},
					},
					Action: handleRevokePenalties(deps),
				},
				{
					Name:      "state",
					Usage:     "Show the account state derived from active penalties",
					ArgsUsage: "USER",
					Action:    handlePenaltyState(deps),
				},
			},
		},
		{
			Name:      "check-ip",
			Usage:     "Check whether an IP address is on the deny-list",
			ArgsUsage: "IP",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return ErrValueRequired
				}
				banned, err := deps.App.Engine.IsIPBanned(ctx, c.Args().First())
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"ip": c.Args().First(), "banned": banned})
			},
		},
		{
			Name:      "check-email",
			Usage:     "Check whether an email address is on the deny-list",
			ArgsUsage: "EMAIL",
			Action: func(ctx context.Context, c *cli.Command) error {
				if c.Args().Len() != 1 {
					return ErrValueRequired
				}
				banned, err := deps.App.Engine.IsEmailBanned(ctx, c.Args().First())
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"email": c.Args().First(), "banned": banned})
			},
		},
	}
}

// handleApplyPenalty handles the 'penalty apply' command.
func handleApplyPenalty(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrUserRequired
		}

		penaltyType, err := enum.PenaltyTypeString(enumArg(c.String("type")))
		if err != nil {
			return fmt.Errorf("invalid penalty type %q: %w", c.String("type"), err)
		}

		req := moderation.ManualPenalty{
			UserID:    c.Args().First(),
			Type:      penaltyType,
			Reason:    c.String("reason"),
			AppliedBy: c.String("by"),
		}

		if c.IsSet("hours") {
			hours := int(c.Int("hours"))
			req.DurationHours = &hours
		}

		if v := c.String("violation"); v != "" {
			id, err := parseViolationID(v)
			if err != nil {
				return err
			}
			req.ViolationID = &id
		}

		outcome, err := deps.App.Engine.ApplyPenalty(ctx, req)
		if err != nil {
			return err
		}

		if !outcome.Enforced {
			deps.App.Logger.Warn("Penalty recorded but enforcement failed; the worker will retry",
				zap.String("penaltyID", outcome.Penalty.ID.String()))
		}

		return printJSON(outcome.Penalty)
	}
}

// handleRevokePenalties handles the 'penalty revoke' command.
func handleRevokePenalties(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrUserRequired
		}

		revoked, err := deps.App.Engine.RevokePenalties(ctx, c.Args().First(), c.String("by"))
		if err != nil {
			return err
		}

		return printJSON(map[string]any{"userId": c.Args().First(), "revoked": revoked})
	}
}

// handlePenaltyState handles the 'penalty state' command.
func handlePenaltyState(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrUserRequired
		}

		state, err := deps.App.Engine.PenaltyState(ctx, c.Args().First())
		if err != nil {
			return err
		}

		return printJSON(map[string]any{"userId": c.Args().First(), "state": state.String()})
	}
}
