package commands

import (
	"context"
	"fmt"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/moderation"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// ReviewCommands returns commands that evaluate content and review detections.
func ReviewCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "evaluate",
			Usage:     "Evaluate a piece of content for a user",
			ArgsUsage: "USER CONTENT_ID",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "type",
					Usage:   "Content type (article, comment, message, bio)",
					Value:   "comment",
					Aliases: []string{"t"},
				},
				&cli.StringFlag{
					Name:     "text",
					Usage:    "Text to evaluate",
					Required: true,
				},
			},
			Action: handleEvaluate(deps),
		},
		{
			Name:      "confirm",
			Usage:     "Confirm a pending violation and hand it to the penalty state machine",
			ArgsUsage: "VIOLATION_ID",
			Flags:     []cli.Flag{reviewerFlag()},
			Action:    handleConfirm(deps),
		},
		{
			Name:      "false-positive",
			Usage:     "Mark a violation as a false positive",
			ArgsUsage: "VIOLATION_ID",
			Flags: []cli.Flag{
				reviewerFlag(),
				&cli.StringFlag{
					Name:    "reason",
					Usage:   "Why the detection was wrong",
					Aliases: []string{"r"},
				},
			},
			Action: handleFalsePositive(deps),
		},
		{
			Name:  "queue",
			Usage: "List pending violations by priority",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Usage:   "Maximum number of records",
					Value:   moderation.DefaultQueueLimit,
					Aliases: []string{"l"},
				},
			},
			Action: handleQueue(deps),
		},
	}
}

func reviewerFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "reviewer",
		Usage:    "ID of the reviewing moderator",
		Required: true,
	}
}

// handleEvaluate handles the 'evaluate' command.
func handleEvaluate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 2 {
			return ErrUserRequired
		}

		contentType, err := enum.ContentTypeString(enumArg(c.String("type")))
		if err != nil {
			return fmt.Errorf("invalid content type %q: %w", c.String("type"), err)
		}

		decision, err := deps.App.Engine.Evaluate(ctx, c.Args().Get(0), c.Args().Get(1), contentType, c.String("text"))
		if err != nil {
			return err
		}

		return printJSON(decision)
	}
}

// handleConfirm handles the 'confirm' command.
func handleConfirm(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := parseViolationID(c.Args().First())
		if err != nil {
			return err
		}

		outcome, err := deps.App.Engine.ConfirmViolation(ctx, id, c.String("reviewer"))
		if err != nil {
			return err
		}

		if outcome == nil {
			deps.App.Logger.Info("Violation confirmed without a new penalty", zap.String("violationID", id.String()))
			return nil
		}

		return printJSON(outcome.Penalty)
	}
}

// handleFalsePositive handles the 'false-positive' command.
func handleFalsePositive(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		id, err := parseViolationID(c.Args().First())
		if err != nil {
			return err
		}

		correction, err := deps.App.Engine.MarkFalsePositive(ctx, id, c.String("reviewer"), c.String("reason"))
		if err != nil {
			return err
		}

		return printJSON(correction)
	}
}

// handleQueue handles the 'queue' command.
func handleQueue(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		records, err := deps.App.Engine.ModerationQueue(ctx, int(c.Int("limit")))
		if err != nil {
			return err
		}

		return printJSON(records)
	}
}
