package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.ViolationRecord)(nil),
			(*types.Penalty)(nil),
			(*types.UserReputation)(nil),
			(*types.FalsePositiveRecord)(nil),
			(*types.ModerationSettings)(nil),
			(*types.Account)(nil),
			(*types.Session)(nil),
			(*types.APIKey)(nil),
			(*types.ContentItem)(nil),
			(*types.ModerationAlert)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP TABLE IF EXISTS
				moderation_alerts,
				contents,
				api_keys,
				sessions,
				accounts,
				moderation_settings,
				false_positive_records,
				user_reputations,
				penalties,
				violation_records
			CASCADE
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}

		return nil
	})
}
