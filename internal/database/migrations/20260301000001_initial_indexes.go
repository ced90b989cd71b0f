package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- One violation record per content item
			CREATE UNIQUE INDEX IF NOT EXISTS idx_violation_records_content
			ON violation_records (content_type, content_id);

			CREATE INDEX IF NOT EXISTS idx_violation_records_user_status
			ON violation_records (user_id, status, created_at);

			CREATE INDEX IF NOT EXISTS idx_violation_records_type_time
			ON violation_records (violation_type, created_at DESC);

			-- Review queue order
			CREATE INDEX IF NOT EXISTS idx_violation_records_queue
			ON violation_records (priority DESC, created_at ASC)
			WHERE status = ?;

			CREATE INDEX IF NOT EXISTS idx_penalties_user_start
			ON penalties (user_id, start_date);

			CREATE INDEX IF NOT EXISTS idx_penalties_expiry
			ON penalties (end_date)
			WHERE is_active = TRUE AND end_date IS NOT NULL;

			CREATE INDEX IF NOT EXISTS idx_penalties_unenforced
			ON penalties (created_at)
			WHERE is_active = TRUE AND enforced_at IS NULL;

			CREATE INDEX IF NOT EXISTS idx_false_positive_records_type_time
			ON false_positive_records (original_violation_type, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_false_positive_records_user
			ON false_positive_records (user_id);

			CREATE INDEX IF NOT EXISTS idx_sessions_user_time
			ON sessions (user_id, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_api_keys_user
			ON api_keys (user_id);

			-- Content scan order
			CREATE INDEX IF NOT EXISTS idx_contents_unmoderated
			ON contents (created_at ASC, id ASC)
			WHERE moderated_at IS NULL;

			CREATE INDEX IF NOT EXISTS idx_contents_author
			ON contents (author_id, status);

			CREATE INDEX IF NOT EXISTS idx_moderation_alerts_time
			ON moderation_alerts (created_at);
		`, enum.ViolationStatusPending).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_violation_records_content;
			DROP INDEX IF EXISTS idx_violation_records_user_status;
			DROP INDEX IF EXISTS idx_violation_records_type_time;
			DROP INDEX IF EXISTS idx_violation_records_queue;
			DROP INDEX IF EXISTS idx_penalties_user_start;
			DROP INDEX IF EXISTS idx_penalties_expiry;
			DROP INDEX IF EXISTS idx_penalties_unenforced;
			DROP INDEX IF EXISTS idx_false_positive_records_type_time;
			DROP INDEX IF EXISTS idx_false_positive_records_user;
			DROP INDEX IF EXISTS idx_sessions_user_time;
			DROP INDEX IF EXISTS idx_api_keys_user;
			DROP INDEX IF EXISTS idx_contents_unmoderated;
			DROP INDEX IF EXISTS idx_contents_author;
			DROP INDEX IF EXISTS idx_moderation_alerts_time;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
