package models

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AlertModel handles database operations for moderation alerts.
type AlertModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAlert creates an AlertModel.
func NewAlert(db *bun.DB, logger *zap.Logger) *AlertModel {
	return &AlertModel{
		db:     db,
		logger: logger.Named("db_alert"),
	}
}

// Create inserts an alert.
func (m *AlertModel) Create(ctx context.Context, alert *types.ModerationAlert) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		if _, err := m.db.NewInsert().Model(alert).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create alert: %w", err)
		}
		return nil
	})
}

// DeleteBefore removes alerts created before the cutoff and returns how many were removed.
func (m *AlertModel) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		result, err := m.db.NewDelete().
			Model((*types.ModerationAlert)(nil)).
			Where("created_at < ?", cutoff).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to delete old alerts: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return int(affected), nil
	})
}
