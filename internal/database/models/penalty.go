package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// PenaltyModel handles database operations for penalties.
type PenaltyModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPenalty creates a PenaltyModel.
func NewPenalty(db *bun.DB, logger *zap.Logger) *PenaltyModel {
	return &PenaltyModel{
		db:     db,
		logger: logger.Named("db_penalty"),
	}
}

// Create inserts a penalty unless one with the same idempotency key exists.
// Returns false when the key was already used.
func (m *PenaltyModel) Create(ctx context.Context, penalty *types.Penalty) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewInsert().
			Model(penalty).
			On("CONFLICT (idempotency_key) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to create penalty: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return affected > 0, nil
	})
}

// GetByKey retrieves a penalty by its idempotency key.
func (m *PenaltyModel) GetByKey(ctx context.Context, key string) (*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Penalty, error) {
		var penalty types.Penalty
		err := m.db.NewSelect().Model(&penalty).Where("idempotency_key = ?", key).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get penalty: %w", err)
		}
		return &penalty, nil
	})
}

// ListByUser returns the full penalty history of a user, oldest first.
func (m *PenaltyModel) ListByUser(ctx context.Context, userID string) ([]*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Penalty, error) {
		var penalties []*types.Penalty
		err := m.db.NewSelect().Model(&penalties).
			Where("user_id = ?", userID).
			Order("start_date ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list penalties: %w", err)
		}
		return penalties, nil
	})
}

// ListExpired returns active penalties whose end date has passed.
func (m *PenaltyModel) ListExpired(ctx context.Context, now time.Time, limit int) ([]*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Penalty, error) {
		var penalties []*types.Penalty
		err := m.db.NewSelect().Model(&penalties).
			Where("is_active = TRUE").
			Where("end_date IS NOT NULL").
			Where("end_date <= ?", now).
			Order("end_date ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list expired penalties: %w", err)
		}
		return penalties, nil
	})
}

// Deactivate marks the given penalties inactive.
func (m *PenaltyModel) Deactivate(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("is_active = FALSE").
			Where("id IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to deactivate penalties: %w", err)
		}
		return nil
	})
}

// DeactivateByUser marks every active penalty of a user inactive and returns how many changed.
func (m *PenaltyModel) DeactivateByUser(ctx context.Context, userID string) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("is_active = FALSE").
			Where("user_id = ?", userID).
			Where("is_active = TRUE").
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to deactivate user penalties: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return int(affected), nil
	})
}

// ListUnenforced returns active penalties created before the cutoff whose enforcement never completed.
func (m *PenaltyModel) ListUnenforced(ctx context.Context, before time.Time, limit int) ([]*types.Penalty, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Penalty, error) {
		var penalties []*types.Penalty
		err := m.db.NewSelect().Model(&penalties).
			Where("is_active = TRUE").
			Where("enforced_at IS NULL").
			Where("created_at < ?", before).
			Order("created_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list unenforced penalties: %w", err)
		}
		return penalties, nil
	})
}

// MarkEnforced records that every enforcement effect of a penalty succeeded.
func (m *PenaltyModel) MarkEnforced(ctx context.Context, id uuid.UUID, at time.Time) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Penalty)(nil)).
			Set("enforced_at = ?", at).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark penalty enforced: %w", err)
		}
		return nil
	})
}

// ListActiveUserIDs returns every user holding at least one active penalty.
func (m *PenaltyModel) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var userIDs []string
		err := m.db.NewSelect().Model((*types.Penalty)(nil)).
			ColumnExpr("DISTINCT user_id").
			Where("is_active = TRUE").
			Scan(ctx, &userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list penalized users: %w", err)
		}
		return userIDs, nil
	})
}

// CountActive counts active penalties.
func (m *PenaltyModel) CountActive(ctx context.Context) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().Model((*types.Penalty)(nil)).
			Where("is_active = TRUE").
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count active penalties: %w", err)
		}
		return count, nil
	})
}
