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
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// FalsePositiveModel handles database operations for false-positive corrections.
type FalsePositiveModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewFalsePositive creates a FalsePositiveModel.
func NewFalsePositive(db *bun.DB, logger *zap.Logger) *FalsePositiveModel {
	return &FalsePositiveModel{
		db:     db,
		logger: logger.Named("db_false_positive"),
	}
}

// Create inserts a correction.
// Returns types.ErrDuplicate if the violation record was already corrected.
func (m *FalsePositiveModel) Create(ctx context.Context, record *types.FalsePositiveRecord) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		if _, err := m.db.NewInsert().Model(record).Exec(ctx); err != nil {
			if dbretry.IsUniqueViolation(err) {
				return types.ErrDuplicate
			}
			return fmt.Errorf("failed to create false positive record: %w", err)
		}
		return nil
	})
}

// GetByViolation returns the correction of a violation record.
func (m *FalsePositiveModel) GetByViolation(ctx context.Context, violationID uuid.UUID) (*types.FalsePositiveRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.FalsePositiveRecord, error) {
		var record types.FalsePositiveRecord
		err := m.db.NewSelect().Model(&record).
			Where("violation_record_id = ?", violationID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get false positive record: %w", err)
		}
		return &record, nil
	})
}

// CountByTypeSince counts corrections of a category created at or after since.
func (m *FalsePositiveModel) CountByTypeSince(
	ctx context.Context, vt enum.ViolationType, since time.Time,
) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().Model((*types.FalsePositiveRecord)(nil)).
			Where("original_violation_type = ?", vt).
			Where("created_at >= ?", since).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count false positives: %w", err)
		}
		return count, nil
	})
}

// ListByTypeSince returns the newest corrections of a category created at or after since.
func (m *FalsePositiveModel) ListByTypeSince(
	ctx context.Context, vt enum.ViolationType, since time.Time, limit int,
) ([]*types.FalsePositiveRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.FalsePositiveRecord, error) {
		var records []*types.FalsePositiveRecord
		err := m.db.NewSelect().Model(&records).
			Where("original_violation_type = ?", vt).
			Where("created_at >= ?", since).
			Order("created_at DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list false positives: %w", err)
		}
		return records, nil
	})
}

// ListSince returns every correction created at or after since.
func (m *FalsePositiveModel) ListSince(ctx context.Context, since time.Time) ([]*types.FalsePositiveRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.FalsePositiveRecord, error) {
		var records []*types.FalsePositiveRecord
		err := m.db.NewSelect().Model(&records).
			Where("created_at >= ?", since).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list false positives: %w", err)
		}
		return records, nil
	})
}

// CountByUser counts corrections made on a user's content.
func (m *FalsePositiveModel) CountByUser(ctx context.Context, userID string) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().Model((*types.FalsePositiveRecord)(nil)).
			Where("user_id = ?", userID).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count user false positives: %w", err)
		}
		return count, nil
	})
}
