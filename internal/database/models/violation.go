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

// ViolationModel handles database operations for violation records.
type ViolationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewViolation creates a ViolationModel.
func NewViolation(db *bun.DB, logger *zap.Logger) *ViolationModel {
	return &ViolationModel{
		db:     db,
		logger: logger.Named("db_violation"),
	}
}

// Create inserts a new violation record.
// Returns types.ErrDuplicate if the content item already has a record.
func (m *ViolationModel) Create(ctx context.Context, record *types.ViolationRecord) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().Model(record).Exec(ctx)
		if err != nil {
			if dbretry.IsUniqueViolation(err) {
				return types.ErrDuplicate
			}
			return fmt.Errorf("failed to create violation record: %w", err)
		}
		return nil
	})
}

// Get retrieves a violation record by ID.
func (m *ViolationModel) Get(ctx context.Context, id uuid.UUID) (*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ViolationRecord, error) {
		var record types.ViolationRecord
		err := m.db.NewSelect().Model(&record).Where("id = ?", id).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get violation record: %w", err)
		}
		return &record, nil
	})
}

// GetByContent retrieves the violation record of a content item.
func (m *ViolationModel) GetByContent(
	ctx context.Context, contentType enum.ContentType, contentID string,
) (*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ViolationRecord, error) {
		var record types.ViolationRecord
		err := m.db.NewSelect().Model(&record).
			Where("content_type = ?", contentType).
			Where("content_id = ?", contentID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get violation record by content: %w", err)
		}
		return &record, nil
	})
}

// UpdateStatus moves a record from one status to another and stamps the review metadata.
// Returns types.ErrNotFound if the record does not exist or is no longer in the expected status.
func (m *ViolationModel) UpdateStatus(
	ctx context.Context, id uuid.UUID, from, to enum.ViolationStatus, reviewer string, at time.Time,
) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		result, err := m.db.NewUpdate().
			Model((*types.ViolationRecord)(nil)).
			Set("status = ?", to).
			Set("reviewed_by = ?", reviewer).
			Set("reviewed_at = ?", at).
			Where("id = ?", id).
			Where("status = ?", from).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update violation status: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

// ListConfirmedByUser returns every confirmed record of a user, oldest first.
func (m *ViolationModel) ListConfirmedByUser(ctx context.Context, userID string) ([]*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ViolationRecord, error) {
		var records []*types.ViolationRecord
		err := m.db.NewSelect().Model(&records).
			Where("user_id = ?", userID).
			Where("status = ?", enum.ViolationStatusConfirmed).
			Order("created_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list confirmed violations: %w", err)
		}
		return records, nil
	})
}

// CountByTypeSince counts records of a category created at or after since, in any status.
func (m *ViolationModel) CountByTypeSince(ctx context.Context, vt enum.ViolationType, since time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().Model((*types.ViolationRecord)(nil)).
			Where("violation_type = ?", vt).
			Where("created_at >= ?", since).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count violations: %w", err)
		}
		return count, nil
	})
}

// ListConfirmedByUserSince returns a user's confirmed records created at or after since.
func (m *ViolationModel) ListConfirmedByUserSince(
	ctx context.Context, userID string, since time.Time,
) ([]*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ViolationRecord, error) {
		var records []*types.ViolationRecord
		err := m.db.NewSelect().Model(&records).
			Where("user_id = ?", userID).
			Where("status = ?", enum.ViolationStatusConfirmed).
			Where("created_at >= ?", since).
			Order("created_at ASC", "id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list recent confirmed violations: %w", err)
		}
		return records, nil
	})
}

// ListUserIDsSince returns the distinct authors of records created at or after since.
func (m *ViolationModel) ListUserIDsSince(ctx context.Context, since time.Time) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var userIDs []string
		err := m.db.NewSelect().Model((*types.ViolationRecord)(nil)).
			ColumnExpr("DISTINCT user_id").
			Where("created_at >= ?", since).
			Scan(ctx, &userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list users with violations: %w", err)
		}
		return userIDs, nil
	})
}

// CountPending counts records waiting for review.
func (m *ViolationModel) CountPending(ctx context.Context) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().Model((*types.ViolationRecord)(nil)).
			Where("status = ?", enum.ViolationStatusPending).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count pending violations: %w", err)
		}
		return count, nil
	})
}

// ListPending returns the review queue: highest priority first, then oldest first.
func (m *ViolationModel) ListPending(ctx context.Context, limit int) ([]*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ViolationRecord, error) {
		var records []*types.ViolationRecord
		err := m.db.NewSelect().Model(&records).
			Where("status = ?", enum.ViolationStatusPending).
			Order("priority DESC", "created_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pending violations: %w", err)
		}
		return records, nil
	})
}

// ListSince returns every record created at or after since.
func (m *ViolationModel) ListSince(ctx context.Context, since time.Time) ([]*types.ViolationRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ViolationRecord, error) {
		var records []*types.ViolationRecord
		err := m.db.NewSelect().Model(&records).
			Where("created_at >= ?", since).
			Order("created_at ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list violations: %w", err)
		}
		return records, nil
	})
}
