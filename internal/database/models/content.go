package models

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ContentModel handles database operations for user-generated content.
type ContentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewContent creates a ContentModel.
func NewContent(db *bun.DB, logger *zap.Logger) *ContentModel {
	return &ContentModel{
		db:     db,
		logger: logger.Named("db_content"),
	}
}

// ListUnmoderated returns published content created at or after since that was never moderated, oldest first.
func (m *ContentModel) ListUnmoderated(ctx context.Context, since time.Time, limit int) ([]*types.ContentItem, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ContentItem, error) {
		var items []*types.ContentItem
		err := m.db.NewSelect().Model(&items).
			Where("moderated_at IS NULL").
			Where("status = ?", enum.ContentStatusPublished).
			Where("created_at >= ?", since).
			Order("created_at ASC", "id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list unmoderated content: %w", err)
		}
		return items, nil
	})
}

// IsModerated reports whether a content item was already moderated.
func (m *ContentModel) IsModerated(ctx context.Context, contentType enum.ContentType, id string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().Model((*types.ContentItem)(nil)).
			Where("id = ?", id).
			Where("content_type = ?", contentType).
			Where("moderated_at IS NOT NULL").
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check content moderation: %w", err)
		}
		return exists, nil
	})
}

// MarkModerated stamps a content item as moderated.
func (m *ContentModel) MarkModerated(
	ctx context.Context, contentType enum.ContentType, id string, at time.Time,
) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.ContentItem)(nil)).
			Set("moderated_at = ?", at).
			Where("id = ?", id).
			Where("content_type = ?", contentType).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to mark content moderated: %w", err)
		}
		return nil
	})
}

// HideByAuthor hides a user's content. When publishedOnly is false drafts are hidden too.
func (m *ContentModel) HideByAuthor(ctx context.Context, userID string, publishedOnly bool) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		query := m.db.NewUpdate().
			Model((*types.ContentItem)(nil)).
			Set("status = ?", enum.ContentStatusHidden).
			Where("author_id = ?", userID)
		if publishedOnly {
			query = query.Where("status = ?", enum.ContentStatusPublished)
		} else {
			query = query.Where("status <> ?", enum.ContentStatusHidden)
		}

		result, err := query.Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to hide content: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return int(affected), nil
	})
}
