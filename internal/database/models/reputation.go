package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReputationModel handles database operations for user reputations.
type ReputationModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReputation creates a ReputationModel.
func NewReputation(db *bun.DB, logger *zap.Logger) *ReputationModel {
	return &ReputationModel{
		db:     db,
		logger: logger.Named("db_reputation"),
	}
}

// Get retrieves the stored reputation of a user.
func (m *ReputationModel) Get(ctx context.Context, userID string) (*types.UserReputation, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.UserReputation, error) {
		var rep types.UserReputation
		err := m.db.NewSelect().Model(&rep).Where("user_id = ?", userID).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get reputation: %w", err)
		}
		return &rep, nil
	})
}

// Upsert replaces every field of a user's reputation.
func (m *ReputationModel) Upsert(ctx context.Context, rep *types.UserReputation) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(rep).
			On("CONFLICT (user_id) DO UPDATE").
			Set("overall_score = EXCLUDED.overall_score").
			Set("violation_score = EXCLUDED.violation_score").
			Set("total_violations = EXCLUDED.total_violations").
			Set("religious_count = EXCLUDED.religious_count").
			Set("hate_speech_count = EXCLUDED.hate_speech_count").
			Set("harassment_count = EXCLUDED.harassment_count").
			Set("sexual_count = EXCLUDED.sexual_count").
			Set("spam_count = EXCLUDED.spam_count").
			Set("other_count = EXCLUDED.other_count").
			Set("false_positive_count = EXCLUDED.false_positive_count").
			Set("shadow_ban_count = EXCLUDED.shadow_ban_count").
			Set("outright_ban_count = EXCLUDED.outright_ban_count").
			Set("official_ban_count = EXCLUDED.official_ban_count").
			Set("trust_level = EXCLUDED.trust_level").
			Set("priority_tier = EXCLUDED.priority_tier").
			Set("last_violation_at = EXCLUDED.last_violation_at").
			Set("consecutive_clean_days = EXCLUDED.consecutive_clean_days").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert reputation: %w", err)
		}
		return nil
	})
}
