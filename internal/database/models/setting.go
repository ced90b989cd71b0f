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

// SettingModel handles database operations for the moderation settings singleton.
type SettingModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSetting creates a SettingModel.
func NewSetting(db *bun.DB, logger *zap.Logger) *SettingModel {
	return &SettingModel{
		db:     db,
		logger: logger.Named("db_setting"),
	}
}

// Get retrieves the settings row. Returns types.ErrNotFound before the first save.
func (m *SettingModel) Get(ctx context.Context) (*types.ModerationSettings, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ModerationSettings, error) {
		var settings types.ModerationSettings
		err := m.db.NewSelect().Model(&settings).
			Where("id = ?", types.ModerationSettingsID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get moderation settings: %w", err)
		}
		return &settings, nil
	})
}

// Save writes the settings row.
func (m *SettingModel) Save(ctx context.Context, settings *types.ModerationSettings) error {
	settings.ID = types.ModerationSettingsID

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(settings).
			On("CONFLICT (id) DO UPDATE").
			Set("hate_speech_threshold = EXCLUDED.hate_speech_threshold").
			Set("harassment_threshold = EXCLUDED.harassment_threshold").
			Set("sexual_threshold = EXCLUDED.sexual_threshold").
			Set("spam_threshold = EXCLUDED.spam_threshold").
			Set("auto_shadow_ban = EXCLUDED.auto_shadow_ban").
			Set("auto_outright_ban = EXCLUDED.auto_outright_ban").
			Set("auto_official_ban = EXCLUDED.auto_official_ban").
			Set("background_monitoring = EXCLUDED.background_monitoring").
			Set("real_time_alerts = EXCLUDED.real_time_alerts").
			Set("level1_threshold = EXCLUDED.level1_threshold").
			Set("level2_threshold = EXCLUDED.level2_threshold").
			Set("level3_threshold = EXCLUDED.level3_threshold").
			Set("shadow_ban_hours = EXCLUDED.shadow_ban_hours").
			Set("outright_ban_hours = EXCLUDED.outright_ban_hours").
			Set("official_ban_hours = EXCLUDED.official_ban_hours").
			Set("whitelist = EXCLUDED.whitelist").
			Set("monitoring_interval_minutes = EXCLUDED.monitoring_interval_minutes").
			Set("auto_apply_min_priority = EXCLUDED.auto_apply_min_priority").
			Set("version = EXCLUDED.version").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to save moderation settings: %w", err)
		}
		return nil
	})
}
