package database

import (
	"github.com/robalyx/warden/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	violation     *models.ViolationModel
	penalty       *models.PenaltyModel
	reputation    *models.ReputationModel
	falsePositive *models.FalsePositiveModel
	setting       *models.SettingModel
	account       *models.AccountModel
	content       *models.ContentModel
	alert         *models.AlertModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		violation:     models.NewViolation(db, logger),
		penalty:       models.NewPenalty(db, logger),
		reputation:    models.NewReputation(db, logger),
		falsePositive: models.NewFalsePositive(db, logger),
		setting:       models.NewSetting(db, logger),
		account:       models.NewAccount(db, logger),
		content:       models.NewContent(db, logger),
		alert:         models.NewAlert(db, logger),
	}
}

// Violation returns the violation record model.
func (r *Repository) Violation() *models.ViolationModel {
	return r.violation
}

// Penalty returns the penalty model.
func (r *Repository) Penalty() *models.PenaltyModel {
	return r.penalty
}

// Reputation returns the user reputation model.
func (r *Repository) Reputation() *models.ReputationModel {
	return r.reputation
}

// FalsePositive returns the false positive record model.
func (r *Repository) FalsePositive() *models.FalsePositiveModel {
	return r.falsePositive
}

// Setting returns the moderation settings model.
func (r *Repository) Setting() *models.SettingModel {
	return r.setting
}

// Account returns the account model covering accounts, sessions and API keys.
func (r *Repository) Account() *models.AccountModel {
	return r.account
}

// Content returns the content model.
func (r *Repository) Content() *models.ContentModel {
	return r.content
}

// Alert returns the moderation alert model.
func (r *Repository) Alert() *models.AlertModel {
	return r.alert
}
