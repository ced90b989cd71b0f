package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AccountModel handles account, session and API key operations used by enforcement.
type AccountModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAccount creates an AccountModel.
func NewAccount(db *bun.DB, logger *zap.Logger) *AccountModel {
	return &AccountModel{
		db:     db,
		logger: logger.Named("db_account"),
	}
}

// Get retrieves an account by user ID.
func (m *AccountModel) Get(ctx context.Context, userID string) (*types.Account, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Account, error) {
		var account types.Account
		err := m.db.NewSelect().Model(&account).Where("id = ?", userID).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		return &account, nil
	})
}

// SetStatus changes the status of an account.
func (m *AccountModel) SetStatus(ctx context.Context, userID string, status enum.AccountStatus) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Account)(nil)).
			Set("status = ?", status).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to set account status: %w", err)
		}
		return nil
	})
}

// Anonymize replaces the username and email of an account.
func (m *AccountModel) Anonymize(ctx context.Context, userID, username, email string) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewUpdate().
			Model((*types.Account)(nil)).
			Set("username = ?", username).
			Set("email = ?", email).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", userID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to anonymize account: %w", err)
		}
		return nil
	})
}

// ListSessionIPs returns up to limit distinct IP addresses from the user's most recent sessions.
func (m *AccountModel) ListSessionIPs(ctx context.Context, userID string, limit int) ([]string, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]string, error) {
		var ips []string
		err := m.db.NewSelect().
			Model((*types.Session)(nil)).
			Column("ip_address").
			Where("user_id = ?", userID).
			Where("ip_address <> ''").
			Group("ip_address").
			OrderExpr("MAX(created_at) DESC").
			Limit(limit).
			Scan(ctx, &ips)
		if err != nil {
			return nil, fmt.Errorf("failed to list session IPs: %w", err)
		}
		return ips, nil
	})
}

// RevokeSessions revokes every open session and refresh token of a user.
func (m *AccountModel) RevokeSessions(ctx context.Context, userID string, at time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		result, err := m.db.NewUpdate().
			Model((*types.Session)(nil)).
			Set("revoked_at = ?", at).
			Set("refresh_token = NULL").
			Where("user_id = ?", userID).
			Where("revoked_at IS NULL").
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to revoke sessions: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return int(affected), nil
	})
}

// RevokeAPIKeys revokes every API key of a user.
func (m *AccountModel) RevokeAPIKeys(ctx context.Context, userID string, at time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		result, err := m.db.NewUpdate().
			Model((*types.APIKey)(nil)).
			Set("revoked_at = ?", at).
			Where("user_id = ?", userID).
			Where("revoked_at IS NULL").
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to revoke API keys: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		return int(affected), nil
	})
}
