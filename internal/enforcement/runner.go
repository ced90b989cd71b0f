package enforcement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/penalty"
	"go.uber.org/zap"
)

// ErrEnforcement wraps the first side effect that failed.
var ErrEnforcement = errors.New("enforcement failed")

// AccountStore is the account side of enforcement.
type AccountStore interface {
	Get(ctx context.Context, userID string) (*types.Account, error)
	SetStatus(ctx context.Context, userID string, status enum.AccountStatus) error
	Anonymize(ctx context.Context, userID, username, email string) error
	RevokeSessions(ctx context.Context, userID string, at time.Time) (int, error)
	RevokeAPIKeys(ctx context.Context, userID string, at time.Time) (int, error)
}

// ContentStore hides a user's content.
type ContentStore interface {
	HideByAuthor(ctx context.Context, userID string, publishedOnly bool) (int, error)
}

// Runner executes penalty effects in order and stops at the first failure.
// Every effect is idempotent so a partially applied list can be run again.
type Runner struct {
	accounts AccountStore
	contents ContentStore
	flags    *Flags
	now      func() time.Time
	logger   *zap.Logger
}

// NewRunner creates an effect runner.
func NewRunner(accounts AccountStore, contents ContentStore, flags *Flags, logger *zap.Logger) *Runner {
	return &Runner{
		accounts: accounts,
		contents: contents,
		flags:    flags,
		now:      time.Now,
		logger:   logger.Named("enforcement"),
	}
}

// WithClock replaces the runner's clock.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Run executes effects sequentially.
func (r *Runner) Run(ctx context.Context, effects []penalty.Effect) error {
	for i, effect := range effects {
		if err := r.run(ctx, effect); err != nil {
			return fmt.Errorf("%w: %s (%d/%d) for user %s: %w",
				ErrEnforcement, effect.Kind, i+1, len(effects), effect.UserID, err)
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, effect penalty.Effect) error {
	user := effect.UserID

	switch effect.Kind {
	case penalty.EffectHidePublishedContent, penalty.EffectHideAllContent:
		hidden, err := r.contents.HideByAuthor(ctx, user, effect.Kind == penalty.EffectHidePublishedContent)
		if err != nil {
			return err
		}
		r.logger.Debug("Hid content", zap.String("userID", user), zap.Int("count", hidden))
		return nil

	case penalty.EffectSetShadowFlag:
		return r.flags.SetShadowBanned(ctx, user, effect.TTL)

	case penalty.EffectSetBanFlag:
		return r.flags.SetBanned(ctx, user, effect.TTL)

	case penalty.EffectClearFlags:
		return r.flags.Clear(ctx, user)

	case penalty.EffectSuspendAccount:
		return r.ignoreMissing(r.accounts.SetStatus(ctx, user, enum.AccountStatusSuspended))

	case penalty.EffectBanAccount:
		return r.ignoreMissing(r.accounts.SetStatus(ctx, user, enum.AccountStatusBanned))

	case penalty.EffectRestoreAccount:
		return r.ignoreMissing(r.accounts.SetStatus(ctx, user, enum.AccountStatusActive))

	case penalty.EffectLiftSuspension:
		account, err := r.accounts.Get(ctx, user)
		if err != nil {
			return r.ignoreMissing(err)
		}
		if account.Status != enum.AccountStatusSuspended {
			return nil
		}
		return r.accounts.SetStatus(ctx, user, enum.AccountStatusActive)

	case penalty.EffectRevokeSessions:
		_, err := r.accounts.RevokeSessions(ctx, user, r.now())
		return err

	case penalty.EffectRevokeAPIKeys:
		_, err := r.accounts.RevokeAPIKeys(ctx, user, r.now())
		return err

	case penalty.EffectDenyIPs:
		entry := r.entry(effect)
		for _, ip := range effect.IPs {
			if err := r.flags.DenyIP(ctx, ip, entry, effect.TTL); err != nil {
				return err
			}
		}
		return nil

	case penalty.EffectDenyEmail:
		return r.flags.DenyEmail(ctx, effect.Email, r.entry(effect))

	case penalty.EffectAnonymize:
		return r.ignoreMissing(r.accounts.Anonymize(ctx, user, AnonymizedUsername(user), AnonymizedEmail(user)))
	}

	return fmt.Errorf("unknown effect kind %d", int(effect.Kind))
}

func (r *Runner) entry(effect penalty.Effect) DenyEntry {
	return DenyEntry{
		UserID:   effect.UserID,
		Username: effect.Username,
		Reason:   effect.Reason,
		BannedAt: r.now(),
	}
}

func (r *Runner) ignoreMissing(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}

// AnonymizedUsername is the username an officially banned account is renamed to.
func AnonymizedUsername(userID string) string {
	return "banned_" + userID
}

// AnonymizedEmail is the email an officially banned account is given.
func AnonymizedEmail(userID string) string {
	return "banned_" + userID + "@deleted.local"
}
