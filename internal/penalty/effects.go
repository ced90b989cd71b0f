package penalty

import (
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// EffectKind is an enforcement side effect. Every kind is idempotent.
type EffectKind int

const (
	// EffectHidePublishedContent hides the user's published content.
	EffectHidePublishedContent EffectKind = iota
	// EffectHideAllContent hides published content and drafts.
	EffectHideAllContent
	// EffectSetShadowFlag marks the user shadow banned for TTL.
	EffectSetShadowFlag
	// EffectSetBanFlag marks the user banned for TTL.
	EffectSetBanFlag
	// EffectSuspendAccount sets the account status to suspended.
	EffectSuspendAccount
	// EffectBanAccount sets the account status to banned.
	EffectBanAccount
	// EffectRevokeSessions revokes every session and refresh token.
	EffectRevokeSessions
	// EffectRevokeAPIKeys revokes every API key.
	EffectRevokeAPIKeys
	// EffectDenyIPs adds IPs to the deny-list for TTL.
	EffectDenyIPs
	// EffectDenyEmail adds an email to the deny-list permanently.
	EffectDenyEmail
	// EffectAnonymize replaces the username and email.
	EffectAnonymize
	// EffectClearFlags removes the shadow and ban flags.
	EffectClearFlags
	// EffectLiftSuspension sets a suspended account back to active.
	EffectLiftSuspension
	// EffectRestoreAccount sets the account back to active whatever its status.
	EffectRestoreAccount
)

func (k EffectKind) String() string {
	switch k {
	case EffectHidePublishedContent:
		return "hide_published_content"
	case EffectHideAllContent:
		return "hide_all_content"
	case EffectSetShadowFlag:
		return "set_shadow_flag"
	case EffectSetBanFlag:
		return "set_ban_flag"
	case EffectSuspendAccount:
		return "suspend_account"
	case EffectBanAccount:
		return "ban_account"
	case EffectRevokeSessions:
		return "revoke_sessions"
	case EffectRevokeAPIKeys:
		return "revoke_api_keys"
	case EffectDenyIPs:
		return "deny_ips"
	case EffectDenyEmail:
		return "deny_email"
	case EffectAnonymize:
		return "anonymize"
	case EffectClearFlags:
		return "clear_flags"
	case EffectLiftSuspension:
		return "lift_suspension"
	case EffectRestoreAccount:
		return "restore_account"
	}
	return "unknown"
}

// Effect is one side effect with its arguments. A zero TTL means permanent.
type Effect struct {
	Kind     EffectKind
	UserID   string
	TTL      time.Duration
	IPs      []string
	Email    string
	Username string
	Reason   string
}

// Plan returns the side effects that enforce a penalty from its start, in execution
// order. Superseded penalties and warnings enforce nothing.
func Plan(p *types.Penalty) []Effect {
	return plan(p, p.Duration())
}

// PlanAt is Plan for a penalty enforced late: timed effects only last until the
// penalty's end date.
func PlanAt(p *types.Penalty, now time.Time) []Effect {
	ttl := p.Duration()
	if p.EndDate != nil {
		// A zero TTL would be permanent.
		ttl = max(p.EndDate.Sub(now), time.Second)
	}
	return plan(p, ttl)
}

func plan(p *types.Penalty, ttl time.Duration) []Effect {
	if p.Metadata.Superseded {
		return nil
	}

	user := p.UserID
	reason := p.PenaltyType.String()

	switch p.PenaltyType {
	case enum.PenaltyTypeShadowBan:
		return []Effect{
			{Kind: EffectHidePublishedContent, UserID: user, Reason: reason},
			{Kind: EffectSetShadowFlag, UserID: user, TTL: ttl, Reason: reason},
		}

	case enum.PenaltyTypeOutrightBan:
		return outrightEffects(user, ttl, reason, EffectSuspendAccount)

	case enum.PenaltyTypeOfficialBan:
		effects := outrightEffects(user, ttl, reason, EffectBanAccount)
		if len(p.Metadata.CapturedIPs) > 0 {
			effects = append(effects, Effect{
				Kind: EffectDenyIPs, UserID: user, TTL: ttl, IPs: p.Metadata.CapturedIPs,
				Username: p.Metadata.CapturedUsername, Reason: reason,
			})
		}
		if p.Metadata.CapturedEmail != "" {
			effects = append(effects, Effect{
				Kind: EffectDenyEmail, UserID: user, Email: p.Metadata.CapturedEmail,
				Username: p.Metadata.CapturedUsername, Reason: reason,
			})
		}
		return append(effects,
			Effect{Kind: EffectRevokeAPIKeys, UserID: user, Reason: reason},
			Effect{Kind: EffectAnonymize, UserID: user, Reason: reason},
		)

	case enum.PenaltyTypeWarning:
	}

	return nil
}

func outrightEffects(user string, ttl time.Duration, reason string, status EffectKind) []Effect {
	return []Effect{
		{Kind: status, UserID: user, Reason: reason},
		{Kind: EffectHideAllContent, UserID: user, Reason: reason},
		{Kind: EffectRevokeSessions, UserID: user, Reason: reason},
		{Kind: EffectSetBanFlag, UserID: user, TTL: ttl, Reason: reason},
	}
}

// PlanRevoke returns the side effects of a manual unban. Deny-list entries stay.
func PlanRevoke(userID string) []Effect {
	return []Effect{
		{Kind: EffectClearFlags, UserID: userID, Reason: "revoke"},
		{Kind: EffectRestoreAccount, UserID: userID, Reason: "revoke"},
	}
}

// PlanExpiry returns the side effects once a user's penalties expired. The account is
// only reinstated when no suspension-level penalty remains active.
func PlanExpiry(userID string, remaining enum.BanState) []Effect {
	if remaining.AtLeast(enum.PenaltyTypeOutrightBan) {
		return nil
	}
	return []Effect{{Kind: EffectLiftSuspension, UserID: userID, Reason: "expired"}}
}
