// Package tier classifies users into priority tiers by role, subscription and account age.
package tier

import (
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// Info describes how a user's content is moderated and surfaced.
type Info struct {
	Tier            enum.PriorityTier    `json:"tier"`
	Name            string               `json:"name"`
	PriorityScore   int                  `json:"priorityScore"`
	ApprovalSpeed   enum.ApprovalSpeed   `json:"approvalSpeed"`
	ModerationLevel enum.ModerationLevel `json:"moderationLevel"`
	VisibilityBoost int                  `json:"visibilityBoost"`
	AutoApprove     bool                 `json:"autoApprove"`
}

type planScore struct {
	priority int
	boost    int
}

var planScores = map[enum.SubscriptionTier]planScore{
	enum.SubscriptionTierPlatinum: {priority: 80, boost: 25},
	enum.SubscriptionTierGold:     {priority: 75, boost: 22},
	enum.SubscriptionTierSilver:   {priority: 70, boost: 18},
	enum.SubscriptionTierBronze:   {priority: 65, boost: 15},
}

// ageBuckets are checked in order; the first bucket the account reaches wins.
var ageBuckets = []struct {
	days     int
	priority int
	boost    int
}{
	{days: 365, priority: 55, boost: 10},
	{days: 180, priority: 50, boost: 8},
	{days: 90, priority: 45, boost: 5},
	{days: 30, priority: 40, boost: 3},
	{days: 7, priority: 35, boost: 1},
}

const (
	baselinePriority = 30
	trustAdjustment  = 10
	highTrustBoost   = 5
)

// Calculate maps an account to its tier. The first matching rule wins:
// super admin, admin roles, active paid plan, then account age.
func Calculate(account *types.Account, trust enum.TrustLevel, now time.Time) Info {
	switch {
	case account.Role == enum.RoleSuperAdmin:
		return Info{
			Tier:            enum.PriorityTierSuperAdmin,
			PriorityScore:   100,
			ApprovalSpeed:   enum.ApprovalSpeedInstant,
			ModerationLevel: enum.ModerationLevelMinimal,
			VisibilityBoost: 50,
			AutoApprove:     true,
		}.named()

	case account.Role.IsAdmin():
		return Info{
			Tier:            enum.PriorityTierAdmin,
			PriorityScore:   85,
			ApprovalSpeed:   enum.ApprovalSpeedFast,
			ModerationLevel: enum.ModerationLevelLight,
			VisibilityBoost: 30,
			AutoApprove:     true,
		}.named()

	case account.HasPaidSubscription():
		score, ok := planScores[account.Subscription]
		if !ok {
			score = planScore{priority: 70, boost: 20}
		}
		return Info{
			Tier:            enum.PriorityTierPremium,
			PriorityScore:   score.priority,
			ApprovalSpeed:   enum.ApprovalSpeedNormal,
			ModerationLevel: enum.ModerationLevelStandard,
			VisibilityBoost: score.boost,
		}.named()
	}

	info := Info{
		Tier:            enum.PriorityTierFree,
		PriorityScore:   baselinePriority,
		ApprovalSpeed:   enum.ApprovalSpeedThorough,
		ModerationLevel: enum.ModerationLevelStrict,
	}

	ageDays := int(now.Sub(account.CreatedAt).Hours() / 24)
	for _, bucket := range ageBuckets {
		if ageDays >= bucket.days {
			info.PriorityScore = bucket.priority
			info.VisibilityBoost = bucket.boost
			break
		}
	}

	switch trust {
	case enum.TrustLevelHigh:
		info.PriorityScore += trustAdjustment
		info.VisibilityBoost += highTrustBoost
	case enum.TrustLevelLow, enum.TrustLevelUntrusted:
		info.PriorityScore -= trustAdjustment
		info.VisibilityBoost = 0
	case enum.TrustLevelNormal:
	}

	return info.named()
}

func (i Info) named() Info {
	i.Name = i.Tier.String()
	return i
}

// ApprovesDespite reports whether the tier auto-approves content with the given violations.
// Zero-tolerance and critical detections always go through the standard rules.
func (i Info) ApprovesDespite(violations []types.ViolationDetail) bool {
	if !i.AutoApprove {
		return false
	}
	for _, v := range violations {
		if v.IsZeroTolerance() || v.Severity == enum.SeverityCritical {
			return false
		}
	}
	return true
}

// EstimatedApproval returns how long content of this tier usually waits for approval.
func (i Info) EstimatedApproval() time.Duration {
	switch i.ApprovalSpeed {
	case enum.ApprovalSpeedInstant:
		return 0
	case enum.ApprovalSpeedFast:
		return 5 * time.Minute
	case enum.ApprovalSpeedNormal:
		return 30 * time.Minute
	case enum.ApprovalSpeedThorough:
		return 2 * time.Hour
	}
	return time.Hour
}

// VisibilityRanking adds the tier boost to an engagement score, capped at 100.
func (i Info) VisibilityRanking(base int) int {
	return min(base+i.VisibilityBoost, 100)
}
