package enum

// TrustLevel summarizes how much a user's history is trusted.
// The lower-case string form is canonical; parsing accepts any casing.
//
//go:generate go tool enumer -type=TrustLevel -trimprefix=TrustLevel -transform=snake -json
type TrustLevel int

const (
	// TrustLevelNormal is the default level.
	TrustLevelNormal TrustLevel = iota
	// TrustLevelHigh is for users with a clean history.
	TrustLevelHigh
	// TrustLevelLow is for users with a notable violation history or an outright ban.
	TrustLevelLow
	// TrustLevelUntrusted is for users with a severe history or an official ban.
	TrustLevelUntrusted
)

// PriorityTier classifies users by role and subscription.
//
//go:generate go tool enumer -type=PriorityTier -trimprefix=PriorityTier -transform=snake-upper -json
type PriorityTier int

const (
	// PriorityTierFree is tier 4, scored by account age.
	PriorityTierFree PriorityTier = iota
	// PriorityTierPremium is tier 3, scored by subscription plan.
	PriorityTierPremium
	// PriorityTierAdmin is tier 2 for content, marketing and tech admins.
	PriorityTierAdmin
	// PriorityTierSuperAdmin is tier 1.
	PriorityTierSuperAdmin
)

// Number returns the 1-based tier number where 1 is the most privileged.
func (t PriorityTier) Number() int {
	switch t {
	case PriorityTierSuperAdmin:
		return 1
	case PriorityTierAdmin:
		return 2
	case PriorityTierPremium:
		return 3
	case PriorityTierFree:
		return 4
	}
	return 4
}
