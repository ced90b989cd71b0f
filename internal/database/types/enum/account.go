package enum

// AccountStatus is the status of a user account.
//
//go:generate go tool enumer -type=AccountStatus -trimprefix=AccountStatus -transform=snake-upper -json
type AccountStatus int

const (
	// AccountStatusActive is a normal account.
	AccountStatusActive AccountStatus = iota
	// AccountStatusSuspended is an account under an outright ban.
	AccountStatusSuspended
	// AccountStatusBanned is an account under an official ban.
	AccountStatusBanned
)

// Role is the platform role of a user.
//
//go:generate go tool enumer -type=Role -trimprefix=Role -transform=snake-upper -json
type Role int

const (
	RoleUser Role = iota
	RoleContentAdmin
	RoleMarketingAdmin
	RoleTechAdmin
	RoleSuperAdmin
)

// IsAdmin reports whether the role is one of the tier 2 admin roles.
func (r Role) IsAdmin() bool {
	return r == RoleContentAdmin || r == RoleMarketingAdmin || r == RoleTechAdmin
}

// SubscriptionTier is the paid plan of a user.
//
//go:generate go tool enumer -type=SubscriptionTier -trimprefix=SubscriptionTier -transform=snake-upper -json
type SubscriptionTier int

const (
	SubscriptionTierFree SubscriptionTier = iota
	SubscriptionTierBronze
	SubscriptionTierSilver
	SubscriptionTierGold
	SubscriptionTierPlatinum
)

// ContentType identifies the kind of user-generated content.
//
//go:generate go tool enumer -type=ContentType -trimprefix=ContentType -transform=snake -json
type ContentType int

const (
	ContentTypeArticle ContentType = iota
	ContentTypeComment
	ContentTypePost
	ContentTypeMessage
)

// ContentStatus is the visibility status of a content item.
//
//go:generate go tool enumer -type=ContentStatus -trimprefix=ContentStatus -transform=snake-upper -json
type ContentStatus int

const (
	// ContentStatusPublished is visible to everyone.
	ContentStatusPublished ContentStatus = iota
	// ContentStatusDraft is only visible to the author.
	ContentStatusDraft
	// ContentStatusHidden was hidden by enforcement.
	ContentStatusHidden
)
