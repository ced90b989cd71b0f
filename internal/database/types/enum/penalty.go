package enum

// PenaltyType is the enforcement action recorded on a penalty row.
//
//go:generate go tool enumer -type=PenaltyType -trimprefix=PenaltyType -transform=snake-upper -json
type PenaltyType int

const (
	// PenaltyTypeWarning records a warning without enforcement.
	PenaltyTypeWarning PenaltyType = iota
	// PenaltyTypeShadowBan hides the user's content without telling them.
	PenaltyTypeShadowBan
	// PenaltyTypeOutrightBan suspends the account and revokes its sessions.
	PenaltyTypeOutrightBan
	// PenaltyTypeOfficialBan bans and anonymizes the account and deny-lists its identifiers.
	PenaltyTypeOfficialBan
)

// State returns the account state this penalty puts a user in.
func (p PenaltyType) State() BanState {
	switch p {
	case PenaltyTypeWarning:
		return BanStateWarning
	case PenaltyTypeShadowBan:
		return BanStateShadowBan
	case PenaltyTypeOutrightBan:
		return BanStateOutrightBan
	case PenaltyTypeOfficialBan:
		return BanStateOfficialBan
	}
	return BanStateNone
}

// BanState is the account-level state of the penalty state machine.
// States only move forward automatically; Revoke is the only way back to BanStateNone.
//
//go:generate go tool enumer -type=BanState -trimprefix=BanState -transform=snake-upper -json
type BanState int

const (
	// BanStateNone means no active penalty.
	BanStateNone BanState = iota
	// BanStateWarning means the user holds an active warning.
	BanStateWarning
	// BanStateShadowBan means the user's content is hidden.
	BanStateShadowBan
	// BanStateOutrightBan means the account is suspended.
	BanStateOutrightBan
	// BanStateOfficialBan means the account is permanently banned and anonymized.
	BanStateOfficialBan
)

// Apply returns the state after a penalty of the given type. Lower penalties never demote.
func (s BanState) Apply(p PenaltyType) BanState {
	next := p.State()
	if next > s {
		return next
	}
	return s
}

// Revoke returns the state after a manual unban.
func (s BanState) Revoke() BanState {
	return BanStateNone
}

// AtLeast reports whether the state already covers the given penalty type.
func (s BanState) AtLeast(p PenaltyType) bool {
	return s >= p.State()
}
