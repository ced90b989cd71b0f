package penalty

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// SweepWindow is the rolling window of the auto-escalation sweep.
const SweepWindow = 30 * 24 * time.Hour

// Sweep rule identifiers. They are part of the sweep idempotency key.
const (
	RuleZeroTolerance      = "zero-tolerance"
	RuleOutrightToOfficial = "outright-to-official"
	RuleShadowToOutright   = "shadow-to-outright"
)

// EscalationLevel maps a confirmed violation count to a level between 1 and 3.
// The first violation already starts at level 1.
func EscalationLevel(violations int, thresholds types.EscalationThresholds) int {
	switch {
	case violations >= thresholds.Level3:
		return 3
	case violations >= thresholds.Level2:
		return 2
	default:
		return 1
	}
}

// SelectType picks the penalty for a triggering violation at an escalation level.
func SelectType(v types.ViolationDetail, level int) enum.PenaltyType {
	switch {
	case v.IsZeroTolerance() || v.Severity == enum.SeverityCritical:
		if level >= 3 {
			return enum.PenaltyTypeOfficialBan
		}
		return enum.PenaltyTypeOutrightBan
	case level >= 3:
		return enum.PenaltyTypeOfficialBan
	case level == 2:
		return enum.PenaltyTypeOutrightBan
	default:
		return enum.PenaltyTypeShadowBan
	}
}

// Transition returns the state after applying p to from. A penalty below the current
// state is superseded: it is recorded but changes nothing.
func Transition(from enum.BanState, p enum.PenaltyType) (to enum.BanState, superseded bool, err error) {
	if !from.IsABanState() {
		return from, false, fmt.Errorf("%w: unknown state %d", ErrInvalidTransition, int(from))
	}
	if !p.IsAPenaltyType() {
		return from, false, fmt.Errorf("%w: unknown penalty type %d", ErrInvalidTransition, int(p))
	}

	return from.Apply(p), p.State() < from, nil
}

// CurrentState folds a user's active, non-superseded penalties into an account state.
func CurrentState(penalties []*types.Penalty, now time.Time) enum.BanState {
	state := enum.BanStateNone
	for _, p := range penalties {
		if !p.IsActive || p.Metadata.Superseded || p.IsExpired(now) {
			continue
		}
		state = state.Apply(p.PenaltyType)
	}
	return state
}

// SweepAction is a penalty the auto-escalation sweep wants to apply.
type SweepAction struct {
	Rule     string
	Target   enum.PenaltyType
	AnchorID uuid.UUID
	// Counts at the time of the decision, kept in the penalty metadata.
	ShadowBans   int
	OutrightBans int
}

// IdempotencyKey identifies the penalty this action creates.
func (a SweepAction) IdempotencyKey() string {
	return SweepKey(a.Rule, a.AnchorID)
}

// EvaluateSweep applies the auto-escalation rules to a user's history in the window
// ending at now. A zero-tolerance violation overrides the count rules. Nothing is
// returned when the current state already covers the target.
func EvaluateSweep(
	penalties []*types.Penalty, violations []*types.ViolationRecord, state enum.BanState, now time.Time,
) (SweepAction, bool) {
	since := now.Add(-SweepWindow)

	var (
		shadow, outright []*types.Penalty
		zeroTolerance    *types.ViolationRecord
	)
	for _, p := range penalties {
		if p.Metadata.Superseded || p.StartDate.Before(since) {
			continue
		}
		switch p.PenaltyType {
		case enum.PenaltyTypeShadowBan:
			shadow = append(shadow, p)
		case enum.PenaltyTypeOutrightBan:
			outright = append(outright, p)
		case enum.PenaltyTypeWarning, enum.PenaltyTypeOfficialBan:
		}
	}
	for _, v := range violations {
		if !v.IsConfirmed() || !v.ViolationType.IsZeroTolerance() || v.CreatedAt.Before(since) {
			continue
		}
		if zeroTolerance == nil || v.CreatedAt.After(zeroTolerance.CreatedAt) {
			zeroTolerance = v
		}
	}

	action := SweepAction{ShadowBans: len(shadow), OutrightBans: len(outright)}
	switch {
	case zeroTolerance != nil:
		action.Rule = RuleZeroTolerance
		action.Target = enum.PenaltyTypeOfficialBan
		action.AnchorID = zeroTolerance.ID
	case len(outright) >= 2:
		action.Rule = RuleOutrightToOfficial
		action.Target = enum.PenaltyTypeOfficialBan
		action.AnchorID = latest(outright).ID
	case len(shadow) >= 3 && len(outright) == 0:
		action.Rule = RuleShadowToOutright
		action.Target = enum.PenaltyTypeOutrightBan
		action.AnchorID = latest(shadow).ID
	default:
		return SweepAction{}, false
	}

	if state.AtLeast(action.Target) {
		return SweepAction{}, false
	}
	return action, true
}

func latest(penalties []*types.Penalty) *types.Penalty {
	sorted := append([]*types.Penalty(nil), penalties...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartDate.Equal(sorted[j].StartDate) {
			return sorted[i].ID.String() < sorted[j].ID.String()
		}
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	return sorted[len(sorted)-1]
}

// ViolationKey is the idempotency key of the penalty for a violation record.
func ViolationKey(violationID uuid.UUID) string {
	return "violation:" + violationID.String()
}

// SweepKey is the idempotency key of a sweep penalty.
func SweepKey(rule string, anchorID uuid.UUID) string {
	return "sweep:" + rule + ":" + anchorID.String()
}

// ManualKey is the idempotency key of an operator penalty.
func ManualKey(id uuid.UUID) string {
	return "manual:" + id.String()
}
