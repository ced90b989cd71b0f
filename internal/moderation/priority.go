package moderation

import (
	"math"
	"slices"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// Priority scores how urgently a decision needs attention, from 0 to 100.
// Additive terms are applied first, then the zero-tolerance override, then the clamp.
func Priority(violations []types.ViolationDetail, rep *types.UserReputation) int {
	if len(violations) == 0 {
		return 0
	}

	maxRank := 0
	for _, v := range violations {
		maxRank = max(maxRank, v.Severity.Rank())
	}

	priority := 50.0
	priority += 10 * float64(maxRank)
	priority += 20 * MeanConfidence(violations)

	if rep != nil {
		switch rep.TrustLevel {
		case enum.TrustLevelUntrusted:
			priority += 20
		case enum.TrustLevelLow:
			priority += 10
		case enum.TrustLevelHigh:
			priority -= 10
		case enum.TrustLevelNormal:
		}
		if rep.ViolationScore > 50 {
			priority += 15
		}
	}

	if slices.ContainsFunc(violations, types.ViolationDetail.IsZeroTolerance) {
		priority = 100
	}

	return int(math.Round(math.Min(math.Max(priority, 0), 100)))
}

// MeanConfidence averages the confidence of violations.
func MeanConfidence(violations []types.ViolationDetail) float64 {
	if len(violations) == 0 {
		return 0
	}
	var sum float64
	for _, v := range violations {
		sum += v.Confidence
	}
	return sum / float64(len(violations))
}

// ShouldBlock reports whether violations block the content outright.
func ShouldBlock(violations []types.ViolationDetail) bool {
	for _, v := range violations {
		switch {
		case v.IsZeroTolerance():
			return true
		case v.Severity == enum.SeverityCritical && v.Confidence > 0.8:
			return true
		case v.Severity == enum.SeverityHigh && v.Confidence > 0.85:
			return true
		}
	}
	return false
}

// Recommend maps a block flag and mean confidence to an action.
func Recommend(block bool, confidence float64) enum.RecommendedAction {
	switch {
	case block:
		return enum.RecommendedActionBlock
	case confidence > 0.6:
		return enum.RecommendedActionReview
	default:
		return enum.RecommendedActionApprove
	}
}

// Top returns the violation that drives a penalty: highest severity, then highest
// confidence, then earliest in detection order.
func Top(violations []types.ViolationDetail) (types.ViolationDetail, bool) {
	if len(violations) == 0 {
		return types.ViolationDetail{}, false
	}

	order := enum.DetectionOrder()
	best := violations[0]
	for _, v := range violations[1:] {
		switch {
		case v.Severity != best.Severity:
			if v.Severity > best.Severity {
				best = v
			}
		case v.Confidence != best.Confidence:
			if v.Confidence > best.Confidence {
				best = v
			}
		case slices.Index(order, v.Type) < slices.Index(order, best.Type):
			best = v
		}
	}
	return best, true
}

// AutoPenaltyFor maps the severity of the top violation to the penalty the worker may
// apply on its own. Low severity maps to nothing.
func AutoPenaltyFor(severity enum.Severity) (enum.PenaltyType, bool) {
	switch severity {
	case enum.SeverityCritical:
		return enum.PenaltyTypeOfficialBan, true
	case enum.SeverityHigh:
		return enum.PenaltyTypeOutrightBan, true
	case enum.SeverityMedium:
		return enum.PenaltyTypeShadowBan, true
	case enum.SeverityLow:
	}
	return enum.PenaltyTypeWarning, false
}
