package enum

// ViolationType identifies the policy category a detection belongs to.
//
//go:generate go tool enumer -type=ViolationType -trimprefix=ViolationType -transform=snake -json
type ViolationType int

const (
	// ViolationTypeReligious covers hard-coded religious terms. It is a zero-tolerance category.
	ViolationTypeReligious ViolationType = iota
	// ViolationTypeHateSpeech covers slurs and identity attacks.
	ViolationTypeHateSpeech
	// ViolationTypeHarassment covers insults, threats and profanity aimed at others.
	ViolationTypeHarassment
	// ViolationTypeSexual covers sexually explicit content.
	ViolationTypeSexual
	// ViolationTypeSpam covers promotional and repetitive content.
	ViolationTypeSpam
	// ViolationTypeOther is used for manual penalties that are not tied to a detector.
	ViolationTypeOther
)

// IsZeroTolerance reports whether any match of this category is treated as certain.
func (v ViolationType) IsZeroTolerance() bool {
	return v == ViolationTypeReligious
}

// DetectionOrder lists the categories in the order the classifier evaluates them.
// Earlier categories win ties when picking the violation that drives a penalty.
func DetectionOrder() []ViolationType {
	return []ViolationType{
		ViolationTypeReligious,
		ViolationTypeHateSpeech,
		ViolationTypeHarassment,
		ViolationTypeSexual,
		ViolationTypeSpam,
	}
}

// Severity is the bucketed strength of a detection.
//
//go:generate go tool enumer -type=Severity -trimprefix=Severity -transform=snake -json
type Severity int

const (
	// SeverityLow is a score below 0.5.
	SeverityLow Severity = iota
	// SeverityMedium is a score below 0.75.
	SeverityMedium
	// SeverityHigh is a score below 0.9.
	SeverityHigh
	// SeverityCritical is a score of 0.9 or above.
	SeverityCritical
)

// Rank returns the 1-based weight used by the priority calculation (low=1 .. critical=4).
func (s Severity) Rank() int {
	return int(s) + 1
}

// SeverityFromScore buckets a classifier score.
func SeverityFromScore(score float64) Severity {
	switch {
	case score < 0.5:
		return SeverityLow
	case score < 0.75:
		return SeverityMedium
	case score < 0.9:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// ViolationStatus tracks the review state of a violation record.
//
//go:generate go tool enumer -type=ViolationStatus -trimprefix=ViolationStatus -transform=snake-upper -json
type ViolationStatus int

const (
	// ViolationStatusPending means the record awaits human review.
	ViolationStatusPending ViolationStatus = iota
	// ViolationStatusConfirmed means the record was blocked automatically or confirmed by a reviewer.
	ViolationStatusConfirmed
	// ViolationStatusFalsePositive means a reviewer corrected the detection.
	ViolationStatusFalsePositive
)

// CanTransitionTo reports whether a record in this status may move to next.
// Confirmed records only accept a false-positive correction and false positives are final.
func (s ViolationStatus) CanTransitionTo(next ViolationStatus) bool {
	switch s {
	case ViolationStatusPending:
		return next == ViolationStatusConfirmed || next == ViolationStatusFalsePositive
	case ViolationStatusConfirmed:
		return next == ViolationStatusFalsePositive
	case ViolationStatusFalsePositive:
		return false
	}
	return false
}
