package enum

// RecommendedAction is the outcome of a moderation decision.
//
//go:generate go tool enumer -type=RecommendedAction -trimprefix=RecommendedAction -transform=snake-upper -json
type RecommendedAction int

const (
	// RecommendedActionApprove lets the content through.
	RecommendedActionApprove RecommendedAction = iota
	// RecommendedActionReview queues the content for a human.
	RecommendedActionReview
	// RecommendedActionBlock blocks the content and penalizes the author.
	RecommendedActionBlock
)

// ApprovalSpeed describes how quickly a tier's content is expected to be approved.
//
//go:generate go tool enumer -type=ApprovalSpeed -trimprefix=ApprovalSpeed -transform=snake -json
type ApprovalSpeed int

const (
	ApprovalSpeedInstant ApprovalSpeed = iota
	ApprovalSpeedFast
	ApprovalSpeedNormal
	ApprovalSpeedThorough
)

// ModerationLevel describes how strictly a tier is moderated.
//
//go:generate go tool enumer -type=ModerationLevel -trimprefix=ModerationLevel -transform=snake -json
type ModerationLevel int

const (
	ModerationLevelMinimal ModerationLevel = iota
	ModerationLevelLight
	ModerationLevelStandard
	ModerationLevelStrict
)

// HealthStatus is the result of the worker health probe.
//
//go:generate go tool enumer -type=HealthStatus -trimprefix=HealthStatus -transform=snake -json
type HealthStatus int

const (
	// HealthStatusHealthy means every dependency answered and error rates are normal.
	HealthStatusHealthy HealthStatus = iota
	// HealthStatusDegraded means error rate or backlog is above the alert threshold.
	HealthStatusDegraded
	// HealthStatusUnhealthy means the database or redis could not be reached.
	HealthStatusUnhealthy
)
