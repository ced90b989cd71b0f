package enum

// EventType identifies a notification published for dashboards.
//
//go:generate go tool enumer -type=EventType -trimprefix=EventType -transform=snake-upper -json
type EventType int

const (
	// EventTypeViolationDetected is published for every persisted violation record.
	EventTypeViolationDetected EventType = iota
	// EventTypePenaltyApplied is published when a penalty row is written.
	EventTypePenaltyApplied
	// EventTypePenaltyEscalated is published when the sweep escalates a user.
	EventTypePenaltyEscalated
	// EventTypePenaltyExpired is published when an outright or official ban expires.
	EventTypePenaltyExpired
	// EventTypePenaltyRevoked is published when an operator revokes penalties.
	EventTypePenaltyRevoked
	// EventTypeFalsePositiveRecorded is published for every correction.
	EventTypeFalsePositiveRecorded
	// EventTypeSettingsUpdated is published when moderation settings change.
	EventTypeSettingsUpdated
	// EventTypeAutoPenaltyApplied is an alert for a penalty applied by the worker.
	EventTypeAutoPenaltyApplied
	// EventTypeManualReviewRequired is an alert for a violation that needs a reviewer.
	EventTypeManualReviewRequired
	// EventTypeSystemHealthChanged is published when the health probe result changes.
	EventTypeSystemHealthChanged
	// EventTypeSystemCritical is an alert for an unhealthy worker.
	EventTypeSystemCritical
	// EventTypeMetricsUpdated is published after each content scan.
	EventTypeMetricsUpdated
)
