package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// PenaltyMetadata holds the context a penalty was created with.
type PenaltyMetadata struct {
	Reason            string             `json:"reason,omitempty"`
	AppliedBy         string             `json:"appliedBy,omitempty"`
	ViolationType     enum.ViolationType `json:"violationType"`
	Severity          enum.Severity      `json:"severity"`
	Confidence        float64            `json:"confidence,omitempty"`
	Rule              string             `json:"rule,omitempty"`
	ShadowBanCount    int                `json:"shadowBanCount,omitempty"`
	OutrightBanCount  int                `json:"outrightBanCount,omitempty"`
	PreviousState     enum.BanState      `json:"previousState"`
	Superseded        bool               `json:"superseded,omitempty"`
	CapturedIPs       []string           `json:"capturedIps,omitempty"`
	CapturedEmail     string             `json:"capturedEmail,omitempty"`
	CapturedUsername  string             `json:"capturedUsername,omitempty"`
	EnforcementErrors int                `json:"enforcementErrors,omitempty"`
}

// Penalty is an append-only record of an enforcement decision.
// Rows are deactivated on expiry or revoke, never deleted.
type Penalty struct {
	bun.BaseModel `bun:"table:penalties,alias:p"`

	ID                uuid.UUID        `bun:",pk,type:uuid"     json:"id"`
	UserID            string           `bun:",notnull"          json:"userId"`
	ViolationRecordID *uuid.UUID       `bun:",type:uuid"        json:"violationRecordId,omitempty"`
	IdempotencyKey    string           `bun:",notnull,unique"   json:"idempotencyKey"`
	PenaltyType       enum.PenaltyType `bun:",notnull"          json:"penaltyType"`
	EscalationLevel   int              `bun:",notnull"          json:"escalationLevel"`
	DurationHours     int              `bun:",notnull"          json:"durationHours"` // 0 means permanent
	IsAutomatic       bool             `bun:",notnull"          json:"isAutomatic"`
	IsActive          bool             `bun:",notnull"          json:"isActive"`
	StartDate         time.Time        `bun:",notnull"          json:"startDate"`
	EndDate           *time.Time       `bun:",nullzero"         json:"endDate,omitempty"`
	EnforcedAt        *time.Time       `bun:",nullzero"         json:"enforcedAt,omitempty"`
	Metadata          PenaltyMetadata  `bun:",type:jsonb"       json:"metadata"`
	CreatedAt         time.Time        `bun:",notnull"          json:"createdAt"`
}

// IsPermanent checks if the penalty never expires.
func (p *Penalty) IsPermanent() bool {
	return p.EndDate == nil
}

// IsExpired checks if the penalty has passed its end date.
func (p *Penalty) IsExpired(now time.Time) bool {
	return p.EndDate != nil && !now.Before(*p.EndDate)
}

// Duration returns the penalty length, or zero when permanent.
func (p *Penalty) Duration() time.Duration {
	return time.Duration(p.DurationHours) * time.Hour
}
