package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ViolationDetail is a single detection produced by the classifier.
type ViolationDetail struct {
	Type       enum.ViolationType `json:"type"`
	Severity   enum.Severity      `json:"severity"`
	Confidence float64            `json:"confidence"`
	Patterns   []string           `json:"patterns"`
	Keywords   []string           `json:"keywords"`
}

// IsZeroTolerance reports whether the detection belongs to a zero-tolerance category.
func (v ViolationDetail) IsZeroTolerance() bool {
	return v.Type.IsZeroTolerance()
}

// ViolationRecord is the persisted result of a decision that found at least one violation.
// One record exists per content item.
type ViolationRecord struct {
	bun.BaseModel `bun:"table:violation_records,alias:vr"`

	ID               uuid.UUID            `bun:",pk,type:uuid"         json:"id"`
	UserID           string               `bun:",notnull"              json:"userId"`
	ContentID        string               `bun:",notnull"              json:"contentId"`
	ContentType      enum.ContentType     `bun:",notnull"              json:"contentType"`
	ViolationType    enum.ViolationType   `bun:",notnull"              json:"violationType"`
	Severity         enum.Severity        `bun:",notnull"              json:"severity"`
	Confidence       float64              `bun:",notnull"              json:"confidence"`
	Priority         int                  `bun:",notnull"              json:"priority"`
	DetectedPatterns []string             `bun:",array"                json:"detectedPatterns"`
	Keywords         []string             `bun:",array"                json:"keywords"`
	Status           enum.ViolationStatus `bun:",notnull"              json:"status"`
	CreatedAt        time.Time            `bun:",notnull"              json:"createdAt"`
	ReviewedBy       string               `bun:",nullzero"             json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time           `bun:",nullzero"             json:"reviewedAt,omitempty"`
}

// IsConfirmed reports whether the record counts toward the user's reputation.
func (r *ViolationRecord) IsConfirmed() bool {
	return r.Status == enum.ViolationStatusConfirmed
}
