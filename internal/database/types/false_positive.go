package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// FalsePositiveRecord is an immutable human correction of a detection.
type FalsePositiveRecord struct {
	bun.BaseModel `bun:"table:false_positive_records,alias:fp"`

	ID                    uuid.UUID          `bun:",pk,type:uuid"       json:"id"`
	ViolationRecordID     uuid.UUID          `bun:",notnull,unique,type:uuid" json:"violationRecordId"`
	UserID                string             `bun:",notnull"            json:"userId"`
	CorrectedBy           string             `bun:",notnull"            json:"correctedBy"`
	Reason                string             `bun:",nullzero"           json:"reason,omitempty"`
	OriginalViolationType enum.ViolationType `bun:",notnull"            json:"originalViolationType"`
	OriginalConfidence    float64            `bun:",notnull"            json:"originalConfidence"`
	Patterns              []string           `bun:",array"              json:"patterns"`
	Keywords              []string           `bun:",array"              json:"keywords"`
	CreatedAt             time.Time          `bun:",notnull"            json:"createdAt"`
}
