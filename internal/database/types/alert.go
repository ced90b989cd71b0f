package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ModerationAlert is a persisted alert shown on moderation dashboards.
type ModerationAlert struct {
	bun.BaseModel `bun:"table:moderation_alerts,alias:ma"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Type      enum.EventType `bun:",notnull"      json:"type"`
	Severity  enum.Severity  `bun:",notnull"      json:"severity"`
	Title     string         `bun:",notnull"      json:"title"`
	Message   string         `bun:",notnull"      json:"message"`
	UserID    string         `bun:",nullzero"     json:"userId,omitempty"`
	Data      map[string]any `bun:",type:jsonb"   json:"data,omitempty"`
	CreatedAt time.Time      `bun:",notnull"      json:"createdAt"`
}
