package types

import (
	"time"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ContentItem is a piece of user-generated content awaiting or past moderation.
type ContentItem struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID          string             `bun:",pk"       json:"id"`
	ContentType enum.ContentType   `bun:",pk"       json:"contentType"`
	AuthorID    string             `bun:",notnull"  json:"authorId"`
	Title       string             `bun:",notnull"  json:"title"`
	Body        string             `bun:",notnull"  json:"body"`
	Status      enum.ContentStatus `bun:",notnull"  json:"status"`
	CreatedAt   time.Time          `bun:",notnull"  json:"createdAt"`
	ModeratedAt *time.Time         `bun:",nullzero" json:"moderatedAt,omitempty"`
}

// Text returns the text the classifier evaluates.
func (c *ContentItem) Text() string {
	if c.Title == "" {
		return c.Body
	}
	return c.Title + "\n" + c.Body
}

// LeaseKey returns the processing lease key of the item.
func (c *ContentItem) LeaseKey() string {
	return "processing:" + c.ContentType.String() + ":" + c.ID
}
