package types

import (
	"time"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ViolationCounts holds confirmed violation counts per category.
type ViolationCounts struct {
	Religious  int `bun:"religious_count,notnull"   json:"religious"`
	HateSpeech int `bun:"hate_speech_count,notnull" json:"hateSpeech"`
	Harassment int `bun:"harassment_count,notnull"  json:"harassment"`
	Sexual     int `bun:"sexual_count,notnull"      json:"sexual"`
	Spam       int `bun:"spam_count,notnull"        json:"spam"`
	Other      int `bun:"other_count,notnull"       json:"other"`
}

// Add increments the counter for a category.
func (c *ViolationCounts) Add(vt enum.ViolationType) {
	switch vt {
	case enum.ViolationTypeReligious:
		c.Religious++
	case enum.ViolationTypeHateSpeech:
		c.HateSpeech++
	case enum.ViolationTypeHarassment:
		c.Harassment++
	case enum.ViolationTypeSexual:
		c.Sexual++
	case enum.ViolationTypeSpam:
		c.Spam++
	case enum.ViolationTypeOther:
		c.Other++
	}
}

// UserReputation is derived state recomputed from a user's violation and penalty history.
type UserReputation struct {
	bun.BaseModel `bun:"table:user_reputations,alias:ur"`

	UserID               string            `bun:",pk"       json:"userId"`
	OverallScore         int               `bun:",notnull"  json:"overallScore"`
	ViolationScore       int               `bun:",notnull"  json:"violationScore"`
	TotalViolations      int               `bun:",notnull"  json:"totalViolations"`
	Counts               ViolationCounts   `bun:",embed"    json:"perTypeCounts"`
	FalsePositiveCount   int               `bun:",notnull"  json:"falsePositiveCount"`
	ShadowBanCount       int               `bun:",notnull"  json:"shadowBanCount"`
	OutrightBanCount     int               `bun:",notnull"  json:"outrightBanCount"`
	OfficialBanCount     int               `bun:",notnull"  json:"officialBanCount"`
	TrustLevel           enum.TrustLevel   `bun:",notnull"  json:"trustLevel"`
	PriorityTier         enum.PriorityTier `bun:",notnull"  json:"priorityTier"`
	LastViolationAt      *time.Time        `bun:",nullzero" json:"lastViolationAt,omitempty"`
	ConsecutiveCleanDays int               `bun:",notnull"  json:"consecutiveCleanDays"`
}

// DefaultReputation returns the reputation of a user with no history.
func DefaultReputation(userID string) *UserReputation {
	return &UserReputation{
		UserID:       userID,
		OverallScore: 100,
		TrustLevel:   enum.TrustLevelNormal,
		PriorityTier: enum.PriorityTierFree,
	}
}
