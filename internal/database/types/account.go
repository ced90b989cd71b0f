package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// Account is a platform user as seen by the moderation engine.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID                 string                `bun:",pk"       json:"id"`
	Username           string                `bun:",notnull"  json:"username"`
	Email              string                `bun:",notnull"  json:"email"`
	Role               enum.Role             `bun:",notnull"  json:"role"`
	Status             enum.AccountStatus    `bun:",notnull"  json:"status"`
	Subscription       enum.SubscriptionTier `bun:",notnull"  json:"subscription"`
	SubscriptionActive bool                  `bun:",notnull"  json:"subscriptionActive"`
	CreatedAt          time.Time             `bun:",notnull"  json:"createdAt"`
	UpdatedAt          time.Time             `bun:",notnull"  json:"updatedAt"`
}

// HasPaidSubscription reports whether the account holds an active non-free plan.
func (a *Account) HasPaidSubscription() bool {
	return a.SubscriptionActive && a.Subscription != enum.SubscriptionTierFree
}

// Session is a login session of an account.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID           uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	UserID       string     `bun:",notnull"      json:"userId"`
	IPAddress    string     `bun:",notnull"      json:"ipAddress"`
	RefreshToken string     `bun:",nullzero"     json:"-"`
	CreatedAt    time.Time  `bun:",notnull"      json:"createdAt"`
	RevokedAt    *time.Time `bun:",nullzero"     json:"revokedAt,omitempty"`
}

// APIKey is a programmatic credential of an account.
type APIKey struct {
	bun.BaseModel `bun:"table:api_keys,alias:k"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	UserID    string     `bun:",notnull"      json:"userId"`
	Name      string     `bun:",notnull"      json:"name"`
	CreatedAt time.Time  `bun:",notnull"      json:"createdAt"`
	RevokedAt *time.Time `bun:",nullzero"     json:"revokedAt,omitempty"`
}
