package tier_test

import (
	"testing"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/tier"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func account(role enum.Role, plan enum.SubscriptionTier, active bool, ageDays int) *types.Account {
	return &types.Account{
		ID:                 "u1",
		Role:               role,
		Subscription:       plan,
		SubscriptionActive: active,
		CreatedAt:          now.Add(-time.Duration(ageDays) * 24 * time.Hour),
	}
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		account     *types.Account
		trust       enum.TrustLevel
		wantTier    enum.PriorityTier
		wantScore   int
		wantBoost   int
		autoApprove bool
	}{
		{
			name:        "super admin wins over subscription",
			account:     account(enum.RoleSuperAdmin, enum.SubscriptionTierGold, true, 1),
			trust:       enum.TrustLevelUntrusted,
			wantTier:    enum.PriorityTierSuperAdmin,
			wantScore:   100,
			wantBoost:   50,
			autoApprove: true,
		},
		{
			name:        "content admin",
			account:     account(enum.RoleContentAdmin, enum.SubscriptionTierFree, false, 1),
			wantTier:    enum.PriorityTierAdmin,
			wantScore:   85,
			wantBoost:   30,
			autoApprove: true,
		},
		{
			name:      "platinum",
			account:   account(enum.RoleUser, enum.SubscriptionTierPlatinum, true, 1),
			wantTier:  enum.PriorityTierPremium,
			wantScore: 80,
			wantBoost: 25,
		},
		{
			name:      "bronze",
			account:   account(enum.RoleUser, enum.SubscriptionTierBronze, true, 1),
			wantTier:  enum.PriorityTierPremium,
			wantScore: 65,
			wantBoost: 15,
		},
		{
			name:      "inactive subscription falls back to age",
			account:   account(enum.RoleUser, enum.SubscriptionTierGold, false, 400),
			wantTier:  enum.PriorityTierFree,
			wantScore: 55,
			wantBoost: 10,
		},
		{
			name:      "new free account",
			account:   account(enum.RoleUser, enum.SubscriptionTierFree, false, 2),
			wantTier:  enum.PriorityTierFree,
			wantScore: 30,
			wantBoost: 0,
		},
		{
			name:      "ninety day free account with high trust",
			account:   account(enum.RoleUser, enum.SubscriptionTierFree, false, 90),
			trust:     enum.TrustLevelHigh,
			wantTier:  enum.PriorityTierFree,
			wantScore: 55,
			wantBoost: 10,
		},
		{
			name:      "old free account with low trust loses boost",
			account:   account(enum.RoleUser, enum.SubscriptionTierFree, false, 200),
			trust:     enum.TrustLevelLow,
			wantTier:  enum.PriorityTierFree,
			wantScore: 40,
			wantBoost: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := tier.Calculate(tt.account, tt.trust, now)
			assert.Equal(t, tt.wantTier, info.Tier)
			assert.Equal(t, tt.wantTier.String(), info.Name)
			assert.Equal(t, tt.wantScore, info.PriorityScore)
			assert.Equal(t, tt.wantBoost, info.VisibilityBoost)
			assert.Equal(t, tt.autoApprove, info.AutoApprove)
		})
	}
}

func TestApprovesDespite(t *testing.T) {
	t.Parallel()

	admin := tier.Calculate(account(enum.RoleTechAdmin, enum.SubscriptionTierFree, false, 10), enum.TrustLevelNormal, now)
	free := tier.Calculate(account(enum.RoleUser, enum.SubscriptionTierFree, false, 10), enum.TrustLevelNormal, now)

	high := []types.ViolationDetail{{Type: enum.ViolationTypeHarassment, Severity: enum.SeverityHigh, Confidence: 0.88}}
	critical := []types.ViolationDetail{{Type: enum.ViolationTypeSexual, Severity: enum.SeverityCritical, Confidence: 0.95}}
	religious := []types.ViolationDetail{{Type: enum.ViolationTypeReligious, Severity: enum.SeverityCritical, Confidence: 1}}

	assert.True(t, admin.ApprovesDespite(high))
	assert.False(t, admin.ApprovesDespite(critical))
	assert.False(t, admin.ApprovesDespite(religious))
	assert.False(t, free.ApprovesDespite(high))
}

func TestEstimatedApprovalAndVisibility(t *testing.T) {
	t.Parallel()

	super := tier.Calculate(account(enum.RoleSuperAdmin, enum.SubscriptionTierFree, false, 0), enum.TrustLevelNormal, now)
	assert.Zero(t, super.EstimatedApproval())
	assert.Equal(t, 100, super.VisibilityRanking(60))

	free := tier.Calculate(account(enum.RoleUser, enum.SubscriptionTierFree, false, 40), enum.TrustLevelNormal, now)
	assert.Equal(t, 2*time.Hour, free.EstimatedApproval())
	assert.Equal(t, 63, free.VisibilityRanking(60))
}
