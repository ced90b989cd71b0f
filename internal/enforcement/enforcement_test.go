package enforcement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/enforcement"
	"github.com/robalyx/warden/internal/penalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	runner *enforcement.Runner
	flags  *enforcement.Flags
	store  *memstore.Store
	mr     *miniredis.Miniredis
}

func setupTest(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	store := memstore.New()
	flags := enforcement.NewFlags(client, zap.NewNop())
	runner := enforcement.NewRunner(store.Account(), store.Content(), flags, zap.NewNop()).
		WithClock(func() time.Time { return now })

	store.Account().Put(&types.Account{
		ID: "u1", Username: "alice", Email: "Alice@Example.com", Status: enum.AccountStatusActive, CreatedAt: now,
	})
	store.Account().PutSession(&types.Session{ID: uuid.New(), UserID: "u1", IPAddress: "198.51.100.4", CreatedAt: now})
	store.Account().PutAPIKey(&types.APIKey{ID: uuid.New(), UserID: "u1", Name: "ci", CreatedAt: now})
	store.Content().Put(&types.ContentItem{
		ID: "a1", ContentType: enum.ContentTypeArticle, AuthorID: "u1", Status: enum.ContentStatusPublished, CreatedAt: now,
	})
	store.Content().Put(&types.ContentItem{
		ID: "a2", ContentType: enum.ContentTypeArticle, AuthorID: "u1", Status: enum.ContentStatusDraft, CreatedAt: now,
	})

	return &fixture{runner: runner, flags: flags, store: store, mr: mr}
}

func officialBan() *types.Penalty {
	return &types.Penalty{
		ID:          uuid.New(),
		UserID:      "u1",
		PenaltyType: enum.PenaltyTypeOfficialBan,
		IsActive:    true,
		StartDate:   now,
		Metadata: types.PenaltyMetadata{
			CapturedIPs:      []string{"198.51.100.4"},
			CapturedEmail:    "Alice@Example.com",
			CapturedUsername: "alice",
		},
	}
}

func TestShadowBanHidesPublishedContent(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	p := &types.Penalty{UserID: "u1", PenaltyType: enum.PenaltyTypeShadowBan, DurationHours: 24}
	require.NoError(t, f.runner.Run(ctx, penalty.Plan(p)))

	assert.Equal(t, enum.ContentStatusHidden, f.store.Content().Find(enum.ContentTypeArticle, "a1").Status)
	assert.Equal(t, enum.ContentStatusDraft, f.store.Content().Find(enum.ContentTypeArticle, "a2").Status)

	banned, err := f.flags.IsShadowBanned(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, banned)
	assert.Equal(t, 24*time.Hour, f.mr.TTL(enforcement.ShadowFlagKey("u1")))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusActive, account.Status)
}

func TestOutrightBanSuspends(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	p := &types.Penalty{UserID: "u1", PenaltyType: enum.PenaltyTypeOutrightBan, DurationHours: 168}
	require.NoError(t, f.runner.Run(ctx, penalty.Plan(p)))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusSuspended, account.Status)
	assert.Equal(t, 0, f.store.Account().OpenSessions("u1"))
	assert.Equal(t, 1, f.store.Account().OpenAPIKeys("u1"))
	assert.Equal(t, enum.ContentStatusHidden, f.store.Content().Find(enum.ContentTypeArticle, "a2").Status)

	banned, err := f.flags.IsBanned(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestOfficialBanDenyListsAndAnonymizes(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	require.NoError(t, f.runner.Run(ctx, penalty.Plan(officialBan())))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusBanned, account.Status)
	assert.Equal(t, enforcement.AnonymizedUsername("u1"), account.Username)
	assert.Equal(t, enforcement.AnonymizedEmail("u1"), account.Email)
	assert.Equal(t, 0, f.store.Account().OpenAPIKeys("u1"))

	ipBanned, err := f.flags.IsIPBanned(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.True(t, ipBanned)

	emailBanned, err := f.flags.IsEmailBanned(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, emailBanned)
	assert.True(t, f.mr.Exists(enforcement.DeniedEmailKey("alice@example.com")))
	assert.Equal(t, time.Duration(0), f.mr.TTL(enforcement.DeniedEmailKey("alice@example.com")))

	emailBanned, err = f.flags.IsEmailBanned(ctx, "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.True(t, emailBanned)
	for _, key := range f.mr.Keys() {
		assert.NotContains(t, key, "alice@example.com")
	}

	entry, err := f.flags.DeniedIP(ctx, "198.51.100.4")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "alice", entry.Username)
	assert.Equal(t, now, entry.BannedAt)

	otherIP, err := f.flags.IsIPBanned(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, otherIP)
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	effects := penalty.Plan(officialBan())
	require.NoError(t, f.runner.Run(ctx, effects))
	require.NoError(t, f.runner.Run(ctx, effects))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusBanned, account.Status)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()
	f.store.Fail("Account.RevokeSessions", errors.New("connection reset"))

	p := &types.Penalty{UserID: "u1", PenaltyType: enum.PenaltyTypeOutrightBan}
	err := f.runner.Run(ctx, penalty.Plan(p))
	require.ErrorIs(t, err, enforcement.ErrEnforcement)
	assert.Contains(t, err.Error(), "revoke_sessions")

	banned, err := f.flags.IsBanned(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestRevokeKeepsDenyList(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	require.NoError(t, f.runner.Run(ctx, penalty.Plan(officialBan())))
	require.NoError(t, f.runner.Run(ctx, penalty.PlanRevoke("u1")))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusActive, account.Status)

	banned, err := f.flags.IsBanned(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, banned)

	ipBanned, err := f.flags.IsIPBanned(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.True(t, ipBanned)
}

func TestLiftSuspensionOnlyTouchesSuspended(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	require.NoError(t, f.store.Account().SetStatus(ctx, "u1", enum.AccountStatusBanned))
	require.NoError(t, f.runner.Run(ctx, penalty.PlanExpiry("u1", enum.BanStateNone)))

	account, err := f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusBanned, account.Status)

	require.NoError(t, f.store.Account().SetStatus(ctx, "u1", enum.AccountStatusSuspended))
	require.NoError(t, f.runner.Run(ctx, penalty.PlanExpiry("u1", enum.BanStateShadowBan)))

	account, err = f.store.Account().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.AccountStatusActive, account.Status)
}

func TestMissingAccountIsIgnored(t *testing.T) {
	t.Parallel()

	f := setupTest(t)

	p := &types.Penalty{UserID: "ghost", PenaltyType: enum.PenaltyTypeOutrightBan}
	require.NoError(t, f.runner.Run(context.Background(), penalty.Plan(p)))
}
