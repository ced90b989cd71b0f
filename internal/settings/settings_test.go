package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/settings"
	"github.com/robalyx/warden/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDefaults() *config.Moderation {
	return &config.Moderation{
		HateSpeechThreshold:       0.8,
		HarassmentThreshold:       0.8,
		SexualThreshold:           0.8,
		SpamThreshold:             0.7,
		AutoShadowBan:             true,
		AutoOutrightBan:           true,
		BackgroundMonitoring:      true,
		Level1Threshold:           3,
		Level2Threshold:           5,
		Level3Threshold:           10,
		ShadowBanHours:            24,
		OutrightBanHours:          168,
		MonitoringIntervalMinutes: 5,
		AutoApplyMinPriority:      70,
	}
}

func setup(t *testing.T) (*settings.Provider, *memstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	store := memstore.New()
	provider := settings.NewProvider(store.Setting(), client, settings.Defaults(testDefaults()), zap.NewNop())
	return provider, store, mr
}

func TestGetSeedsDefaults(t *testing.T) {
	t.Parallel()

	provider, store, mr := setup(t)
	ctx := context.Background()

	s, err := provider.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, s.Thresholds.Spam, 1e-9)
	assert.Equal(t, 24, s.Durations.HoursFor(enum.PenaltyTypeShadowBan))
	assert.Equal(t, 0, s.Durations.HoursFor(enum.PenaltyTypeOfficialBan))
	assert.Nil(t, s.Durations.OfficialBanHours)
	assert.Equal(t, 1, store.Setting().Saves())
	assert.True(t, mr.Exists(settings.CacheKey))

	// Second read is served from cache.
	_, err = provider.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Setting().Saves())
}

func TestUpdateInvalidatesCache(t *testing.T) {
	t.Parallel()

	provider, _, mr := setup(t)
	ctx := context.Background()

	_, err := provider.Get(ctx)
	require.NoError(t, err)

	updated, err := provider.SetThreshold(ctx, enum.ViolationTypeSpam, 0.75)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.False(t, mr.Exists(settings.CacheKey))

	s, err := provider.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, s.Thresholds.Spam, 1e-9)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  func(p *settings.Provider) error
	}{
		{
			name: "threshold above one",
			run: func(p *settings.Provider) error {
				_, err := p.SetThreshold(context.Background(), enum.ViolationTypeSexual, 1.2)
				return err
			},
		},
		{
			name: "negative threshold",
			run: func(p *settings.Provider) error {
				_, err := p.SetThreshold(context.Background(), enum.ViolationTypeHarassment, -0.1)
				return err
			},
		},
		{
			name: "threshold for zero-tolerance category",
			run: func(p *settings.Provider) error {
				_, err := p.SetThreshold(context.Background(), enum.ViolationTypeReligious, 0.5)
				return err
			},
		},
		{
			name: "interval below one",
			run: func(p *settings.Provider) error {
				_, err := p.SetMonitoringInterval(context.Background(), 0)
				return err
			},
		},
		{
			name: "whitelist on zero-tolerance",
			run: func(p *settings.Provider) error {
				_, err := p.AddWhitelistPattern(context.Background(), enum.ViolationTypeReligious, "allah")
				return err
			},
		},
		{
			name: "bad regex",
			run: func(p *settings.Provider) error {
				_, err := p.AddWhitelistPattern(context.Background(), enum.ViolationTypeSpam, "([")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider, store, _ := setup(t)
			_, err := provider.Get(context.Background())
			require.NoError(t, err)

			require.ErrorIs(t, tt.run(provider), settings.ErrInvalidSettings)
			assert.Equal(t, 1, store.Setting().Saves())
		})
	}
}

func TestLocalCacheExpires(t *testing.T) {
	t.Parallel()

	provider, store, mr := setup(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	provider.WithClock(func() time.Time { return now })

	_, err := provider.Get(ctx)
	require.NoError(t, err)

	// Simulate another process changing the row and the shared copy expiring.
	s, err := store.Setting().Get(ctx)
	require.NoError(t, err)
	s.Thresholds.Sexual = 0.9
	require.NoError(t, store.Setting().Save(ctx, s))
	mr.Del(settings.CacheKey)

	cached, err := provider.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, cached.Thresholds.Sexual, 1e-9)

	now = now.Add(settings.CacheTTL)
	fresh, err := provider.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, fresh.Thresholds.Sexual, 1e-9)
}
