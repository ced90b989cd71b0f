// Package settings owns the ModerationSettings singleton: seeding, validation and caching.
package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/setup/config"
	"go.uber.org/zap"
)

const (
	// CacheKey is the shared Redis copy of the settings row.
	CacheKey = "moderation:cache:settings"
	// CacheTTL bounds how stale a reader may observe the settings.
	CacheTTL = 5 * time.Minute
	// MaxThreshold caps automatic threshold drift.
	MaxThreshold = 0.95
)

// ErrInvalidSettings is returned when a settings write violates a bound. Nothing is persisted.
var ErrInvalidSettings = errors.New("invalid moderation settings")

// Store is the persistence the provider needs.
type Store interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
	Save(ctx context.Context, settings *types.ModerationSettings) error
}

// Provider serves ModerationSettings from an in-process copy, then Redis, then the store.
// Writers go through Update, which invalidates both cache levels.
type Provider struct {
	store    Store
	client   rueidis.Client
	defaults *types.ModerationSettings
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	cached   *types.ModerationSettings
	cachedAt time.Time
}

// NewProvider creates a settings provider. client may be nil to disable the shared cache.
func NewProvider(store Store, client rueidis.Client, defaults *types.ModerationSettings, logger *zap.Logger) *Provider {
	return &Provider{
		store:    store,
		client:   client,
		defaults: defaults,
		logger:   logger.Named("settings"),
		now:      time.Now,
	}
}

// WithClock replaces the provider's clock.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Defaults converts the configuration seed into a settings row.
func Defaults(cfg *config.Moderation) *types.ModerationSettings {
	hours := func(h int) *int {
		if h <= 0 {
			return nil
		}
		return &h
	}

	return &types.ModerationSettings{
		ID: types.ModerationSettingsID,
		Thresholds: types.Thresholds{
			HateSpeech: cfg.HateSpeechThreshold,
			Harassment: cfg.HarassmentThreshold,
			Sexual:     cfg.SexualThreshold,
			Spam:       cfg.SpamThreshold,
		},
		AutoEnable: types.AutoEnableFlags{
			ShadowBan:            cfg.AutoShadowBan,
			OutrightBan:          cfg.AutoOutrightBan,
			OfficialBan:          cfg.AutoOfficialBan,
			BackgroundMonitoring: cfg.BackgroundMonitoring,
			RealTimeAlerts:       cfg.RealTimeAlerts,
		},
		Escalation: types.EscalationThresholds{
			Level1: cfg.Level1Threshold,
			Level2: cfg.Level2Threshold,
			Level3: cfg.Level3Threshold,
		},
		Durations: types.PenaltyDurations{
			ShadowBanHours:   hours(cfg.ShadowBanHours),
			OutrightBanHours: hours(cfg.OutrightBanHours),
			OfficialBanHours: hours(cfg.OfficialBanHours),
		},
		Whitelist:                 make(map[string][]string),
		MonitoringIntervalMinutes: cfg.MonitoringIntervalMinutes,
		AutoApplyMinPriority:      cfg.AutoApplyMinPriority,
	}
}

// Validate checks every bound of a settings row.
func Validate(s *types.ModerationSettings) error {
	for _, vt := range []enum.ViolationType{
		enum.ViolationTypeHateSpeech, enum.ViolationTypeHarassment, enum.ViolationTypeSexual, enum.ViolationTypeSpam,
	} {
		value := s.Thresholds.For(vt)
		if math.IsNaN(value) || value < 0 || value > 1 {
			return fmt.Errorf("%w: %s threshold %.2f outside [0,1]", ErrInvalidSettings, vt, value)
		}
	}

	if s.MonitoringIntervalMinutes < 1 {
		return fmt.Errorf("%w: monitoring interval must be at least 1 minute", ErrInvalidSettings)
	}

	e := s.Escalation
	if e.Level1 < 1 || e.Level2 < e.Level1 || e.Level3 < e.Level2 {
		return fmt.Errorf("%w: escalation thresholds must be positive and ascending (%d, %d, %d)",
			ErrInvalidSettings, e.Level1, e.Level2, e.Level3)
	}

	for _, hours := range []*int{s.Durations.ShadowBanHours, s.Durations.OutrightBanHours, s.Durations.OfficialBanHours} {
		if hours != nil && *hours < 0 {
			return fmt.Errorf("%w: penalty duration cannot be negative", ErrInvalidSettings)
		}
	}

	if s.AutoApplyMinPriority < 0 || s.AutoApplyMinPriority > 100 {
		return fmt.Errorf("%w: auto-apply priority %d outside [0,100]", ErrInvalidSettings, s.AutoApplyMinPriority)
	}

	return nil
}

// Get returns the current settings. The result is a copy the caller may mutate.
func (p *Provider) Get(ctx context.Context) (*types.ModerationSettings, error) {
	p.mu.Lock()
	if p.cached != nil && p.now().Sub(p.cachedAt) < CacheTTL {
		s := p.cached.Clone()
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	if s := p.readShared(ctx); s != nil {
		p.remember(s)
		return s.Clone(), nil
	}

	s, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	p.writeShared(ctx, s)
	p.remember(s)
	return s.Clone(), nil
}

// Update applies fn to a fresh copy of the stored settings, validates and saves the result,
// then invalidates both cache levels. fn returning an error aborts the update.
func (p *Provider) Update(ctx context.Context, fn func(s *types.ModerationSettings) error) (*types.ModerationSettings, error) {
	current, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := Validate(next); err != nil {
		return nil, err
	}

	next.Version = current.Version + 1
	next.UpdatedAt = p.now()
	if err := p.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save moderation settings: %w", err)
	}

	p.Invalidate(ctx)

	p.logger.Info("Moderation settings updated", zap.Int64("version", next.Version))
	return next.Clone(), nil
}

// Invalidate drops the in-process and shared copies.
func (p *Provider) Invalidate(ctx context.Context) {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()

	if p.client == nil {
		return
	}
	if err := p.client.Do(ctx, p.client.B().Del().Key(CacheKey).Build()).Error(); err != nil {
		p.logger.Warn("Failed to invalidate shared settings cache", zap.Error(err))
	}
}

// load reads the row from the store, seeding it from defaults on first use.
func (p *Provider) load(ctx context.Context) (*types.ModerationSettings, error) {
	s, err := p.store.Get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("failed to load moderation settings: %w", err)
	}

	seed := p.defaults.Clone()
	if err := Validate(seed); err != nil {
		return nil, err
	}
	seed.Version = 1
	seed.UpdatedAt = p.now()
	if err := p.store.Save(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed moderation settings: %w", err)
	}

	p.logger.Info("Seeded moderation settings from configuration")
	return seed, nil
}

func (p *Provider) remember(s *types.ModerationSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = s.Clone()
	p.cachedAt = p.now()
}

func (p *Provider) readShared(ctx context.Context) *types.ModerationSettings {
	if p.client == nil {
		return nil
	}

	data, err := p.client.Do(ctx, p.client.B().Get().Key(CacheKey).Build()).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			p.logger.Warn("Failed to read shared settings cache", zap.Error(err))
		}
		return nil
	}

	var s types.ModerationSettings
	if err := sonic.Unmarshal(data, &s); err != nil {
		p.logger.Warn("Discarding malformed shared settings cache", zap.Error(err))
		return nil
	}
	s.ID = types.ModerationSettingsID
	return &s
}

func (p *Provider) writeShared(ctx context.Context, s *types.ModerationSettings) {
	if p.client == nil {
		return
	}

	data, err := sonic.Marshal(s)
	if err != nil {
		p.logger.Warn("Failed to encode settings for shared cache", zap.Error(err))
		return
	}

	err = p.client.Do(ctx, p.client.B().Set().Key(CacheKey).Value(string(data)).Ex(CacheTTL).Build()).Error()
	if err != nil {
		p.logger.Warn("Failed to write shared settings cache", zap.Error(err))
	}
}

// SetThreshold changes the confidence threshold of a tunable category.
func (p *Provider) SetThreshold(ctx context.Context, vt enum.ViolationType, value float64) (*types.ModerationSettings, error) {
	return p.Update(ctx, func(s *types.ModerationSettings) error {
		if !s.Thresholds.Set(vt, value) {
			return fmt.Errorf("%w: %s has no threshold", ErrInvalidSettings, vt)
		}
		return nil
	})
}

// SetMonitoringInterval changes the content scan interval.
func (p *Provider) SetMonitoringInterval(ctx context.Context, minutes int) (*types.ModerationSettings, error) {
	return p.Update(ctx, func(s *types.ModerationSettings) error {
		s.MonitoringIntervalMinutes = minutes
		return nil
	})
}

// AddWhitelistPattern appends a pattern to a category's whitelist.
// Zero-tolerance categories cannot be whitelisted.
func (p *Provider) AddWhitelistPattern(
	ctx context.Context, vt enum.ViolationType, pattern string,
) (*types.ModerationSettings, error) {
	return p.Update(ctx, func(s *types.ModerationSettings) error {
		if vt.IsZeroTolerance() {
			return fmt.Errorf("%w: %s is zero-tolerance and cannot be whitelisted", ErrInvalidSettings, vt)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: whitelist pattern %q: %w", ErrInvalidSettings, pattern, err)
		}
		s.AddWhitelistPattern(vt, pattern)
		return nil
	})
}
