package feedback_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/feedback"
	"github.com/robalyx/warden/internal/lease"
	"github.com/robalyx/warden/internal/reputation"
	"github.com/robalyx/warden/internal/settings"
	"github.com/robalyx/warden/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []enum.EventType
}

func (n *recordingNotifier) Publish(_ context.Context, event enum.EventType, _ string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type fixture struct {
	loop     *feedback.Loop
	store    *memstore.Store
	settings *settings.Provider
	notifier *recordingNotifier
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

	clock := func() time.Time { return now }
	store := memstore.New()
	provider := settings.NewProvider(store.Setting(), client, settings.Defaults(&config.Moderation{
		HateSpeechThreshold:       0.8,
		HarassmentThreshold:       0.8,
		SexualThreshold:           0.8,
		SpamThreshold:             0.7,
		Level1Threshold:           3,
		Level2Threshold:           5,
		Level3Threshold:           10,
		MonitoringIntervalMinutes: 5,
	}), zap.NewNop()).WithClock(clock)

	locker := lease.NewLocker(lease.NewStore(client, zap.NewNop()))
	ledger := reputation.NewLedger(
		store.Violation(), store.Penalty(), store.FalsePositive(), store.Account(), store.Reputation(),
		locker, zap.NewNop(),
	).WithClock(clock)

	notifier := &recordingNotifier{}
	loop := feedback.New(store.Violation(), store.FalsePositive(), provider, ledger, locker, notifier, zap.NewNop()).
		WithClock(clock)

	return &fixture{loop: loop, store: store, settings: provider, notifier: notifier}
}

func (f *fixture) violation(
	t *testing.T, vt enum.ViolationType, status enum.ViolationStatus, patterns ...string,
) *types.ViolationRecord {
	t.Helper()

	record := &types.ViolationRecord{
		ID:               uuid.New(),
		UserID:           "u1",
		ContentID:        uuid.NewString(),
		ContentType:      enum.ContentTypeComment,
		ViolationType:    vt,
		Severity:         enum.SeverityHigh,
		Confidence:       0.82,
		DetectedPatterns: patterns,
		Status:           status,
		CreatedAt:        now.Add(-time.Hour),
	}
	require.NoError(t, f.store.Violation().Create(context.Background(), record))
	return record
}

func (f *fixture) falsePositive(t *testing.T, vt enum.ViolationType, patterns ...string) {
	t.Helper()

	record := f.violation(t, vt, enum.ViolationStatusFalsePositive, patterns...)
	require.NoError(t, f.store.FalsePositive().Create(context.Background(), &types.FalsePositiveRecord{
		ID:                    uuid.New(),
		ViolationRecordID:     record.ID,
		UserID:                record.UserID,
		CorrectedBy:           "mod1",
		OriginalViolationType: vt,
		OriginalConfidence:    record.Confidence,
		Patterns:              patterns,
		CreatedAt:             now.Add(-time.Hour),
	}))
}

func TestMarkFalsePositive(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()
	record := f.violation(t, enum.ViolationTypeHarassment, enum.ViolationStatusConfirmed, "oracle:INSULT")

	correction, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "quoted lyrics")
	require.NoError(t, err)
	assert.Equal(t, record.ID, correction.Record.ViolationRecordID)
	assert.Equal(t, enum.ViolationTypeHarassment, correction.Record.OriginalViolationType)
	assert.InDelta(t, 0.82, correction.Record.OriginalConfidence, 1e-9)

	stored, err := f.store.Violation().Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ViolationStatusFalsePositive, stored.Status)
	assert.Equal(t, "mod1", stored.ReviewedBy)

	rep, err := f.store.Reputation().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, rep.TotalViolations)
	assert.Equal(t, 1, rep.FalsePositiveCount)

	assert.Contains(t, f.notifier.events, enum.EventTypeFalsePositiveRecorded)
}

func TestMarkFalsePositiveTwiceFails(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()
	record := f.violation(t, enum.ViolationTypeSpam, enum.ViolationStatusPending)

	_, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "")
	require.NoError(t, err)

	_, err = f.loop.MarkFalsePositive(ctx, record.ID, "mod2", "")
	require.ErrorIs(t, err, feedback.ErrInvalidStatusChange)
}

func TestMarkFalsePositiveRetryAfterStoreFailure(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()
	record := f.violation(t, enum.ViolationTypeHarassment, enum.ViolationStatusConfirmed, "oracle:INSULT")

	f.store.Fail("FalsePositive.Create", errors.New("store down"))
	_, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "")
	require.Error(t, err)

	stored, err := f.store.Violation().Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ViolationStatusConfirmed, stored.Status)

	f.store.Fail("FalsePositive.Create", nil)
	correction, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "")
	require.NoError(t, err)
	assert.Equal(t, record.ID, correction.Record.ViolationRecordID)

	count, err := f.store.FalsePositive().CountByTypeSince(ctx, enum.ViolationTypeHarassment, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkFalsePositiveReusesCorrectionAfterStatusFailure(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()
	record := f.violation(t, enum.ViolationTypeSpam, enum.ViolationStatusPending)

	f.store.Fail("Violation.UpdateStatus", errors.New("store down"))
	_, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "")
	require.Error(t, err)

	f.store.Fail("Violation.UpdateStatus", nil)
	correction, err := f.loop.MarkFalsePositive(ctx, record.ID, "mod1", "")
	require.NoError(t, err)

	stored, err := f.store.Violation().Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ViolationStatusFalsePositive, stored.Status)

	count, err := f.store.FalsePositive().CountByTypeSince(ctx, enum.ViolationTypeSpam, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	existing, err := f.store.FalsePositive().GetByViolation(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, correction.Record.ID)
}

func TestMarkFalsePositiveUnknownRecord(t *testing.T) {
	t.Parallel()

	f := setupTest(t)

	_, err := f.loop.MarkFalsePositive(t.Context(), uuid.New(), "mod1", "")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCorrectionRaisesSpamThreshold(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	// 25 spam records with 2 corrections is 8%; the next correction makes it 12%.
	f.falsePositive(t, enum.ViolationTypeSpam)
	f.falsePositive(t, enum.ViolationTypeSpam)
	var target *types.ViolationRecord
	for i := range 23 {
		record := f.violation(t, enum.ViolationTypeSpam, enum.ViolationStatusConfirmed)
		if i == 0 {
			target = record
		}
	}

	adj, err := f.loop.AdjustThreshold(ctx, enum.ViolationTypeSpam)
	require.NoError(t, err)
	assert.False(t, adj.Changed())
	assert.InDelta(t, 0.08, adj.Rate, 1e-9)

	correction, err := f.loop.MarkFalsePositive(ctx, target.ID, "mod1", "")
	require.NoError(t, err)
	assert.InDelta(t, 0.12, correction.Adjustment.Rate, 1e-9)
	assert.InDelta(t, 0.70, correction.Adjustment.Old, 1e-9)
	assert.InDelta(t, 0.75, correction.Adjustment.New, 1e-9)

	current, err := f.settings.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, current.Thresholds.Spam, 1e-9)
	assert.InDelta(t, 0.8, current.Thresholds.HateSpeech, 1e-9)
	assert.Contains(t, f.notifier.events, enum.EventTypeSettingsUpdated)
}

func TestDrift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{0.7, 0.75},
		{0.8, 0.85},
		{0.93, 0.95},
		{0.95, 0.95},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, feedback.Drift(tt.in), 1e-9, "drift of %v", tt.in)
	}
}

func TestThresholdCapped(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	_, err := f.settings.SetThreshold(ctx, enum.ViolationTypeSexual, 0.95)
	require.NoError(t, err)
	f.falsePositive(t, enum.ViolationTypeSexual)
	f.violation(t, enum.ViolationTypeSexual, enum.ViolationStatusConfirmed)

	adj, err := f.loop.AdjustThreshold(ctx, enum.ViolationTypeSexual)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, adj.Rate, 1e-9)
	assert.False(t, adj.Changed())
}

func TestZeroToleranceHasNoDrift(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	f.falsePositive(t, enum.ViolationTypeReligious, "religious:islam")

	adj, err := f.loop.AdjustThreshold(t.Context(), enum.ViolationTypeReligious)
	require.NoError(t, err)
	assert.False(t, adj.Changed())

	added, err := f.loop.MineWhitelist(t.Context(), enum.ViolationTypeReligious)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestMineWhitelist(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	ctx := t.Context()

	common := `\b(buy now|click here|limited time)\b`
	for i := range 10 {
		patterns := []string{"heuristic:url"}
		if i < 3 {
			patterns = append(patterns, common)
		}
		if i == 0 {
			patterns = append(patterns, fmt.Sprintf("rare-%d", i))
		}
		f.falsePositive(t, enum.ViolationTypeSpam, patterns...)
	}

	added, err := f.loop.MineWhitelist(ctx, enum.ViolationTypeSpam)
	require.NoError(t, err)
	assert.Equal(t, []string{common}, added)

	current, err := f.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{common}, current.WhitelistFor(enum.ViolationTypeSpam))

	again, err := f.loop.MineWhitelist(ctx, enum.ViolationTypeSpam)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestMineWhitelistNeedsSample(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	f.falsePositive(t, enum.ViolationTypeHateSpeech, "slur")
	f.falsePositive(t, enum.ViolationTypeHateSpeech, "slur")

	added, err := f.loop.MineWhitelist(t.Context(), enum.ViolationTypeHateSpeech)
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestCommonPatternsCountsOncePerRecord(t *testing.T) {
	t.Parallel()

	records := []*types.FalsePositiveRecord{
		{Patterns: []string{"a", "a", "a"}},
		{Patterns: []string{"b"}},
		{Patterns: []string{"c"}},
		{Patterns: []string{"oracle:TOXICITY"}},
	}

	assert.Empty(t, feedback.CommonPatterns(records, 0.3))
	assert.Equal(t, []string{"a", "b", "c"}, feedback.CommonPatterns(records, 0.25))
}

func TestLearn(t *testing.T) {
	t.Parallel()

	f := setupTest(t)
	for range 3 {
		f.falsePositive(t, enum.ViolationTypeHarassment, "friendly banter")
	}

	report := f.loop.Learn(t.Context())
	assert.Equal(t, []string{"friendly banter"}, report.Whitelisted[enum.ViolationTypeHarassment])

	var harassment feedback.Adjustment
	for _, adj := range report.Adjustments {
		if adj.Type == enum.ViolationTypeHarassment {
			harassment = adj
		}
	}
	assert.InDelta(t, 0.85, harassment.New, 1e-9)
}
