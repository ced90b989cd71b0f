package penalty_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/lease"
	"github.com/robalyx/warden/internal/penalty"
	"github.com/robalyx/warden/internal/reputation"
	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeRunner struct {
	mu   sync.Mutex
	runs [][]penalty.Effect
	err  error
}

func (r *fakeRunner) Run(_ context.Context, effects []penalty.Effect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, effects)
	return nil
}

func (r *fakeRunner) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *fakeRunner) kinds() []penalty.EffectKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []penalty.EffectKind
	for _, run := range r.runs {
		for _, effect := range run {
			kinds = append(kinds, effect.Kind)
		}
	}
	return kinds
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []enum.EventType
}

func (n *fakeNotifier) Publish(_ context.Context, event enum.EventType, _ string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *fakeNotifier) count(event enum.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.events {
		if e == event {
			count++
		}
	}
	return count
}

type staticSettings struct{ settings *types.ModerationSettings }

func (s staticSettings) Get(context.Context) (*types.ModerationSettings, error) {
	return s.settings.Clone(), nil
}

func hours(h int) *int { return &h }

func testSettings() *types.ModerationSettings {
	return &types.ModerationSettings{
		ID:         types.ModerationSettingsID,
		Escalation: types.EscalationThresholds{Level1: 3, Level2: 5, Level3: 10},
		Durations: types.PenaltyDurations{
			ShadowBanHours:   hours(24),
			OutrightBanHours: hours(168),
		},
	}
}

type fixture struct {
	machine  *penalty.Machine
	store    *memstore.Store
	runner   *fakeRunner
	notifier *fakeNotifier
	clock    *clock
	logs     *observer.ObservedLogs
	mr       *miniredis.Miniredis
}

func setupMachine(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	f := &fixture{
		store:    memstore.New(),
		runner:   &fakeRunner{},
		notifier: &fakeNotifier{},
		clock:    &clock{now: start},
		logs:     logs,
		mr:       mr,
	}

	locker := lease.NewLocker(lease.NewStore(client, logger)).WithRetryOptions(utils.RetryOptions{
		MaxElapsedTime:  200 * time.Millisecond,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     20 * time.Millisecond,
		MaxRetries:      5,
	})
	ledger := reputation.NewLedger(
		f.store.Violation(), f.store.Penalty(), f.store.FalsePositive(), f.store.Account(), f.store.Reputation(),
		locker, logger,
	).WithClock(f.clock.Now)

	f.machine = penalty.NewMachine(
		f.store.Penalty(), f.store.Violation(), f.store.Account(),
		f.runner, ledger, locker, staticSettings{testSettings()}, f.notifier, logger,
	).WithClock(f.clock.Now)

	return f
}

func (f *fixture) confirmed(t *testing.T, userID string, vt enum.ViolationType, at time.Time) *types.ViolationRecord {
	t.Helper()

	record := &types.ViolationRecord{
		ID:            uuid.New(),
		UserID:        userID,
		ContentID:     uuid.NewString(),
		ContentType:   enum.ContentTypeArticle,
		ViolationType: vt,
		Severity:      enum.SeverityHigh,
		Confidence:    0.85,
		Status:        enum.ViolationStatusConfirmed,
		CreatedAt:     at,
	}
	require.NoError(t, f.store.Violation().Create(context.Background(), record))
	return record
}

func (f *fixture) seedPenalty(t *testing.T, userID string, pt enum.PenaltyType, at time.Time) *types.Penalty {
	t.Helper()

	p := &types.Penalty{
		ID:             uuid.New(),
		UserID:         userID,
		IdempotencyKey: penalty.ManualKey(uuid.New()),
		PenaltyType:    pt,
		IsActive:       true,
		StartDate:      at,
		CreatedAt:      at,
		EnforcedAt:     &at,
	}
	created, err := f.store.Penalty().Create(context.Background(), p)
	require.NoError(t, err)
	require.True(t, created)
	return p
}

func detail(vt enum.ViolationType, severity enum.Severity) types.ViolationDetail {
	return types.ViolationDetail{Type: vt, Severity: severity, Confidence: 0.85}
}

func TestEscalationLevel(t *testing.T) {
	t.Parallel()

	thresholds := types.EscalationThresholds{Level1: 3, Level2: 5, Level3: 10}
	tests := []struct {
		count int
		want  int
	}{
		{0, 1},
		{2, 1},
		{4, 1},
		{5, 2},
		{9, 2},
		{10, 3},
		{25, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, penalty.EscalationLevel(tt.count, thresholds), "count %d", tt.count)
	}
}

func TestSelectType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		detail types.ViolationDetail
		level  int
		want   enum.PenaltyType
	}{
		{"zero tolerance below level 3", detail(enum.ViolationTypeReligious, enum.SeverityCritical), 1, enum.PenaltyTypeOutrightBan},
		{"zero tolerance at level 3", detail(enum.ViolationTypeReligious, enum.SeverityCritical), 3, enum.PenaltyTypeOfficialBan},
		{"critical hate speech", detail(enum.ViolationTypeHateSpeech, enum.SeverityCritical), 1, enum.PenaltyTypeOutrightBan},
		{"high spam at level 1", detail(enum.ViolationTypeSpam, enum.SeverityHigh), 1, enum.PenaltyTypeShadowBan},
		{"high spam at level 2", detail(enum.ViolationTypeSpam, enum.SeverityHigh), 2, enum.PenaltyTypeOutrightBan},
		{"medium harassment at level 3", detail(enum.ViolationTypeHarassment, enum.SeverityMedium), 3, enum.PenaltyTypeOfficialBan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, penalty.SelectType(tt.detail, tt.level))
		})
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()

	to, superseded, err := penalty.Transition(enum.BanStateNone, enum.PenaltyTypeShadowBan)
	require.NoError(t, err)
	assert.Equal(t, enum.BanStateShadowBan, to)
	assert.False(t, superseded)

	to, superseded, err = penalty.Transition(enum.BanStateShadowBan, enum.PenaltyTypeShadowBan)
	require.NoError(t, err)
	assert.Equal(t, enum.BanStateShadowBan, to)
	assert.False(t, superseded)

	to, superseded, err = penalty.Transition(enum.BanStateOutrightBan, enum.PenaltyTypeShadowBan)
	require.NoError(t, err)
	assert.Equal(t, enum.BanStateOutrightBan, to)
	assert.True(t, superseded)

	_, _, err = penalty.Transition(enum.BanState(42), enum.PenaltyTypeShadowBan)
	require.ErrorIs(t, err, penalty.ErrInvalidTransition)

	_, _, err = penalty.Transition(enum.BanStateNone, enum.PenaltyType(42))
	require.ErrorIs(t, err, penalty.ErrInvalidTransition)
}

func TestCurrentStateSkipsInactiveAndExpired(t *testing.T) {
	t.Parallel()

	end := start.Add(-time.Hour)
	penalties := []*types.Penalty{
		{PenaltyType: enum.PenaltyTypeOfficialBan, IsActive: false},
		{PenaltyType: enum.PenaltyTypeOutrightBan, IsActive: true, EndDate: &end},
		{PenaltyType: enum.PenaltyTypeOutrightBan, IsActive: true, Metadata: types.PenaltyMetadata{Superseded: true}},
		{PenaltyType: enum.PenaltyTypeShadowBan, IsActive: true},
	}

	assert.Equal(t, enum.BanStateShadowBan, penalty.CurrentState(penalties, start))
}

func TestEvaluateSweep(t *testing.T) {
	t.Parallel()

	at := func(days int) time.Time { return start.Add(-time.Duration(days) * 24 * time.Hour) }
	pen := func(pt enum.PenaltyType, days int) *types.Penalty {
		return &types.Penalty{ID: uuid.New(), PenaltyType: pt, IsActive: true, StartDate: at(days)}
	}
	zeroTolerance := &types.ViolationRecord{
		ID: uuid.New(), ViolationType: enum.ViolationTypeReligious, Status: enum.ViolationStatusConfirmed, CreatedAt: at(1),
	}

	tests := []struct {
		name       string
		penalties  []*types.Penalty
		violations []*types.ViolationRecord
		state      enum.BanState
		wantOK     bool
		wantRule   string
		wantTarget enum.PenaltyType
	}{
		{
			name:      "two shadow bans do nothing",
			penalties: []*types.Penalty{pen(enum.PenaltyTypeShadowBan, 1), pen(enum.PenaltyTypeShadowBan, 2)},
			state:     enum.BanStateShadowBan,
		},
		{
			name: "three shadow bans escalate to outright",
			penalties: []*types.Penalty{
				pen(enum.PenaltyTypeShadowBan, 1), pen(enum.PenaltyTypeShadowBan, 2), pen(enum.PenaltyTypeShadowBan, 3),
			},
			state:      enum.BanStateShadowBan,
			wantOK:     true,
			wantRule:   penalty.RuleShadowToOutright,
			wantTarget: enum.PenaltyTypeOutrightBan,
		},
		{
			name: "shadow bans outside the window do not count",
			penalties: []*types.Penalty{
				pen(enum.PenaltyTypeShadowBan, 1), pen(enum.PenaltyTypeShadowBan, 2), pen(enum.PenaltyTypeShadowBan, 31),
			},
			state: enum.BanStateShadowBan,
		},
		{
			name: "shadow rule needs no outright ban",
			penalties: []*types.Penalty{
				pen(enum.PenaltyTypeShadowBan, 1), pen(enum.PenaltyTypeShadowBan, 2),
				pen(enum.PenaltyTypeShadowBan, 3), pen(enum.PenaltyTypeOutrightBan, 4),
			},
			state: enum.BanStateOutrightBan,
		},
		{
			name:       "two outright bans escalate to official",
			penalties:  []*types.Penalty{pen(enum.PenaltyTypeOutrightBan, 1), pen(enum.PenaltyTypeOutrightBan, 5)},
			state:      enum.BanStateOutrightBan,
			wantOK:     true,
			wantRule:   penalty.RuleOutrightToOfficial,
			wantTarget: enum.PenaltyTypeOfficialBan,
		},
		{
			name:       "zero tolerance overrides counts",
			penalties:  []*types.Penalty{pen(enum.PenaltyTypeShadowBan, 1)},
			violations: []*types.ViolationRecord{zeroTolerance},
			state:      enum.BanStateShadowBan,
			wantOK:     true,
			wantRule:   penalty.RuleZeroTolerance,
			wantTarget: enum.PenaltyTypeOfficialBan,
		},
		{
			name:       "state already covers the target",
			violations: []*types.ViolationRecord{zeroTolerance},
			state:      enum.BanStateOfficialBan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			action, ok := penalty.EvaluateSweep(tt.penalties, tt.violations, tt.state, start)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantRule, action.Rule)
			assert.Equal(t, tt.wantTarget, action.Target)
		})
	}
}

func TestForViolationIsIdempotent(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	record := f.confirmed(t, "u1", enum.ViolationTypeSpam, start)

	first, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityHigh))
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.Enforced)
	assert.Equal(t, enum.PenaltyTypeShadowBan, first.Penalty.PenaltyType)
	assert.Equal(t, penalty.ViolationKey(record.ID), first.Penalty.IdempotencyKey)
	assert.Equal(t, 1, first.Penalty.EscalationLevel)
	require.NotNil(t, first.Penalty.EndDate)
	assert.Equal(t, start.Add(24*time.Hour), *first.Penalty.EndDate)

	second, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityHigh))
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Penalty.ID, second.Penalty.ID)

	assert.Len(t, f.store.Penalty().All(), 1)
	assert.Equal(t, []penalty.EffectKind{penalty.EffectHidePublishedContent, penalty.EffectSetShadowFlag}, f.runner.kinds())
	assert.Equal(t, 1, f.notifier.count(enum.EventTypePenaltyApplied))

	rep, err := f.store.Reputation().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.ShadowBanCount)
}

func TestForViolationZeroTolerance(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	record := f.confirmed(t, "u1", enum.ViolationTypeReligious, start)
	outcome, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeReligious, enum.SeverityCritical))
	require.NoError(t, err)
	assert.Equal(t, enum.PenaltyTypeOutrightBan, outcome.Penalty.PenaltyType)
	assert.Equal(t, enum.BanStateOutrightBan, outcome.State)
}

func TestForViolationOfficialBanCapturesIdentifiers(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	f.store.Account().Put(&types.Account{
		ID: "u2", Username: "offender", Email: "offender@example.com", Status: enum.AccountStatusActive, CreatedAt: start,
	})
	f.store.Account().PutSession(&types.Session{
		ID: uuid.New(), UserID: "u2", IPAddress: "203.0.113.7", CreatedAt: start,
	})
	for i := range 10 {
		f.confirmed(t, "u2", enum.ViolationTypeSpam, start.Add(-time.Duration(i+1)*time.Hour))
	}

	record := f.confirmed(t, "u2", enum.ViolationTypeReligious, start)
	outcome, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeReligious, enum.SeverityCritical))
	require.NoError(t, err)

	p := outcome.Penalty
	assert.Equal(t, enum.PenaltyTypeOfficialBan, p.PenaltyType)
	assert.Equal(t, 3, p.EscalationLevel)
	assert.True(t, p.IsPermanent())
	assert.Equal(t, []string{"203.0.113.7"}, p.Metadata.CapturedIPs)
	assert.Equal(t, "offender@example.com", p.Metadata.CapturedEmail)
	assert.Equal(t, "offender", p.Metadata.CapturedUsername)
	assert.Contains(t, f.runner.kinds(), penalty.EffectDenyIPs)
	assert.Contains(t, f.runner.kinds(), penalty.EffectAnonymize)
}

func TestLowerPenaltyIsSuperseded(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	_, err := f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, Reason: "abuse", AppliedBy: "mod1",
	})
	require.NoError(t, err)
	effectsBefore := len(f.runner.kinds())

	record := f.confirmed(t, "u1", enum.ViolationTypeSpam, start)
	outcome, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityMedium))
	require.NoError(t, err)

	assert.True(t, outcome.Created)
	assert.True(t, outcome.Penalty.Metadata.Superseded)
	assert.Equal(t, enum.BanStateOutrightBan, outcome.Previous)
	assert.Equal(t, enum.BanStateOutrightBan, outcome.State)
	assert.NotNil(t, outcome.Penalty.EnforcedAt)
	assert.Len(t, f.runner.kinds(), effectsBefore)
	assert.Equal(t, 1, f.notifier.count(enum.EventTypePenaltyApplied))

	rep, err := f.store.Reputation().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, rep.ShadowBanCount)
	assert.Equal(t, 1, rep.OutrightBanCount)
}

func TestEnforcementFailureIsRetried(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	f.runner.fail(errors.New("redis down"))

	record := f.confirmed(t, "u1", enum.ViolationTypeSpam, start)
	outcome, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityHigh))
	require.NoError(t, err)
	assert.False(t, outcome.Enforced)
	assert.Nil(t, outcome.Penalty.EnforcedAt)
	assert.Equal(t, 1, f.logs.FilterField(zap.String("failure", "enforcement")).Len())

	f.runner.fail(nil)
	f.clock.Advance(2 * time.Minute)

	enforced, err := f.machine.RetryUnenforced(ctx, time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, enforced)

	stored, err := f.store.Penalty().GetByKey(ctx, penalty.ViolationKey(record.ID))
	require.NoError(t, err)
	require.NotNil(t, stored.EnforcedAt)
	assert.Equal(t, start.Add(2*time.Minute), *stored.EnforcedAt)
}

func TestRetryUnenforcedUsesRemainingDuration(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	f.runner.fail(errors.New("redis down"))

	record := f.confirmed(t, "u1", enum.ViolationTypeSpam, start)
	_, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityHigh))
	require.NoError(t, err)

	f.runner.fail(nil)
	f.clock.Advance(6 * time.Hour)

	enforced, err := f.machine.RetryUnenforced(ctx, time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, enforced)

	require.Len(t, f.runner.runs, 1)
	for _, effect := range f.runner.runs[0] {
		if effect.Kind == penalty.EffectSetShadowFlag {
			assert.Equal(t, 18*time.Hour, effect.TTL)
		}
	}
}

func TestRetryUnenforcedSkipsExpiredPenalty(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	f.runner.fail(errors.New("redis down"))

	record := f.confirmed(t, "u1", enum.ViolationTypeSpam, start)
	_, err := f.machine.ForViolation(ctx, record, detail(enum.ViolationTypeSpam, enum.SeverityHigh))
	require.NoError(t, err)

	f.runner.fail(nil)
	f.clock.Advance(25 * time.Hour)

	enforced, err := f.machine.RetryUnenforced(ctx, time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, enforced)
	assert.Empty(t, f.runner.kinds())
}

func TestPlanAtKeepsPermanentPenalties(t *testing.T) {
	t.Parallel()

	p := &types.Penalty{UserID: "u1", PenaltyType: enum.PenaltyTypeOutrightBan, StartDate: start}
	for _, effect := range penalty.PlanAt(p, start.Add(time.Hour)) {
		assert.Zero(t, effect.TTL)
	}
}

func TestSweepEscalatesOnce(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	for i := range 3 {
		f.seedPenalty(t, "u1", enum.PenaltyTypeShadowBan, start.Add(-time.Duration(i+1)*24*time.Hour))
	}

	outcome, err := f.machine.Sweep(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, enum.PenaltyTypeOutrightBan, outcome.Penalty.PenaltyType)
	assert.Equal(t, penalty.RuleShadowToOutright, outcome.Penalty.Metadata.Rule)
	assert.Equal(t, 3, outcome.Penalty.Metadata.ShadowBanCount)
	assert.Equal(t, 1, f.notifier.count(enum.EventTypePenaltyEscalated))

	again, err := f.machine.Sweep(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Len(t, f.store.Penalty().All(), 4)
}

func TestSweepZeroTolerance(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()
	f.seedPenalty(t, "u1", enum.PenaltyTypeOutrightBan, start.Add(-time.Hour))
	anchor := f.confirmed(t, "u1", enum.ViolationTypeReligious, start.Add(-time.Hour))

	outcome, err := f.machine.Sweep(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, enum.PenaltyTypeOfficialBan, outcome.Penalty.PenaltyType)
	assert.Equal(t, penalty.SweepKey(penalty.RuleZeroTolerance, anchor.ID), outcome.Penalty.IdempotencyKey)
	assert.Equal(t, enum.BanStateOfficialBan, outcome.State)
}

func TestExpireDueLiftsSuspension(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	_, err := f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, DurationHours: hours(1), Reason: "cool down", AppliedBy: "mod1",
	})
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	expired, err := f.machine.ExpireDue(ctx, 100)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	assert.Contains(t, f.runner.kinds(), penalty.EffectLiftSuspension)
	assert.Equal(t, 1, f.notifier.count(enum.EventTypePenaltyExpired))

	state, err := f.machine.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.BanStateNone, state)
}

func TestExpireDueKeepsSuspensionUnderLongerBan(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	_, err := f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, DurationHours: hours(1), AppliedBy: "mod1",
	})
	require.NoError(t, err)
	_, err = f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, DurationHours: hours(48), AppliedBy: "mod1",
	})
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	_, err = f.machine.ExpireDue(ctx, 100)
	require.NoError(t, err)

	assert.NotContains(t, f.runner.kinds(), penalty.EffectLiftSuspension)
}

func TestExpireDueWaitsForUserLock(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	_, err := f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, DurationHours: hours(1), AppliedBy: "mod1",
	})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	require.NoError(t, f.mr.Set("lock:user:u1", "other-worker"))
	expired, err := f.machine.ExpireDue(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, expired)

	penalties := f.store.Penalty().All()
	require.Len(t, penalties, 1)
	assert.True(t, penalties[0].IsActive)
	assert.Zero(t, f.notifier.count(enum.EventTypePenaltyExpired))

	f.mr.Del("lock:user:u1")
	expired, err = f.machine.ExpireDue(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, expired, 1)
	assert.False(t, f.store.Penalty().All()[0].IsActive)
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)
	ctx := t.Context()

	_, err := f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeShadowBan, AppliedBy: "mod1",
	})
	require.NoError(t, err)
	_, err = f.machine.Manual(ctx, penalty.ManualRequest{
		UserID: "u1", Type: enum.PenaltyTypeOutrightBan, AppliedBy: "mod1",
	})
	require.NoError(t, err)

	revoked, err := f.machine.Revoke(ctx, "u1", "admin1")
	require.NoError(t, err)
	assert.Equal(t, 2, revoked)
	assert.Contains(t, f.runner.kinds(), penalty.EffectRestoreAccount)
	assert.Equal(t, 1, f.notifier.count(enum.EventTypePenaltyRevoked))

	state, err := f.machine.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enum.BanStateNone, state)
}

func TestManualRejectsUnknownType(t *testing.T) {
	t.Parallel()

	f := setupMachine(t)

	_, err := f.machine.Manual(t.Context(), penalty.ManualRequest{UserID: "u1", Type: enum.PenaltyType(9)})
	require.ErrorIs(t, err, penalty.ErrInvalidTransition)
}
