package classifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/warden/internal/classifier"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/perspective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeOracle struct {
	mu     sync.Mutex
	scores map[string]float64
	fail   map[string]error // keyed by first requested attribute
	block  map[string]bool  // keyed by first requested attribute
	calls  int
}

func (f *fakeOracle) Score(ctx context.Context, _ string, attributes []string) (map[string]float64, error) {
	f.mu.Lock()
	f.calls++
	err := f.fail[attributes[0]]
	block := f.block[attributes[0]]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	result := make(map[string]float64)
	for _, attr := range attributes {
		if score, ok := f.scores[attr]; ok {
			result[attr] = score
		}
	}
	return result, nil
}

type staticSettings struct {
	settings *types.ModerationSettings
	err      error
}

func (s *staticSettings) Get(context.Context) (*types.ModerationSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.settings.Clone(), nil
}

func testSettings() *types.ModerationSettings {
	return &types.ModerationSettings{
		ID: types.ModerationSettingsID,
		Thresholds: types.Thresholds{
			HateSpeech: 0.8,
			Harassment: 0.8,
			Sexual:     0.8,
			Spam:       0.7,
		},
		Whitelist:                 map[string][]string{},
		MonitoringIntervalMinutes: 5,
	}
}

func newClassifier(oracle classifier.Oracle, settings *types.ModerationSettings) (*classifier.Classifier, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return classifier.New(oracle, &staticSettings{settings: settings}, 100*time.Millisecond, zap.New(core)), logs
}

func TestClassifyZeroTolerance(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	c, _ := newClassifier(oracle, testSettings())

	violations := c.Classify(context.Background(), "c1", "Praise be to Allah")
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, enum.ViolationTypeReligious, v.Type)
	assert.Equal(t, enum.SeverityCritical, v.Severity)
	assert.InDelta(t, 1.0, v.Confidence, 1e-9)
	assert.Contains(t, v.Keywords, "allah")
	assert.Contains(t, v.Patterns, "religious:islam")
}

func TestClassifyZeroToleranceIgnoresWhitelist(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Whitelist[enum.ViolationTypeReligious.String()] = []string{"allah"}
	c, _ := newClassifier(&fakeOracle{}, settings)

	violations := c.Classify(context.Background(), "c1", "allah")
	require.Len(t, violations, 1)
	assert.Equal(t, enum.ViolationTypeReligious, violations[0].Type)
}

func TestClassifyNormalizesDiacritics(t *testing.T) {
	t.Parallel()

	c, _ := newClassifier(&fakeOracle{}, testSettings())

	violations := c.Classify(context.Background(), "c1", "a visit to the MOSQUÉ")
	require.Len(t, violations, 1)
	assert.Equal(t, enum.ViolationTypeReligious, violations[0].Type)
}

func TestClassifyWholeWordsOnly(t *testing.T) {
	t.Parallel()

	c, _ := newClassifier(&fakeOracle{}, testSettings())

	assert.Empty(t, c.Classify(context.Background(), "c1", "hello there, singing shellfish"))
}

func TestClassifyOracleThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scores   map[string]float64
		want     []enum.ViolationType
		severity enum.Severity
	}{
		{
			name:   "all below threshold",
			scores: map[string]float64{perspective.AttributeInsult: 0.5, perspective.AttributeToxicity: 0.3},
		},
		{
			name:   "equal to threshold is not a violation",
			scores: map[string]float64{perspective.AttributeInsult: 0.8},
		},
		{
			name:     "harassment uses max sub-score",
			scores:   map[string]float64{perspective.AttributeInsult: 0.2, perspective.AttributeThreat: 0.85},
			want:     []enum.ViolationType{enum.ViolationTypeHarassment},
			severity: enum.SeverityHigh,
		},
		{
			name: "detection order",
			scores: map[string]float64{
				perspective.AttributeSexuallyExplicit: 0.95,
				perspective.AttributeIdentityAttack:   0.92,
			},
			want:     []enum.ViolationType{enum.ViolationTypeHateSpeech, enum.ViolationTypeSexual},
			severity: enum.SeverityCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newClassifier(&fakeOracle{scores: tt.scores}, testSettings())
			violations := c.Classify(context.Background(), "c1", "some ordinary text")

			got := make([]enum.ViolationType, 0, len(violations))
			for _, v := range violations {
				got = append(got, v.Type)
				assert.Equal(t, tt.severity, v.Severity)
				require.Len(t, v.Patterns, 1)
				assert.Contains(t, v.Patterns[0], classifier.OraclePatternPrefix)
			}
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassifyFailsOpen(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		scores: map[string]float64{perspective.AttributeToxicity: 0, perspective.AttributeSexuallyExplicit: 0},
		block:  map[string]bool{perspective.AttributeInsult: true},
	}
	c, logs := newClassifier(oracle, testSettings())

	violations := c.Classify(context.Background(), "c1", "harmless text")
	assert.Empty(t, violations)

	failures := logs.FilterField(zap.String("failure", "classification")).All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.WarnLevel, failures[0].Level)
	assert.Equal(t, enum.ViolationTypeHarassment.String(), failures[0].ContextMap()["category"])
}

func TestClassifyOracleErrorKeepsOtherCategories(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{
		scores: map[string]float64{perspective.AttributeSexuallyExplicit: 0.99},
		fail:   map[string]error{perspective.AttributeToxicity: perspective.ErrOracleUnavailable},
	}
	c, _ := newClassifier(oracle, testSettings())

	violations := c.Classify(context.Background(), "c1", "text")
	require.Len(t, violations, 1)
	assert.Equal(t, enum.ViolationTypeSexual, violations[0].Type)
}

func TestClassifyNotConfiguredIsSilent(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{fail: map[string]error{
		perspective.AttributeToxicity:         perspective.ErrNotConfigured,
		perspective.AttributeInsult:           perspective.ErrNotConfigured,
		perspective.AttributeSexuallyExplicit: perspective.ErrNotConfigured,
	}}
	c, logs := newClassifier(oracle, testSettings())

	assert.Empty(t, c.Classify(context.Background(), "c1", "text"))
	assert.Zero(t, logs.FilterField(zap.String("failure", "classification")).Len())
}

func TestClassifyLocalHate(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{}
	c, _ := newClassifier(oracle, testSettings())

	violations := c.Classify(context.Background(), "c1", "they want to EXTERMINATE everyone")
	require.Len(t, violations, 1)
	assert.Equal(t, enum.ViolationTypeHateSpeech, violations[0].Type)
	assert.Equal(t, enum.SeverityCritical, violations[0].Severity)
	assert.Contains(t, violations[0].Keywords, "exterminate")

	// Local match skips the oracle for that category only.
	assert.Equal(t, 2, oracle.calls)
}

func TestClassifyWhitelistBeforeThreshold(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.Whitelist[enum.ViolationTypeHarassment.String()] = []string{`\bkill it on stage\b`}
	oracle := &fakeOracle{scores: map[string]float64{perspective.AttributeThreat: 0.97}}
	c, _ := newClassifier(oracle, settings)

	assert.Empty(t, c.Classify(context.Background(), "c1", "You will KILL IT ON STAGE tonight"))

	violations := c.Classify(context.Background(), "c2", "something else entirely")
	require.Len(t, violations, 1)
	assert.Equal(t, enum.ViolationTypeHarassment, violations[0].Type)
}

func TestClassifySpam(t *testing.T) {
	t.Parallel()

	c, _ := newClassifier(&fakeOracle{}, testSettings())

	text := "CLICK HERE TO BUY NOW AND GET RICH TODAY WITH THIS AMAZING DEAL FROM US!!! " +
		"http://A.IO http://B.IO http://C.IO http://D.IO"
	violations := c.Classify(context.Background(), "c1", text)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, enum.ViolationTypeSpam, v.Type)
	// multiple urls 0.3 + phrases 0.2 + url 0.2 + caps 0.3, capped at 1.0
	assert.InDelta(t, 1.0, v.Confidence, 1e-9)
	assert.Contains(t, v.Patterns, classifier.HeuristicPatternPrefix+"multiple-urls")
	assert.Contains(t, v.Patterns, classifier.HeuristicPatternPrefix+"excessive-caps")
}

func TestClassifySpamBelowThreshold(t *testing.T) {
	t.Parallel()

	c, _ := newClassifier(&fakeOracle{}, testSettings())

	// A single link and a phrase score 0.4.
	assert.Empty(t, c.Classify(context.Background(), "c1", "act now at https://example.com"))
}

func TestClassifyWithoutSettings(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	oracle := &fakeOracle{scores: map[string]float64{perspective.AttributeInsult: 0.99}}
	c := classifier.New(oracle, &staticSettings{err: errors.New("store down")}, time.Second, zap.New(core))

	violations := c.Classify(context.Background(), "c1", "genocide and the bible")
	require.Len(t, violations, 2)
	assert.Equal(t, enum.ViolationTypeReligious, violations[0].Type)
	assert.Equal(t, enum.ViolationTypeHateSpeech, violations[1].Type)
	assert.Zero(t, oracle.calls)
	assert.Equal(t, 1, logs.FilterField(zap.String("failure", "classification")).Len())
}
