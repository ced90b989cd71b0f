// Package classifier turns text into normalized violation detections using local
// pattern rules and an external scoring oracle.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"
	"unicode"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/perspective"
	"github.com/robalyx/warden/pkg/utils"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultOracleTimeout bounds a single category's oracle call when none is configured.
const DefaultOracleTimeout = 5 * time.Second

// Oracle scores text against named attributes.
type Oracle interface {
	Score(ctx context.Context, text string, attributes []string) (map[string]float64, error)
}

// SettingsSource provides the current thresholds and whitelist.
type SettingsSource interface {
	Get(ctx context.Context) (*types.ModerationSettings, error)
}

// Classifier runs every detector over a piece of text. It never fails: a detector
// whose dependency is unavailable reports nothing and the failure is logged.
type Classifier struct {
	oracle    Oracle
	settings  SettingsSource
	timeout   time.Duration
	whitelist *whitelist
	religious []termGroup
	tracer    trace.Tracer
	logger    *zap.Logger
}

// New creates a Classifier. oracle may be nil to disable oracle-backed categories.
func New(oracle Oracle, settings SettingsSource, timeout time.Duration, logger *zap.Logger) *Classifier {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}

	logger = logger.Named("classifier")

	normalizer := utils.NewTextNormalizer()
	groups := make([]termGroup, 0, len(religiousGroups))
	for _, group := range religiousGroups {
		terms := make([]string, 0, len(group.terms))
		for _, term := range group.terms {
			terms = append(terms, normalizer.Normalize(term))
		}
		groups = append(groups, termGroup{name: group.name, terms: utils.RemoveDuplicates(terms)})
	}

	return &Classifier{
		oracle:    oracle,
		settings:  settings,
		timeout:   timeout,
		whitelist: newWhitelist(logger),
		religious: groups,
		tracer:    otel.Tracer("github.com/robalyx/warden/internal/classifier"),
		logger:    logger,
	}
}

// Classify returns the violations found in text, ordered by detection order.
func (c *Classifier) Classify(ctx context.Context, contentID, text string) []types.ViolationDetail {
	ctx, span := c.tracer.Start(ctx, "classifier.Classify", trace.WithAttributes(
		attribute.String("content.id", contentID),
	))
	defer span.End()

	normalized := utils.NewTextNormalizer().Normalize(text)

	settings, err := c.settings.Get(ctx)
	if err != nil {
		// Without thresholds only the rules that ignore them can run.
		c.logger.Warn("Failed to load moderation settings, running local rules only",
			zap.String("failure", "classification"),
			zap.String("contentID", contentID),
			zap.Error(err))
		settings = nil
	}

	var violations []types.ViolationDetail

	if v := c.detectReligious(text); v != nil {
		violations = append(violations, *v)
	}

	if settings != nil {
		violations = append(violations, c.detectScored(ctx, contentID, text, normalized, settings)...)
	} else if v := detectLocalHate(normalized); v != nil {
		violations = append(violations, *v)
	}

	span.SetAttributes(attribute.Int("violations", len(violations)))
	return violations
}

// detectReligious matches zero-tolerance terms. One matched term is enough.
func (c *Classifier) detectReligious(text string) *types.ViolationDetail {
	normalizer := utils.NewTextNormalizer()

	var patterns, keywords []string
	for _, group := range c.religious {
		matched := normalizer.MatchTerms(text, group.terms)
		if len(matched) == 0 {
			continue
		}
		patterns = append(patterns, "religious:"+group.name)
		keywords = append(keywords, matched...)
	}

	if len(keywords) == 0 {
		return nil
	}

	return &types.ViolationDetail{
		Type:       enum.ViolationTypeReligious,
		Severity:   enum.SeverityCritical,
		Confidence: 1.0,
		Patterns:   patterns,
		Keywords:   utils.RemoveDuplicates(keywords),
	}
}

// detectScored runs the threshold-governed categories. Oracle groups run concurrently.
func (c *Classifier) detectScored(
	ctx context.Context, contentID, text, normalized string, settings *types.ModerationSettings,
) []types.ViolationDetail {
	results := make([]*types.ViolationDetail, len(oracleGroups))

	p := pool.New()
	for i, group := range oracleGroups {
		if c.whitelist.Matches(text, settings.WhitelistFor(group.category)) {
			continue
		}

		if group.category == enum.ViolationTypeHateSpeech {
			if v := detectLocalHate(normalized); v != nil {
				results[i] = v
				continue
			}
		}

		if c.oracle == nil {
			continue
		}

		threshold := settings.Thresholds.For(group.category)
		p.Go(func() {
			results[i] = c.scoreGroup(ctx, contentID, text, group, threshold)
		})
	}
	p.Wait()

	var violations []types.ViolationDetail
	for _, v := range results {
		if v != nil {
			violations = append(violations, *v)
		}
	}

	if !c.whitelist.Matches(text, settings.WhitelistFor(enum.ViolationTypeSpam)) {
		if v := detectSpam(text); v != nil && v.Confidence > settings.Thresholds.Spam {
			violations = append(violations, *v)
		}
	}

	return violations
}

// scoreGroup asks the oracle for one category under its own timeout.
func (c *Classifier) scoreGroup(
	ctx context.Context, contentID, text string, group oracleGroup, threshold float64,
) *types.ViolationDetail {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	scores, err := c.oracle.Score(ctx, text, group.attributes)
	if err != nil {
		if errors.Is(err, perspective.ErrNotConfigured) {
			return nil
		}
		c.logger.Warn("Oracle call failed, treating category as clean",
			zap.String("failure", "classification"),
			zap.String("category", group.category.String()),
			zap.String("contentID", contentID),
			zap.Error(err))
		return nil
	}

	var (
		maxScore float64
		maxAttr  string
	)
	for _, attr := range group.attributes {
		if score, ok := scores[attr]; ok && score > maxScore {
			maxScore = score
			maxAttr = attr
		}
	}

	if maxAttr == "" || maxScore <= threshold {
		return nil
	}

	return &types.ViolationDetail{
		Type:       group.category,
		Severity:   enum.SeverityFromScore(maxScore),
		Confidence: maxScore,
		Patterns:   []string{OraclePatternPrefix + maxAttr},
		Keywords:   []string{},
	}
}

// detectLocalHate matches the local hate speech rules against normalized text.
func detectLocalHate(normalized string) *types.ViolationDetail {
	var patterns, keywords []string
	for _, pattern := range hatePatterns {
		matches := pattern.FindAllString(normalized, -1)
		if len(matches) == 0 {
			continue
		}
		patterns = append(patterns, pattern.String())
		keywords = append(keywords, matches...)
	}

	if len(keywords) == 0 {
		return nil
	}

	return &types.ViolationDetail{
		Type:       enum.ViolationTypeHateSpeech,
		Severity:   enum.SeverityCritical,
		Confidence: 1.0,
		Patterns:   patterns,
		Keywords:   utils.RemoveDuplicates(keywords),
	}
}

// detectSpam scores text with local heuristics. The caller compares the score to the threshold.
func detectSpam(text string) *types.ViolationDetail {
	var (
		score    float64
		patterns []string
		keywords []string
	)

	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > 3 {
		score += 0.3
		patterns = append(patterns, HeuristicPatternPrefix+"multiple-urls")
	}

	for _, indicator := range []struct {
		pattern *regexp.Regexp
		label   string
	}{
		{spamPhrases, spamPhrases.String()},
		{pharmaTerms, pharmaTerms.String()},
	} {
		if matches := indicator.pattern.FindAllString(text, -1); len(matches) > 0 {
			score += 0.2
			patterns = append(patterns, indicator.label)
			keywords = append(keywords, matches...)
		}
	}

	if urlIndicator.MatchString(text) {
		score += 0.2
		patterns = append(patterns, HeuristicPatternPrefix+"url")
	}

	if hasRepeatedRune(text, 11) {
		score += 0.2
		patterns = append(patterns, HeuristicPatternPrefix+"repeated-characters")
	}

	runes := []rune(text)
	if len(runes) > 20 {
		var upper int
		for _, r := range runes {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		if float64(upper)/float64(len(runes)) > 0.5 {
			score += 0.3
			patterns = append(patterns, HeuristicPatternPrefix+"excessive-caps")
		}
	}

	if score == 0 {
		return nil
	}

	score = min(score, 1.0)
	return &types.ViolationDetail{
		Type:       enum.ViolationTypeSpam,
		Severity:   enum.SeverityFromScore(score),
		Confidence: score,
		Patterns:   patterns,
		Keywords:   utils.RemoveDuplicates(keywords),
	}
}

// hasRepeatedRune reports whether any rune occurs n or more times in a row.
func hasRepeatedRune(text string, n int) bool {
	var (
		prev  rune
		count int
	)
	for i, r := range text {
		if i > 0 && r == prev {
			count++
		} else {
			count = 1
		}
		if count >= n {
			return true
		}
		prev = r
	}
	return false
}

// whitelist caches compiled whitelist patterns.
type whitelist struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	logger   *zap.Logger
}

func newWhitelist(logger *zap.Logger) *whitelist {
	return &whitelist{
		compiled: make(map[string]*regexp.Regexp),
		logger:   logger,
	}
}

// Matches reports whether text matches any of the patterns, case-insensitively.
func (w *whitelist) Matches(text string, patterns []string) bool {
	for _, pattern := range patterns {
		re, err := w.compile(pattern)
		if err != nil {
			w.logger.Warn("Skipping invalid whitelist pattern", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (w *whitelist) compile(pattern string) (*regexp.Regexp, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if re, ok := w.compiled[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile whitelist pattern: %w", err)
	}
	w.compiled[pattern] = re
	return re, nil
}
