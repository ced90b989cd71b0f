package moderation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/robalyx/warden/internal/database/types/enum"
)

// TopPatternCount is the number of patterns FalsePositiveStats reports.
const TopPatternCount = 10

// Metrics summarizes moderation activity over a window.
type Metrics struct {
	Since             time.Time      `json:"since"`
	TotalViolations   int            `json:"totalViolations"`
	ByType            map[string]int `json:"byType"`
	BySeverity        map[string]int `json:"bySeverity"`
	ByStatus          map[string]int `json:"byStatus"`
	AverageConfidence float64        `json:"averageConfidence"`
	FalsePositives    int            `json:"falsePositives"`
	FalsePositiveRate float64        `json:"falsePositiveRate"`
	ActivePenalties   int            `json:"activePenalties"`
	PendingReview     int            `json:"pendingReview"`
}

// Metrics counts the violations and corrections recorded within window.
func (e *Engine) Metrics(ctx context.Context, window time.Duration) (*Metrics, error) {
	since := e.now().Add(-window)

	records, err := e.deps.Violations.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}

	corrections, err := e.deps.FalsePositives.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list false positives: %w", err)
	}

	active, err := e.deps.Penalties.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active penalties: %w", err)
	}

	m := &Metrics{
		Since:           since,
		TotalViolations: len(records),
		ByType:          make(map[string]int),
		BySeverity:      make(map[string]int),
		ByStatus:        make(map[string]int),
		FalsePositives:  len(corrections),
		ActivePenalties: active,
	}

	var confidence float64
	for _, r := range records {
		m.ByType[r.ViolationType.String()]++
		m.BySeverity[r.Severity.String()]++
		m.ByStatus[r.Status.String()]++
		confidence += r.Confidence
		if r.Status == enum.ViolationStatusPending {
			m.PendingReview++
		}
	}
	if len(records) > 0 {
		m.AverageConfidence = confidence / float64(len(records))
		m.FalsePositiveRate = float64(len(corrections)) / float64(len(records))
	}

	return m, nil
}

// PatternCount is a detected pattern and how many corrections carried it.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

// FalsePositiveStats describes the corrections recorded within a window.
type FalsePositiveStats struct {
	Since       time.Time          `json:"since"`
	Total       int                `json:"total"`
	ByType      map[string]int     `json:"byType"`
	RateByType  map[string]float64 `json:"rateByType"`
	TopPatterns []PatternCount     `json:"topPatterns"`
}

// FalsePositiveStats groups corrections by category and ranks their patterns.
func (e *Engine) FalsePositiveStats(ctx context.Context, window time.Duration) (*FalsePositiveStats, error) {
	since := e.now().Add(-window)

	corrections, err := e.deps.FalsePositives.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list false positives: %w", err)
	}

	stats := &FalsePositiveStats{
		Since:      since,
		Total:      len(corrections),
		ByType:     make(map[string]int),
		RateByType: make(map[string]float64),
	}

	patterns := make(map[string]int)
	for _, c := range corrections {
		stats.ByType[c.OriginalViolationType.String()]++
		for _, p := range c.Patterns {
			patterns[p]++
		}
	}

	for _, vt := range enum.ViolationTypeValues() {
		count := stats.ByType[vt.String()]
		if count == 0 {
			continue
		}
		total, err := e.deps.Violations.CountByTypeSince(ctx, vt, since)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s violations: %w", vt, err)
		}
		if total > 0 {
			stats.RateByType[vt.String()] = float64(count) / float64(total)
		}
	}

	for pattern, count := range patterns {
		stats.TopPatterns = append(stats.TopPatterns, PatternCount{Pattern: pattern, Count: count})
	}
	slices.SortFunc(stats.TopPatterns, func(a, b PatternCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	if len(stats.TopPatterns) > TopPatternCount {
		stats.TopPatterns = stats.TopPatterns[:TopPatternCount]
	}

	return stats, nil
}
