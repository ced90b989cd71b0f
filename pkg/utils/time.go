package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidTimezone   = errors.New("invalid timezone")
)

// ParseCutoff parses an absolute time or a relative age such as "72h" or "30d".
// Relative ages are measured back from now. Times without a zone are UTC.
func ParseCutoff(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidTimeFormat
	}

	if days, ok := strings.CutSuffix(value, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			return now.AddDate(0, 0, -n), nil
		}
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return now.Add(-d), nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}

	parts := strings.Fields(value)
	switch len(parts) {
	case 2:
		t, err := time.Parse(time.DateTime, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidTimeFormat, err)
		}
		return t.UTC(), nil
	case 3:
		t, err := time.Parse(time.DateTime, parts[0]+" "+parts[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: failed to parse datetime part: %w", ErrInvalidTimeFormat, err)
		}

		if strings.EqualFold(parts[2], "UTC") {
			return t.UTC(), nil
		}

		loc, err := time.LoadLocation(parts[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s: %w", ErrInvalidTimezone, parts[2], err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: unsupported format: %s", ErrInvalidTimeFormat, value)
}
