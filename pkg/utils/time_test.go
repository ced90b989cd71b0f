package utils_test

import (
	"testing"
	"time"

	"github.com/robalyx/warden/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "days", input: "30d", want: now.AddDate(0, 0, -30)},
		{name: "duration", input: "72h", want: now.Add(-72 * time.Hour)},
		{name: "date", input: "2025-01-02", want: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "datetime", input: "2025-01-02 03:04:05", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "utc suffix", input: "2025-01-02 03:04:05 utc", want: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "rfc3339", input: "2025-01-02T03:04:05+02:00", want: time.Date(2025, 1, 2, 1, 4, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseCutoff(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseCutoffInvalid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	_, err := utils.ParseCutoff("", now)
	require.ErrorIs(t, err, utils.ErrInvalidTimeFormat)

	_, err = utils.ParseCutoff("yesterday", now)
	require.ErrorIs(t, err, utils.ErrInvalidTimeFormat)

	_, err = utils.ParseCutoff("2025-01-02 03:04:05 Mars/Olympus", now)
	require.ErrorIs(t, err, utils.ErrInvalidTimezone)
}
