package dbretry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robalyx/warden/internal/database/dbretry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPolicy = dbretry.Policy{
	MaxRetries:      3,
	InitialInterval: time.Millisecond,
	MaxInterval:     2 * time.Millisecond,
	MaxElapsedTime:  time.Second,
}

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "unexpected eof", err: errors.New("unexpected EOF"), want: true},
		{name: "plain", err: errors.New("syntax error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbretry.IsRetryableError(tt.err))
		})
	}
}

func TestWithPolicy(t *testing.T) {
	t.Parallel()

	t.Run("retries transient errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		got, err := dbretry.WithPolicy(t.Context(), fastPolicy, func(context.Context) (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("i/o timeout")
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("constraint")
		attempts := 0
		_, err := dbretry.WithPolicy(t.Context(), fastPolicy, func(context.Context) (int, error) {
			attempts++
			return 0, sentinel
		})
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := dbretry.WithPolicy(t.Context(), fastPolicy, func(context.Context) (int, error) {
			attempts++
			return 0, errors.New("broken pipe")
		})
		require.Error(t, err)
		assert.Equal(t, 4, attempts)
	})
}
