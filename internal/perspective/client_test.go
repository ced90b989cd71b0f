package perspective_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/warden/internal/perspective"
	"github.com/robalyx/warden/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(url string) *perspective.Client {
	return perspective.NewClient(&config.Perspective{
		APIKey:        "test-key",
		BaseURL:       url,
		Timeout:       500,
		MaxConcurrent: 4,
		MaxRetries:    2,
		CircuitBreaker: config.CircuitBreaker{
			MaxRequests: 1,
			Timeout:     60,
		},
	}, zap.NewNop())
}

func TestScore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1alpha1/comments:analyze", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var req struct {
			Comment struct {
				Text string `json:"text"`
			} `json:"comment"`
			RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
		}
		assert.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, "you are awful", req.Comment.Text)
		assert.Contains(t, req.RequestedAttributes, perspective.AttributeInsult)

		_, _ = w.Write([]byte(`{"attributeScores":{
			"INSULT":{"summaryScore":{"value":0.91,"type":"PROBABILITY"}},
			"THREAT":{"summaryScore":{"value":0.12,"type":"PROBABILITY"}}}}`))
	}))
	t.Cleanup(server.Close)

	scores, err := newClient(server.URL).Score(context.Background(), "you are awful",
		[]string{perspective.AttributeInsult, perspective.AttributeThreat})
	require.NoError(t, err)
	assert.InDelta(t, 0.91, scores[perspective.AttributeInsult], 1e-9)
	assert.InDelta(t, 0.12, scores[perspective.AttributeThreat], 1e-9)
}

func TestScoreRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"attributeScores":{"TOXICITY":{"summaryScore":{"value":0.4}}}}`))
	}))
	t.Cleanup(server.Close)

	scores, err := newClient(server.URL).Score(context.Background(), "hello", []string{perspective.AttributeToxicity})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, scores[perspective.AttributeToxicity], 1e-9)
	assert.Equal(t, int32(3), calls.Load())
}

func TestScoreDoesNotRetryBadRequest(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	_, err := newClient(server.URL).Score(context.Background(), "hello", []string{perspective.AttributeToxicity})
	require.Error(t, err)
	assert.NotErrorIs(t, err, perspective.ErrOracleUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestScoreTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(server.URL).Score(ctx, "hello", []string{perspective.AttributeInsult})
	require.ErrorIs(t, err, perspective.ErrOracleUnavailable)
}

func TestScoreNotConfigured(t *testing.T) {
	t.Parallel()

	client := perspective.NewClient(&config.Perspective{}, zap.NewNop())
	assert.False(t, client.Enabled())

	_, err := client.Score(context.Background(), "hello", []string{perspective.AttributeInsult})
	require.ErrorIs(t, err, perspective.ErrNotConfigured)
}
