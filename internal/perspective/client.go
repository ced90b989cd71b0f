// Package perspective is an HTTP client for a Perspective-compatible comment analyzer.
package perspective

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/robalyx/warden/internal/setup/config"
	"github.com/robalyx/warden/pkg/utils"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Attribute names understood by the analyzer.
const (
	AttributeToxicity         = "TOXICITY"
	AttributeSevereToxicity   = "SEVERE_TOXICITY"
	AttributeIdentityAttack   = "IDENTITY_ATTACK"
	AttributeInsult           = "INSULT"
	AttributeThreat           = "THREAT"
	AttributeProfanity        = "PROFANITY"
	AttributeSexuallyExplicit = "SEXUALLY_EXPLICIT"
)

const defaultBaseURL = "https://commentanalyzer.googleapis.com"

var (
	// ErrOracleUnavailable covers timeouts, 5xx responses and an open circuit.
	ErrOracleUnavailable = errors.New("classification oracle unavailable")
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("classification oracle not configured")
	// errBadRequest marks 4xx responses, which are not retried.
	errBadRequest = errors.New("classification oracle rejected request")
)

type analyzeRequest struct {
	Comment             textEntry           `json:"comment"`
	Languages           []string            `json:"languages,omitempty"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
	DoNotStore          bool                `json:"doNotStore"`
}

type textEntry struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Client scores text against analyzer attributes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker
	semaphore  *semaphore.Weighted
	retry      utils.RetryOptions
	logger     *zap.Logger
}

// NewClient creates a new analyzer client.
func NewClient(cfg *config.Perspective, logger *zap.Logger) *Client {
	logger = logger.Named("perspective")

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "perspective",
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
		Timeout:     time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// Rejected requests say nothing about the oracle's health.
			return err == nil || errors.Is(err, errBadRequest)
		},
		OnStateChange: func(_ string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		semaphore:  semaphore.NewWeighted(maxConcurrent),
		retry:      utils.GetOracleRetryOptions(cfg.MaxRetries),
		logger:     logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Score returns the summary score of each requested attribute.
// Attributes missing from the response are omitted from the result.
func (c *Client) Score(ctx context.Context, text string, attributes []string) (map[string]float64, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	if err := c.semaphore.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	defer c.semaphore.Release(1)

	requested := make(map[string]struct{}, len(attributes))
	for _, attr := range attributes {
		requested[attr] = struct{}{}
	}

	body, err := sonic.Marshal(analyzeRequest{
		Comment:             textEntry{Text: text},
		Languages:           []string{"en"},
		RequestedAttributes: requested,
		DoNotStore:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	var attempt int
	scores, err := utils.WithRetry(ctx, func() (map[string]float64, error) {
		attempt++

		result, err := c.breaker.Execute(func() (any, error) {
			return c.analyze(ctx, body)
		})
		if err != nil {
			switch {
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				return nil, backoff.Permanent(err)
			case errors.Is(err, errBadRequest), ctx.Err() != nil:
				return nil, backoff.Permanent(err)
			default:
				c.logger.Debug("Analyze request failed",
					zap.Int("attempt", attempt),
					zap.Error(err))
				return nil, err
			}
		}

		return result.(map[string]float64), nil
	}, c.retry)
	if err != nil {
		if errors.Is(err, errBadRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}

	return scores, nil
}

func (c *Client) analyze(ctx context.Context, body []byte) (map[string]float64, error) {
	endpoint := c.baseURL + "/v1alpha1/comments:analyze?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send analyze request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("analyze request returned status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d: %s", errBadRequest, resp.StatusCode, utils.Truncate(string(data), 200))
	}

	var parsed analyzeResponse
	if err := sonic.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	scores := make(map[string]float64, len(parsed.AttributeScores))
	for attr, score := range parsed.AttributeScores {
		scores[attr] = score.SummaryScore.Value
	}
	return scores, nil
}
