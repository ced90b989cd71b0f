// Package notify publishes moderation events for dashboards and persists alerts.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// Channel is the pub/sub channel every event is published on.
const Channel = "moderation:events"

// publishTimeout bounds a single PUBLISH so a slow broker never stalls the caller.
const publishTimeout = 2 * time.Second

// Event is the payload published on Channel.
type Event struct {
	Type      string         `json:"type"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// AlertStore persists alerts.
type AlertStore interface {
	Create(ctx context.Context, alert *types.ModerationAlert) error
}

// Notifier publishes events and records alerts. Delivery is fire-and-forget:
// failures are logged and never returned.
type Notifier struct {
	client rueidis.Client
	alerts AlertStore
	now    func() time.Time
	logger *zap.Logger
}

// New creates a notifier on the events database client.
func New(client rueidis.Client, alerts AlertStore, logger *zap.Logger) *Notifier {
	return &Notifier{
		client: client,
		alerts: alerts,
		now:    time.Now,
		logger: logger.Named("notify"),
	}
}

// WithClock replaces the notifier's clock.
func (n *Notifier) WithClock(now func() time.Time) *Notifier {
	n.now = now
	return n
}

// Publish sends an event to dashboards.
func (n *Notifier) Publish(ctx context.Context, event enum.EventType, userID string, data map[string]any) {
	payload, err := sonic.Marshal(Event{
		Type:      event.String(),
		UserID:    userID,
		Data:      data,
		Timestamp: n.now(),
	})
	if err != nil {
		n.logger.Warn("Failed to marshal event", zap.String("event", event.String()), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = n.client.Do(ctx, n.client.B().Publish().Channel(Channel).Message(string(payload)).Build()).Error()
	if err != nil {
		n.logger.Warn("Failed to publish event",
			zap.String("event", event.String()),
			zap.String("userID", userID),
			zap.Error(err))
		return
	}

	n.logger.Debug("Published event", zap.String("event", event.String()), zap.String("userID", userID))
}

// Alert persists an alert and publishes it as an event of the same type.
func (n *Notifier) Alert(
	ctx context.Context, event enum.EventType, severity enum.Severity, title, message, userID string, data map[string]any,
) error {
	alert, err := n.Persist(ctx, event, severity, title, message, userID, data)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"alertId":  alert.ID.String(),
		"severity": severity.String(),
		"title":    title,
		"message":  message,
	}
	for k, v := range data {
		payload[k] = v
	}
	n.Publish(ctx, event, userID, payload)

	return nil
}

// Persist stores an alert for an event that was already published elsewhere.
func (n *Notifier) Persist(
	ctx context.Context, event enum.EventType, severity enum.Severity, title, message, userID string, data map[string]any,
) (*types.ModerationAlert, error) {
	alert := &types.ModerationAlert{
		ID:        uuid.New(),
		Type:      event,
		Severity:  severity,
		Title:     title,
		Message:   message,
		UserID:    userID,
		Data:      data,
		CreatedAt: n.now(),
	}
	if err := n.alerts.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return alert, nil
}
