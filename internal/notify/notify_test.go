package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupTest(t *testing.T) (*notify.Notifier, *memstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)

	store := memstore.New()
	n := notify.New(client, store.Alert(), zap.NewNop()).WithClock(func() time.Time { return now })
	return n, store, mr
}

func receive(t *testing.T, sub *miniredis.Subscriber) notify.Event {
	t.Helper()

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, notify.Channel, msg.Channel)
		var event notify.Event
		require.NoError(t, sonic.UnmarshalString(msg.Message, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
	return notify.Event{}
}

func TestPublish(t *testing.T) {
	t.Parallel()

	n, _, mr := setupTest(t)
	sub := mr.NewSubscriber()
	t.Cleanup(sub.Close)
	sub.Subscribe(notify.Channel)

	n.Publish(t.Context(), enum.EventTypePenaltyApplied, "u1", map[string]any{"penaltyType": "SHADOW_BAN"})

	event := receive(t, sub)
	assert.Equal(t, "PENALTY_APPLIED", event.Type)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "SHADOW_BAN", event.Data["penaltyType"])
	assert.True(t, now.Equal(event.Timestamp))
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	n, _, mr := setupTest(t)
	mr.Close()

	assert.NotPanics(t, func() {
		n.Publish(context.Background(), enum.EventTypeMetricsUpdated, "", nil)
	})
}

func TestAlertPersistsAndPublishes(t *testing.T) {
	t.Parallel()

	n, store, mr := setupTest(t)
	sub := mr.NewSubscriber()
	t.Cleanup(sub.Close)
	sub.Subscribe(notify.Channel)

	err := n.Alert(t.Context(), enum.EventTypeManualReviewRequired, enum.SeverityHigh,
		"Manual review required", "harassment needs review", "u1", map[string]any{"priority": 80})
	require.NoError(t, err)

	alerts := store.Alert().All()
	require.Len(t, alerts, 1)
	assert.Equal(t, enum.EventTypeManualReviewRequired, alerts[0].Type)
	assert.Equal(t, "u1", alerts[0].UserID)

	event := receive(t, sub)
	assert.Equal(t, "MANUAL_REVIEW_REQUIRED", event.Type)
	assert.Equal(t, "high", event.Data["severity"])
	assert.InDelta(t, 80, event.Data["priority"], 0)
}

func TestAlertStoreFailure(t *testing.T) {
	t.Parallel()

	n, store, _ := setupTest(t)
	store.Fail("Alert.Create", errors.New("disk full"))

	err := n.Alert(t.Context(), enum.EventTypeSystemCritical, enum.SeverityCritical, "down", "down", "", nil)
	require.Error(t, err)
}
