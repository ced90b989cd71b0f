package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/memstore"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolationUniquePerContent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()

	record := &types.ViolationRecord{
		ID:          uuid.New(),
		UserID:      "u1",
		ContentID:   "c1",
		ContentType: enum.ContentTypeArticle,
		Status:      enum.ViolationStatusPending,
	}
	require.NoError(t, store.Violation().Create(ctx, record))

	dup := *record
	dup.ID = uuid.New()
	require.ErrorIs(t, store.Violation().Create(ctx, &dup), types.ErrDuplicate)

	got, err := store.Violation().GetByContent(ctx, enum.ContentTypeArticle, "c1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
}

func TestUpdateStatusRequiresExpectedStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	id := uuid.New()
	require.NoError(t, store.Violation().Create(ctx, &types.ViolationRecord{
		ID: id, ContentID: "c", Status: enum.ViolationStatusConfirmed,
	}))

	err := store.Violation().UpdateStatus(ctx, id,
		enum.ViolationStatusPending, enum.ViolationStatusConfirmed, "r", time.Now())
	require.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, store.Violation().UpdateStatus(ctx, id,
		enum.ViolationStatusConfirmed, enum.ViolationStatusFalsePositive, "r", time.Now()))
}

func TestPenaltyIdempotencyKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()

	first := &types.Penalty{ID: uuid.New(), UserID: "u1", IdempotencyKey: "violation:1", IsActive: true}
	created, err := store.Penalty().Create(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &types.Penalty{ID: uuid.New(), UserID: "u1", IdempotencyKey: "violation:1", IsActive: true}
	created, err = store.Penalty().Create(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Len(t, store.Penalty().All(), 1)
}

func TestFail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	boom := errors.New("boom")

	store.Fail("Reputation.Upsert", boom)
	require.ErrorIs(t, store.Reputation().Upsert(ctx, types.DefaultReputation("u1")), boom)

	store.Fail("Reputation.Upsert", nil)
	require.NoError(t, store.Reputation().Upsert(ctx, types.DefaultReputation("u1")))
}

func TestListPendingOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memstore.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, p := range []int{60, 90, 90, 70} {
		require.NoError(t, store.Violation().Create(ctx, &types.ViolationRecord{
			ID:        uuid.New(),
			ContentID: string(rune('a' + i)),
			Priority:  p,
			Status:    enum.ViolationStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := store.Violation().ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "b", records[0].ContentID)
	assert.Equal(t, "c", records[1].ContentID)
	assert.Equal(t, "d", records[2].ContentID)
	assert.Equal(t, "a", records[3].ContentID)
}
