package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// FalsePositiveStore mirrors models.FalsePositiveModel.
type FalsePositiveStore struct {
	s    *Store
	rows []*types.FalsePositiveRecord
}

func cloneFalsePositive(r *types.FalsePositiveRecord) *types.FalsePositiveRecord {
	c := *r
	c.Patterns = cloneStrings(r.Patterns)
	c.Keywords = cloneStrings(r.Keywords)
	return &c
}

func (f *FalsePositiveStore) Create(_ context.Context, record *types.FalsePositiveRecord) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault("FalsePositive.Create"); err != nil {
		return err
	}

	for _, row := range f.rows {
		if row.ID == record.ID || row.ViolationRecordID == record.ViolationRecordID {
			return types.ErrDuplicate
		}
	}
	f.rows = append(f.rows, cloneFalsePositive(record))
	return nil
}

func (f *FalsePositiveStore) GetByViolation(_ context.Context, violationID uuid.UUID) (*types.FalsePositiveRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault("FalsePositive.GetByViolation"); err != nil {
		return nil, err
	}

	for _, row := range f.rows {
		if row.ViolationRecordID == violationID {
			return cloneFalsePositive(row), nil
		}
	}
	return nil, types.ErrNotFound
}

func (f *FalsePositiveStore) CountByTypeSince(_ context.Context, vt enum.ViolationType, since time.Time) (int, error) {
	out, err := f.filter("FalsePositive.CountByTypeSince", func(r *types.FalsePositiveRecord) bool {
		return r.OriginalViolationType == vt && !r.CreatedAt.Before(since)
	})
	return len(out), err
}

func (f *FalsePositiveStore) ListByTypeSince(
	_ context.Context, vt enum.ViolationType, since time.Time, limit int,
) ([]*types.FalsePositiveRecord, error) {
	out, err := f.filter("FalsePositive.ListByTypeSince", func(r *types.FalsePositiveRecord) bool {
		return r.OriginalViolationType == vt && !r.CreatedAt.Before(since)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FalsePositiveStore) ListSince(_ context.Context, since time.Time) ([]*types.FalsePositiveRecord, error) {
	return f.filter("FalsePositive.ListSince", func(r *types.FalsePositiveRecord) bool {
		return !r.CreatedAt.Before(since)
	})
}

func (f *FalsePositiveStore) CountByUser(_ context.Context, userID string) (int, error) {
	out, err := f.filter("FalsePositive.CountByUser", func(r *types.FalsePositiveRecord) bool {
		return r.UserID == userID
	})
	return len(out), err
}

func (f *FalsePositiveStore) filter(
	method string, keep func(*types.FalsePositiveRecord) bool,
) ([]*types.FalsePositiveRecord, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if err := f.s.fault(method); err != nil {
		return nil, err
	}

	var out []*types.FalsePositiveRecord
	for _, row := range f.rows {
		if keep(row) {
			out = append(out, cloneFalsePositive(row))
		}
	}
	return out, nil
}
