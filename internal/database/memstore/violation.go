package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// ViolationStore mirrors models.ViolationModel.
type ViolationStore struct {
	s    *Store
	rows []*types.ViolationRecord
}

func cloneViolation(r *types.ViolationRecord) *types.ViolationRecord {
	c := *r
	c.DetectedPatterns = cloneStrings(r.DetectedPatterns)
	c.Keywords = cloneStrings(r.Keywords)
	return &c
}

func (v *ViolationStore) Create(_ context.Context, record *types.ViolationRecord) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.fault("Violation.Create"); err != nil {
		return err
	}

	for _, row := range v.rows {
		if row.ID == record.ID || (row.ContentType == record.ContentType && row.ContentID == record.ContentID) {
			return types.ErrDuplicate
		}
	}
	v.rows = append(v.rows, cloneViolation(record))
	return nil
}

func (v *ViolationStore) Get(_ context.Context, id uuid.UUID) (*types.ViolationRecord, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.fault("Violation.Get"); err != nil {
		return nil, err
	}

	for _, row := range v.rows {
		if row.ID == id {
			return cloneViolation(row), nil
		}
	}
	return nil, types.ErrNotFound
}

func (v *ViolationStore) GetByContent(
	_ context.Context, contentType enum.ContentType, contentID string,
) (*types.ViolationRecord, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.fault("Violation.GetByContent"); err != nil {
		return nil, err
	}

	for _, row := range v.rows {
		if row.ContentType == contentType && row.ContentID == contentID {
			return cloneViolation(row), nil
		}
	}
	return nil, types.ErrNotFound
}

func (v *ViolationStore) UpdateStatus(
	_ context.Context, id uuid.UUID, from, to enum.ViolationStatus, reviewer string, at time.Time,
) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.fault("Violation.UpdateStatus"); err != nil {
		return err
	}

	for _, row := range v.rows {
		if row.ID == id && row.Status == from {
			row.Status = to
			row.ReviewedBy = reviewer
			reviewedAt := at
			row.ReviewedAt = &reviewedAt
			return nil
		}
	}
	return types.ErrNotFound
}

func (v *ViolationStore) ListConfirmedByUser(_ context.Context, userID string) ([]*types.ViolationRecord, error) {
	return v.filter("Violation.ListConfirmedByUser", func(r *types.ViolationRecord) bool {
		return r.UserID == userID && r.Status == enum.ViolationStatusConfirmed
	})
}

func (v *ViolationStore) CountByTypeSince(_ context.Context, vt enum.ViolationType, since time.Time) (int, error) {
	records, err := v.filter("Violation.CountByTypeSince", func(r *types.ViolationRecord) bool {
		return r.ViolationType == vt && !r.CreatedAt.Before(since)
	})
	return len(records), err
}

func (v *ViolationStore) ListConfirmedByUserSince(
	_ context.Context, userID string, since time.Time,
) ([]*types.ViolationRecord, error) {
	return v.filter("Violation.ListConfirmedByUserSince", func(r *types.ViolationRecord) bool {
		return r.UserID == userID && r.Status == enum.ViolationStatusConfirmed && !r.CreatedAt.Before(since)
	})
}

func (v *ViolationStore) ListUserIDsSince(_ context.Context, since time.Time) ([]string, error) {
	records, err := v.filter("Violation.ListUserIDsSince", func(r *types.ViolationRecord) bool {
		return !r.CreatedAt.Before(since)
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var userIDs []string
	for _, r := range records {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		userIDs = append(userIDs, r.UserID)
	}
	return userIDs, nil
}

func (v *ViolationStore) CountPending(_ context.Context) (int, error) {
	records, err := v.filter("Violation.CountPending", func(r *types.ViolationRecord) bool {
		return r.Status == enum.ViolationStatusPending
	})
	return len(records), err
}

func (v *ViolationStore) ListPending(_ context.Context, limit int) ([]*types.ViolationRecord, error) {
	records, err := v.filter("Violation.ListPending", func(r *types.ViolationRecord) bool {
		return r.Status == enum.ViolationStatusPending
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority > records[j].Priority
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (v *ViolationStore) ListSince(_ context.Context, since time.Time) ([]*types.ViolationRecord, error) {
	return v.filter("Violation.ListSince", func(r *types.ViolationRecord) bool {
		return !r.CreatedAt.Before(since)
	})
}

// All returns a copy of every stored record.
func (v *ViolationStore) All() []*types.ViolationRecord {
	records, _ := v.filter("", func(*types.ViolationRecord) bool { return true })
	return records
}

// filter returns copies of matching rows ordered by creation time.
func (v *ViolationStore) filter(method string, keep func(*types.ViolationRecord) bool) ([]*types.ViolationRecord, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if err := v.s.fault(method); err != nil {
		return nil, err
	}

	var out []*types.ViolationRecord
	for _, row := range v.rows {
		if keep(row) {
			out = append(out, cloneViolation(row))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
