package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/warden/internal/database/types"
)

// PenaltyStore mirrors models.PenaltyModel.
type PenaltyStore struct {
	s    *Store
	rows []*types.Penalty
}

func clonePenalty(p *types.Penalty) *types.Penalty {
	c := *p
	if p.ViolationRecordID != nil {
		id := *p.ViolationRecordID
		c.ViolationRecordID = &id
	}
	if p.EndDate != nil {
		end := *p.EndDate
		c.EndDate = &end
	}
	if p.EnforcedAt != nil {
		at := *p.EnforcedAt
		c.EnforcedAt = &at
	}
	c.Metadata.CapturedIPs = cloneStrings(p.Metadata.CapturedIPs)
	return &c
}

func (p *PenaltyStore) Create(_ context.Context, penalty *types.Penalty) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault("Penalty.Create"); err != nil {
		return false, err
	}

	for _, row := range p.rows {
		if row.IdempotencyKey == penalty.IdempotencyKey {
			return false, nil
		}
	}
	p.rows = append(p.rows, clonePenalty(penalty))
	return true, nil
}

func (p *PenaltyStore) GetByKey(_ context.Context, key string) (*types.Penalty, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault("Penalty.GetByKey"); err != nil {
		return nil, err
	}

	for _, row := range p.rows {
		if row.IdempotencyKey == key {
			return clonePenalty(row), nil
		}
	}
	return nil, types.ErrNotFound
}

func (p *PenaltyStore) ListByUser(_ context.Context, userID string) ([]*types.Penalty, error) {
	out, err := p.filter("Penalty.ListByUser", func(row *types.Penalty) bool {
		return row.UserID == userID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (p *PenaltyStore) ListExpired(_ context.Context, now time.Time, limit int) ([]*types.Penalty, error) {
	out, err := p.filter("Penalty.ListExpired", func(row *types.Penalty) bool {
		return row.IsActive && row.IsExpired(now)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndDate.Before(*out[j].EndDate)
	})
	return limitPenalties(out, limit), nil
}

func (p *PenaltyStore) Deactivate(_ context.Context, ids []uuid.UUID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault("Penalty.Deactivate"); err != nil {
		return err
	}

	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for _, row := range p.rows {
		if _, ok := wanted[row.ID]; ok {
			row.IsActive = false
		}
	}
	return nil
}

func (p *PenaltyStore) DeactivateByUser(_ context.Context, userID string) (int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault("Penalty.DeactivateByUser"); err != nil {
		return 0, err
	}

	count := 0
	for _, row := range p.rows {
		if row.UserID == userID && row.IsActive {
			row.IsActive = false
			count++
		}
	}
	return count, nil
}

func (p *PenaltyStore) ListUnenforced(_ context.Context, before time.Time, limit int) ([]*types.Penalty, error) {
	out, err := p.filter("Penalty.ListUnenforced", func(row *types.Penalty) bool {
		return row.IsActive && row.EnforcedAt == nil && row.CreatedAt.Before(before)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limitPenalties(out, limit), nil
}

func (p *PenaltyStore) MarkEnforced(_ context.Context, id uuid.UUID, at time.Time) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault("Penalty.MarkEnforced"); err != nil {
		return err
	}

	for _, row := range p.rows {
		if row.ID == id {
			enforcedAt := at
			row.EnforcedAt = &enforcedAt
		}
	}
	return nil
}

func (p *PenaltyStore) ListActiveUserIDs(_ context.Context) ([]string, error) {
	out, err := p.filter("Penalty.ListActiveUserIDs", func(row *types.Penalty) bool {
		return row.IsActive
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var userIDs []string
	for _, row := range out {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		userIDs = append(userIDs, row.UserID)
	}
	return userIDs, nil
}

func (p *PenaltyStore) CountActive(_ context.Context) (int, error) {
	out, err := p.filter("Penalty.CountActive", func(row *types.Penalty) bool {
		return row.IsActive
	})
	return len(out), err
}

// All returns a copy of every stored penalty in insertion order.
func (p *PenaltyStore) All() []*types.Penalty {
	out, _ := p.filter("", func(*types.Penalty) bool { return true })
	return out
}

func (p *PenaltyStore) filter(method string, keep func(*types.Penalty) bool) ([]*types.Penalty, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if err := p.s.fault(method); err != nil {
		return nil, err
	}

	var out []*types.Penalty
	for _, row := range p.rows {
		if keep(row) {
			out = append(out, clonePenalty(row))
		}
	}
	return out, nil
}

func limitPenalties(penalties []*types.Penalty, limit int) []*types.Penalty {
	if limit > 0 && len(penalties) > limit {
		return penalties[:limit]
	}
	return penalties
}
