package memstore

import (
	"context"

	"github.com/robalyx/warden/internal/database/types"
)

// ReputationStore mirrors models.ReputationModel.
type ReputationStore struct {
	s    *Store
	rows map[string]*types.UserReputation
}

func cloneReputation(r *types.UserReputation) *types.UserReputation {
	c := *r
	if r.LastViolationAt != nil {
		at := *r.LastViolationAt
		c.LastViolationAt = &at
	}
	return &c
}

func (r *ReputationStore) Get(_ context.Context, userID string) (*types.UserReputation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Reputation.Get"); err != nil {
		return nil, err
	}

	rep, ok := r.rows[userID]
	if !ok {
		return nil, types.ErrNotFound
	}
	return cloneReputation(rep), nil
}

func (r *ReputationStore) Upsert(_ context.Context, rep *types.UserReputation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fault("Reputation.Upsert"); err != nil {
		return err
	}

	r.rows[rep.UserID] = cloneReputation(rep)
	return nil
}
