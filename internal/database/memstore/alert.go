package memstore

import (
	"context"
	"time"

	"github.com/robalyx/warden/internal/database/types"
)

// AlertStore mirrors models.AlertModel.
type AlertStore struct {
	s    *Store
	rows []*types.ModerationAlert
}

func (a *AlertStore) Create(_ context.Context, alert *types.ModerationAlert) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Alert.Create"); err != nil {
		return err
	}

	c := *alert
	a.rows = append(a.rows, &c)
	return nil
}

func (a *AlertStore) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Alert.DeleteBefore"); err != nil {
		return 0, err
	}

	kept := a.rows[:0]
	removed := 0
	for _, row := range a.rows {
		if row.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	a.rows = kept
	return removed, nil
}

// All returns a copy of every stored alert.
func (a *AlertStore) All() []*types.ModerationAlert {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	out := make([]*types.ModerationAlert, 0, len(a.rows))
	for _, row := range a.rows {
		c := *row
		out = append(out, &c)
	}
	return out
}
