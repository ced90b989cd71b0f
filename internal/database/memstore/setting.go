package memstore

import (
	"context"

	"github.com/robalyx/warden/internal/database/types"
)

// SettingStore mirrors models.SettingModel.
type SettingStore struct {
	s     *Store
	row   *types.ModerationSettings
	saves int
}

func (st *SettingStore) Get(_ context.Context) (*types.ModerationSettings, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.s.fault("Setting.Get"); err != nil {
		return nil, err
	}

	if st.row == nil {
		return nil, types.ErrNotFound
	}
	return st.row.Clone(), nil
}

func (st *SettingStore) Save(_ context.Context, settings *types.ModerationSettings) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if err := st.s.fault("Setting.Save"); err != nil {
		return err
	}

	settings.ID = types.ModerationSettingsID
	st.row = settings.Clone()
	st.saves++
	return nil
}

// Saves returns how many times the row was written.
func (st *SettingStore) Saves() int {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.saves
}
