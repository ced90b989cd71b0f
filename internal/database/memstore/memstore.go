// Package memstore provides in-memory stores with the same method sets as the
// bun models so that moderation components can be exercised without PostgreSQL.
package memstore

import (
	"sync"

	"github.com/robalyx/warden/internal/database/types"
)

// Store groups every in-memory table behind one mutex.
type Store struct {
	mu     sync.Mutex
	faults map[string]error

	violations     *ViolationStore
	penalties      *PenaltyStore
	reputations    *ReputationStore
	falsePositives *FalsePositiveStore
	settings       *SettingStore
	accounts       *AccountStore
	contents       *ContentStore
	alerts         *AlertStore
}

// New creates an empty Store.
func New() *Store {
	s := &Store{faults: make(map[string]error)}
	s.violations = &ViolationStore{s: s}
	s.penalties = &PenaltyStore{s: s}
	s.reputations = &ReputationStore{s: s, rows: make(map[string]*types.UserReputation)}
	s.falsePositives = &FalsePositiveStore{s: s}
	s.settings = &SettingStore{s: s}
	s.accounts = &AccountStore{s: s, accounts: make(map[string]*types.Account)}
	s.contents = &ContentStore{s: s}
	s.alerts = &AlertStore{s: s}
	return s
}

// Fail makes every call of the named method return err until cleared with a nil err.
// Method names take the form "Violation.Create" or "Account.RevokeSessions".
func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, method)
		return
	}
	s.faults[method] = err
}

// fault must be called with s.mu held.
func (s *Store) fault(method string) error {
	return s.faults[method]
}

func (s *Store) Violation() *ViolationStore         { return s.violations }
func (s *Store) Penalty() *PenaltyStore             { return s.penalties }
func (s *Store) Reputation() *ReputationStore       { return s.reputations }
func (s *Store) FalsePositive() *FalsePositiveStore { return s.falsePositives }
func (s *Store) Setting() *SettingStore             { return s.settings }
func (s *Store) Account() *AccountStore             { return s.accounts }
func (s *Store) Content() *ContentStore             { return s.contents }
func (s *Store) Alert() *AlertStore                 { return s.alerts }

func cloneStrings(v []string) []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v...)
}
