package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/robalyx/warden/internal/database/types"
	"github.com/robalyx/warden/internal/database/types/enum"
)

// AccountStore mirrors models.AccountModel.
type AccountStore struct {
	s        *Store
	accounts map[string]*types.Account
	sessions []*types.Session
	apiKeys  []*types.APIKey
}

// Put stores or replaces an account.
func (a *AccountStore) Put(account *types.Account) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	c := *account
	a.accounts[account.ID] = &c
}

// PutSession stores a session.
func (a *AccountStore) PutSession(session *types.Session) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	c := *session
	a.sessions = append(a.sessions, &c)
}

// PutAPIKey stores an API key.
func (a *AccountStore) PutAPIKey(key *types.APIKey) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	c := *key
	a.apiKeys = append(a.apiKeys, &c)
}

// OpenSessions counts a user's sessions that were not revoked.
func (a *AccountStore) OpenSessions(userID string) int {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	count := 0
	for _, session := range a.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			count++
		}
	}
	return count
}

// OpenAPIKeys counts a user's API keys that were not revoked.
func (a *AccountStore) OpenAPIKeys(userID string) int {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	count := 0
	for _, key := range a.apiKeys {
		if key.UserID == userID && key.RevokedAt == nil {
			count++
		}
	}
	return count
}

func (a *AccountStore) Get(_ context.Context, userID string) (*types.Account, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.Get"); err != nil {
		return nil, err
	}

	account, ok := a.accounts[userID]
	if !ok {
		return nil, types.ErrNotFound
	}
	c := *account
	return &c, nil
}

func (a *AccountStore) SetStatus(_ context.Context, userID string, status enum.AccountStatus) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.SetStatus"); err != nil {
		return err
	}

	if account, ok := a.accounts[userID]; ok {
		account.Status = status
	}
	return nil
}

func (a *AccountStore) Anonymize(_ context.Context, userID, username, email string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.Anonymize"); err != nil {
		return err
	}

	if account, ok := a.accounts[userID]; ok {
		account.Username = username
		account.Email = email
	}
	return nil
}

func (a *AccountStore) ListSessionIPs(_ context.Context, userID string, limit int) ([]string, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.ListSessionIPs"); err != nil {
		return nil, err
	}

	latest := make(map[string]time.Time)
	for _, session := range a.sessions {
		if session.UserID != userID || session.IPAddress == "" {
			continue
		}
		if at, ok := latest[session.IPAddress]; !ok || session.CreatedAt.After(at) {
			latest[session.IPAddress] = session.CreatedAt
		}
	}

	ips := make([]string, 0, len(latest))
	for ip := range latest {
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool {
		if !latest[ips[i]].Equal(latest[ips[j]]) {
			return latest[ips[i]].After(latest[ips[j]])
		}
		return ips[i] < ips[j]
	})
	if limit > 0 && len(ips) > limit {
		ips = ips[:limit]
	}
	return ips, nil
}

func (a *AccountStore) RevokeSessions(_ context.Context, userID string, at time.Time) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.RevokeSessions"); err != nil {
		return 0, err
	}

	count := 0
	for _, session := range a.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			revokedAt := at
			session.RevokedAt = &revokedAt
			session.RefreshToken = ""
			count++
		}
	}
	return count, nil
}

func (a *AccountStore) RevokeAPIKeys(_ context.Context, userID string, at time.Time) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.s.fault("Account.RevokeAPIKeys"); err != nil {
		return 0, err
	}

	count := 0
	for _, key := range a.apiKeys {
		if key.UserID == userID && key.RevokedAt == nil {
			revokedAt := at
			key.RevokedAt = &revokedAt
			count++
		}
	}
	return count, nil
}
