// Package enforcement executes the side effects of penalties against the account
// store, the content store and the Redis enforcement database.
package enforcement

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// ShadowFlagKey returns the key marking a user shadow banned.
func ShadowFlagKey(userID string) string {
	return "user:" + userID + ":shadow_banned"
}

// BanFlagKey returns the key marking a user banned.
func BanFlagKey(userID string) string {
	return "user:" + userID + ":banned"
}

// DeniedIPKey returns the deny-list key of an IP address.
func DeniedIPKey(ip string) string {
	return "banned:ip:" + ip
}

// DeniedEmailKey returns the deny-list key of an email address. The address is
// stored as a BLAKE2b digest since official bans anonymize the account.
func DeniedEmailKey(email string) string {
	sum := blake2b.Sum256([]byte(normalizeEmail(email)))
	return "banned:email:" + hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DenyEntry is the value stored for a deny-listed identifier.
type DenyEntry struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username,omitempty"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"bannedAt"`
}

// Flags reads and writes per-user enforcement flags and the identifier deny-lists.
type Flags struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewFlags creates a flag store on the enforcement database client.
func NewFlags(client rueidis.Client, logger *zap.Logger) *Flags {
	return &Flags{
		client: client,
		logger: logger.Named("enforcement_flags"),
	}
}

// SetShadowBanned marks a user shadow banned. A zero ttl never expires.
func (f *Flags) SetShadowBanned(ctx context.Context, userID string, ttl time.Duration) error {
	return f.set(ctx, ShadowFlagKey(userID), "1", ttl)
}

// SetBanned marks a user banned. A zero ttl never expires.
func (f *Flags) SetBanned(ctx context.Context, userID string, ttl time.Duration) error {
	return f.set(ctx, BanFlagKey(userID), "1", ttl)
}

// Clear removes both flags of a user.
func (f *Flags) Clear(ctx context.Context, userID string) error {
	err := f.client.Do(ctx, f.client.B().Del().Key(ShadowFlagKey(userID), BanFlagKey(userID)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to clear flags of user %s: %w", userID, err)
	}
	return nil
}

// IsShadowBanned reports whether a user carries the shadow-ban flag.
func (f *Flags) IsShadowBanned(ctx context.Context, userID string) (bool, error) {
	return f.exists(ctx, ShadowFlagKey(userID))
}

// IsBanned reports whether a user carries the ban flag.
func (f *Flags) IsBanned(ctx context.Context, userID string) (bool, error) {
	return f.exists(ctx, BanFlagKey(userID))
}

// DenyIP adds an IP address to the deny-list.
func (f *Flags) DenyIP(ctx context.Context, ip string, entry DenyEntry, ttl time.Duration) error {
	return f.setEntry(ctx, DeniedIPKey(ip), entry, ttl)
}

// DenyEmail adds an email address to the deny-list permanently.
func (f *Flags) DenyEmail(ctx context.Context, email string, entry DenyEntry) error {
	return f.setEntry(ctx, DeniedEmailKey(email), entry, 0)
}

// IsIPBanned reports whether an IP address is deny-listed.
func (f *Flags) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	return f.exists(ctx, DeniedIPKey(ip))
}

// IsEmailBanned reports whether an email address is deny-listed.
func (f *Flags) IsEmailBanned(ctx context.Context, email string) (bool, error) {
	return f.exists(ctx, DeniedEmailKey(email))
}

// DeniedIP returns the deny-list entry of an IP address, or nil when it is not listed.
func (f *Flags) DeniedIP(ctx context.Context, ip string) (*DenyEntry, error) {
	data, err := f.client.Do(ctx, f.client.B().Get().Key(DeniedIPKey(ip)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deny-list entry: %w", err)
	}

	var entry DenyEntry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deny-list entry: %w", err)
	}
	return &entry, nil
}

func (f *Flags) setEntry(ctx context.Context, key string, entry DenyEntry, ttl time.Duration) error {
	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal deny-list entry: %w", err)
	}
	return f.set(ctx, key, string(data), ttl)
}

func (f *Flags) set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := f.client.B().Set().Key(key).Value(value)

	var err error
	if ttl > 0 {
		err = f.client.Do(ctx, cmd.Ex(ttl).Build()).Error()
	} else {
		err = f.client.Do(ctx, cmd.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	f.logger.Debug("Set enforcement key", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (f *Flags) exists(ctx context.Context, key string) (bool, error) {
	n, err := f.client.Do(ctx, f.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}
