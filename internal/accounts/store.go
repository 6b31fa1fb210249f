// Package accounts is the durable registry of every account the user has
// signed into on this installation, used to render the account switcher.
package accounts

import (
	"context"
	"encoding/json"
	"time"
)

// Account is a registry entry. CachedSession holds the last session snapshot
// captured for the account, nil if none was ever captured.
type Account struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Username      string          `json:"username,omitempty"`
	FullName      string          `json:"full_name,omitempty"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	LastUsedAt    time.Time       `json:"last_used_at"`
	CachedSession json.RawMessage `json:"cached_session,omitempty"`
}

// Upsert carries the identity and display fields for a registry write.
// CachedSession is deliberately absent: upserts never touch it.
type Upsert struct {
	ID        string
	Email     string
	Username  string
	FullName  string
	AvatarURL string
}

// Store abstracts registry persistence so tests can swap backends.
type Store interface {
	// List returns all known accounts, unordered. Callers sort for display.
	List(ctx context.Context) ([]Account, error)
	// Upsert inserts a new entry or merges display fields into an existing
	// one, preserving any stored cached session. Bumps LastUsedAt to now.
	Upsert(ctx context.Context, up Upsert) error
	// Remove deletes the entry. Removing an unknown ID is not an error.
	Remove(ctx context.Context, id string) error
	// TouchLastUsed bumps LastUsedAt for an existing entry, no-op if absent.
	TouchLastUsed(ctx context.Context, id string) error
	// StoreCachedSession replaces the session snapshot for an account.
	StoreCachedSession(ctx context.Context, id string, session json.RawMessage) error
	// CachedSession returns the stored snapshot, nil if absent or unparsable.
	CachedSession(ctx context.Context, id string) (json.RawMessage, error)
}
