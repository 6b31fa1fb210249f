// Package tokens holds refresh tokens keyed by account ID. It is kept apart
// from the account registry so rotating a credential never rewrites display
// metadata, and so the more sensitive file can carry tighter permissions.
package tokens

import "context"

// Store abstracts token persistence.
type Store interface {
	// Store upserts the refresh token for an account, replacing in place.
	Store(ctx context.Context, accountID, refreshToken string) error
	// Get returns the stored token, or "" when the account has never
	// completed a session capture on this device. Missing is not an error.
	Get(ctx context.Context, accountID string) (string, error)
	// Remove deletes the token. Removing an unknown account is not an error.
	Remove(ctx context.Context, accountID string) error
}
