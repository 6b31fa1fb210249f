// Package auth declares the session provider contract the switcher depends
// on. Implementations wrap a concrete identity provider; tests use fakes.
package auth

import (
	"context"
	"time"
)

// Session is the active authenticated context.
type Session struct {
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionProvider is the identity provider surface used by the switcher.
type SessionProvider interface {
	// SignOut invalidates the current active session.
	SignOut(ctx context.Context) error
	// RefreshSession exchanges a refresh token for a new active session.
	// The returned session may carry a rotated refresh token.
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	// GetSession returns the current active session, nil when signed out.
	GetSession(ctx context.Context) (*Session, error)
}
