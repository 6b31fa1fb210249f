package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"accountswitchd/internal/auth"
)

// Provider implements auth.SessionProvider over Google's OAuth endpoints.
// The active session lives in memory; the process owns exactly one.
type Provider struct {
	mu      sync.Mutex
	current *auth.Session
}

func NewProvider() *Provider {
	return &Provider{}
}

// SignOut drops the active session. The refresh token in the stores stays
// valid; only this process's authenticated context is torn down.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		log.Printf("👋 Signed out of %s", p.current.Email)
	}
	p.current = nil
	return nil
}

// RefreshSession exchanges a stored refresh token for a new session via
// Google's token endpoint and makes it the active one.
func (p *Provider) RefreshSession(ctx context.Context, refreshToken string) (*auth.Session, error) {
	config := oauthConfig("")
	source := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := source.Token()
	if err != nil {
		return nil, err
	}

	info, err := fetchUserInfo(ctx, config, token)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}

	sess := &auth.Session{
		AccountID:    info.ID,
		Email:        info.Email,
		FullName:     info.Name,
		AvatarURL:    info.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()
	return sess, nil
}

// GetSession returns the active session, nil when signed out.
func (p *Provider) GetSession(ctx context.Context) (*auth.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

// SetSession installs a session established outside the refresh path, i.e.
// the login/callback flow after a code exchange.
func (p *Provider) SetSession(sess *auth.Session) {
	p.mu.Lock()
	p.current = sess
	p.mu.Unlock()
}

type userInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchUserInfo(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*userInfo, error) {
	client := config.Client(ctx, token)
	resp, err := client.Get(userInfoURL())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.ID == "" {
		return nil, fmt.Errorf("userinfo response missing account id")
	}
	return &info, nil
}
