package google

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// stateToken protects the OAuth flow against CSRF.
var stateToken string

func init() {
	b := make([]byte, 16)
	rand.Read(b)
	stateToken = hex.EncodeToString(b)
}

// HandleLogin redirects to Google's consent page. A login_hint query
// parameter pre-fills the account chooser, which the switch flow uses to
// point the user at the account a pending switch is waiting for.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	config := oauthConfig(redirectURL(r))

	// Offline access with forced approval so Google issues a refresh token
	// even for accounts that consented before.
	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	}
	if hint := r.URL.Query().Get("login_hint"); hint != "" {
		opts = append(opts, oauth2.SetAuthURLParam("login_hint", hint))
	}

	http.Redirect(w, r, config.AuthCodeURL(stateToken, opts...), http.StatusTemporaryRedirect)
}

// GetStateToken returns the current CSRF state token for validation.
func GetStateToken() string {
	return stateToken
}

// redirectURL reconstructs the callback URL from the incoming request so the
// daemon works behind proxies and on non-standard ports without config.
func redirectURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/auth/google/callback", scheme, r.Host)
}
