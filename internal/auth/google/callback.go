package google

import (
	"context"
	"fmt"
	"net/http"

	"accountswitchd/internal/auth"
	"accountswitchd/internal/switcher"
)

// HandleCallback finishes the OAuth flow: exchange the code, install the new
// session, and let the switcher capture it into the stores. A manual sign-in
// that a pending switch was waiting for completes the switch here.
func HandleCallback(provider *Provider, sw *switcher.Switcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != GetStateToken() {
			http.Error(w, "Invalid state token", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		config := oauthConfig(redirectURL(r))

		token, err := config.Exchange(context.Background(), code)
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		info, err := fetchUserInfo(r.Context(), config, token)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get user info: %v", err), http.StatusInternalServerError)
			return
		}

		provider.SetSession(&auth.Session{
			AccountID:    info.ID,
			Email:        info.Email,
			FullName:     info.Name,
			AvatarURL:    info.Picture,
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.Expiry,
		})

		if res := sw.CaptureSession(r.Context()); !res.OK {
			http.Error(w, "Signed in, but the session could not be recorded", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Sign-in Successful</title>
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; background: #1a1a2e; color: #eee; }
		.success { color: #4ade80; }
	</style>
</head>
<body>
	<h1 class="success">✅ Sign-in Successful</h1>
	<p><strong>Email:</strong> %s</p>
	<p>This account can now be switched to without re-authenticating.</p>
</body>
</html>`, info.Email)
	}
}
