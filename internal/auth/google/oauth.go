package google

import (
	"os"

	"golang.org/x/oauth2"

	"accountswitchd/internal/providers/catalog"
)

// oauthConfig builds the oauth2 config for the catalog's google definition.
// Client credentials come from the env names the catalog declares.
func oauthConfig(redirectURL string) *oauth2.Config {
	def, _ := catalog.Get(catalog.DefaultProviderID)

	return &oauth2.Config{
		ClientID:     os.Getenv(def.ClientIDEnv),
		ClientSecret: os.Getenv(def.ClientSecretEnv),
		RedirectURL:  redirectURL,
		Scopes:       def.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  def.AuthURL,
			TokenURL: def.TokenURL,
		},
	}
}

// userInfoURL returns the catalog's userinfo endpoint for google.
func userInfoURL() string {
	def, _ := catalog.Get(catalog.DefaultProviderID)
	return def.UserInfoURL
}
