// Package catalog loads identity provider definitions (OAuth endpoints,
// scopes, credential env names) from an optional YAML file, falling back to
// the built-in Google definition.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultProviderID is used when no provider is named explicitly.
	DefaultProviderID = "google"

	defaultConfigPath = "providers.yaml"
	configPathEnv     = "SWITCHD_PROVIDERS_CONFIG"
)

var providerIDRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type fileConfig struct {
	Providers []Provider `yaml:"providers"`
}

// Provider describes one identity provider's OAuth surface.
type Provider struct {
	ID              string   `yaml:"id" json:"id"`
	AuthURL         string   `yaml:"auth_url" json:"auth_url"`
	TokenURL        string   `yaml:"token_url" json:"token_url"`
	UserInfoURL     string   `yaml:"userinfo_url" json:"userinfo_url"`
	RevokeURL       string   `yaml:"revoke_url" json:"revoke_url,omitempty"`
	Scopes          []string `yaml:"scopes" json:"scopes"`
	ClientIDEnv     string   `yaml:"client_id_env" json:"client_id_env,omitempty"`
	ClientSecretEnv string   `yaml:"client_secret_env" json:"client_secret_env,omitempty"`
}

var (
	stateMu      sync.RWMutex
	initialized  bool
	providerByID map[string]Provider
	providerList []string
)

// builtinGoogle is the provider shipped with the daemon; a config file entry
// with id "google" overrides it field by field where set.
var builtinGoogle = Provider{
	ID:          "google",
	AuthURL:     "https://accounts.google.com/o/oauth2/auth",
	TokenURL:    "https://oauth2.googleapis.com/token",
	UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	RevokeURL:   "https://oauth2.googleapis.com/revoke",
	Scopes: []string{
		"openid",
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	},
	ClientIDEnv:     "GOOGLE_CLIENT_ID",
	ClientSecretEnv: "GOOGLE_CLIENT_SECRET",
}

// Init loads the catalog from the config file (if present) on top of the
// built-in definitions.
func Init() error {
	providers, err := loadProviders()

	stateMu.Lock()
	defer stateMu.Unlock()

	providerByID = make(map[string]Provider)
	providerList = providerList[:0]
	for _, p := range providers {
		if _, seen := providerByID[p.ID]; !seen {
			providerList = append(providerList, p.ID)
		}
		providerByID[p.ID] = p
	}
	initialized = true
	return err
}

func ensureInitialized() {
	stateMu.RLock()
	ok := initialized
	stateMu.RUnlock()
	if ok {
		return
	}
	_ = Init()
}

// ResetForTest resets in-memory state so tests can force a reload.
func ResetForTest() {
	stateMu.Lock()
	defer stateMu.Unlock()
	initialized = false
	providerByID = nil
	providerList = nil
}

// Get returns a provider definition by ID.
func Get(id string) (Provider, bool) {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	p, ok := providerByID[id]
	if !ok {
		return Provider{}, false
	}
	p.Scopes = append([]string(nil), p.Scopes...)
	return p, true
}

// List returns all configured provider definitions in declaration order.
func List() []Provider {
	ensureInitialized()

	stateMu.RLock()
	defer stateMu.RUnlock()

	result := make([]Provider, 0, len(providerList))
	for _, id := range providerList {
		p, ok := providerByID[id]
		if !ok {
			continue
		}
		p.Scopes = append([]string(nil), p.Scopes...)
		result = append(result, p)
	}
	return result
}

func loadProviders() ([]Provider, error) {
	providers := []Provider{builtinGoogle}

	path := os.Getenv(configPathEnv)
	if path == "" {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return providers, nil
		}
		return providers, fmt.Errorf("read provider config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return providers, fmt.Errorf("parse provider config: %w", err)
	}

	for _, p := range cfg.Providers {
		if !providerIDRegexp.MatchString(p.ID) {
			return providers, fmt.Errorf("invalid provider id %q", p.ID)
		}
		if p.ID == builtinGoogle.ID {
			providers[0] = mergeProvider(builtinGoogle, p)
			continue
		}
		if p.AuthURL == "" || p.TokenURL == "" {
			return providers, fmt.Errorf("provider %q is missing auth_url or token_url", p.ID)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// mergeProvider overlays set fields from the config entry onto the base.
func mergeProvider(base, over Provider) Provider {
	merged := base
	if over.AuthURL != "" {
		merged.AuthURL = over.AuthURL
	}
	if over.TokenURL != "" {
		merged.TokenURL = over.TokenURL
	}
	if over.UserInfoURL != "" {
		merged.UserInfoURL = over.UserInfoURL
	}
	if over.RevokeURL != "" {
		merged.RevokeURL = over.RevokeURL
	}
	if len(over.Scopes) > 0 {
		merged.Scopes = over.Scopes
	}
	if over.ClientIDEnv != "" {
		merged.ClientIDEnv = over.ClientIDEnv
	}
	if over.ClientSecretEnv != "" {
		merged.ClientSecretEnv = over.ClientSecretEnv
	}
	return merged
}
