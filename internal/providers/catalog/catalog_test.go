package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGet_BuiltinGoogle(t *testing.T) {
	ResetForTest()
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	p, ok := Get("google")
	if !ok {
		t.Fatal("built-in google provider must exist")
	}
	if p.TokenURL != "https://oauth2.googleapis.com/token" {
		t.Fatalf("unexpected token url: %s", p.TokenURL)
	}
	if len(p.Scopes) == 0 {
		t.Fatal("expected default scopes")
	}
}

func TestInit_FileOverridesAndExtraProviders(t *testing.T) {
	ResetForTest()
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	cfg := `providers:
  - id: google
    scopes: ["openid", "email"]
  - id: corp-idp
    auth_url: https://idp.corp.example/authorize
    token_url: https://idp.corp.example/token
    userinfo_url: https://idp.corp.example/userinfo
    scopes: ["openid"]
`
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	google, ok := Get("google")
	if !ok {
		t.Fatal("google must survive an override")
	}
	if len(google.Scopes) != 2 || google.Scopes[1] != "email" {
		t.Fatalf("scope override not applied: %v", google.Scopes)
	}
	// Unset fields keep their built-in values.
	if google.TokenURL != "https://oauth2.googleapis.com/token" {
		t.Fatalf("token url must keep default, got %s", google.TokenURL)
	}

	corp, ok := Get("corp-idp")
	if !ok {
		t.Fatal("declared provider missing")
	}
	if corp.TokenURL != "https://idp.corp.example/token" {
		t.Fatalf("unexpected corp token url: %s", corp.TokenURL)
	}

	if got := len(List()); got != 2 {
		t.Fatalf("expected 2 providers, got %d", got)
	}
}

func TestInit_RejectsBadProviderID(t *testing.T) {
	ResetForTest()
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  - id: \"Bad ID!\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	if err := Init(); err == nil {
		t.Fatal("expected error for invalid provider id")
	}

	// Built-ins still work after a bad config.
	if _, ok := Get("google"); !ok {
		t.Fatal("google must survive a bad config file")
	}
}
