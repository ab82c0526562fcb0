package vraseniors

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CLAYYO/VRASeniors/secrets"
)

func TestSetDefaults(t *testing.T) {
	c := SiteConfig{AdminPassword: "admin-pass"}
	c.setDefaults()
	if c.EditorPassword != "admin-pass" {
		t.Errorf("EditorPassword = %q, want the admin password", c.EditorPassword)
	}
	if c.SiteUsername != "vra-member" || c.AdminUsername != "admin" {
		t.Errorf("usernames = %q, %q", c.SiteUsername, c.AdminUsername)
	}
	if c.EditorTTL != 2*time.Hour {
		t.Errorf("EditorTTL = %v", c.EditorTTL)
	}
	if len(c.Nav) != 6 || c.Nav[4].Label != "Hall of Fame" {
		t.Errorf("Nav = %+v", c.Nav)
	}
	if c.PublishBackend != BackendGoGit {
		t.Errorf("PublishBackend = %q", c.PublishBackend)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SITE_PASSWORD=from-dotenv\nEDITOR_TTL=30m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	siteFile := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(siteFile, []byte(`
name: VRA Seniors
description: From YAML
nav:
  - label: Home
    href: /
  - label: Golf
    href: /golf/
`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SITE_PASSWORD", "")
	os.Unsetenv("SITE_PASSWORD")
	t.Setenv("EDITOR_TTL", "")
	os.Unsetenv("EDITOR_TTL")
	t.Setenv("SITE_NAME", "")
	t.Setenv("SITE_DESCRIPTION", "From env")
	t.Setenv("ADMIN_PASSWORD", "env://VRA_TEST_ADMIN")
	t.Setenv("SESSION_SECRET", "literal-secret")
	t.Setenv("COOKIE_SECURE", "true")

	resolver := secrets.NewResolver(secrets.WithEnvLookup(func(name string) (string, bool) {
		if name == "VRA_TEST_ADMIN" {
			return "resolved-admin", true
		}
		return "", false
	}))
	cfg, err := LoadConfig(context.Background(), envFile, siteFile, resolver)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SitePassword != "from-dotenv" {
		t.Errorf("SitePassword = %q", cfg.SitePassword)
	}
	if cfg.EditorTTL != 30*time.Minute {
		t.Errorf("EditorTTL = %v", cfg.EditorTTL)
	}
	if cfg.AdminPassword != "resolved-admin" {
		t.Errorf("AdminPassword = %q", cfg.AdminPassword)
	}
	if cfg.SessionSecret != "literal-secret" || !cfg.CookieSecure {
		t.Errorf("SessionSecret = %q, CookieSecure = %v", cfg.SessionSecret, cfg.CookieSecure)
	}
	if cfg.Name != "VRA Seniors" || cfg.Description != "From env" {
		t.Errorf("Name = %q, Description = %q", cfg.Name, cfg.Description)
	}
	if len(cfg.Nav) != 2 || cfg.Nav[1].Href != "/golf/" {
		t.Errorf("Nav = %+v", cfg.Nav)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("COOKIE_SECURE", "maybe")
	if _, err := LoadConfig(context.Background(), "", "", nil); err == nil {
		t.Error("expected error for bad COOKIE_SECURE")
	}
	t.Setenv("COOKIE_SECURE", "")

	bad := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(bad, []byte("nav: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(context.Background(), "", bad, nil); err == nil {
		t.Error("expected error for malformed site file")
	}

	if _, err := LoadConfig(context.Background(), filepath.Join(dir, "missing.env"), filepath.Join(dir, "missing.yaml"), nil); err != nil {
		t.Errorf("missing optional files: %v", err)
	}

	t.Setenv("ADMIN_PASSWORD", "env://VRA_TEST_UNSET")
	resolver := secrets.NewResolver(secrets.WithEnvLookup(func(string) (string, bool) { return "", false }))
	if _, err := LoadConfig(context.Background(), "", "", resolver); err == nil {
		t.Error("expected error for unresolved secret")
	}
}
