package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Repo() != "ai-fresh/ccgate" {
		t.Errorf("Repo() = %q, want ai-fresh/ccgate", cfg.Repo())
	}
	if cfg.LandingPage != "https://ai-fresh.github.io/ccgate/" {
		t.Errorf("LandingPage = %q", cfg.LandingPage)
	}
	if cfg.CanonicalURL != cfg.LandingPage {
		t.Errorf("CanonicalURL = %q, want landing page", cfg.CanonicalURL)
	}
	if cfg.LatestReleaseURL() != "https://api.github.com/repos/ai-fresh/ccgate/releases/latest" {
		t.Errorf("LatestReleaseURL() = %q", cfg.LatestReleaseURL())
	}
	if cfg.PagesURL() != "https://api.github.com/repos/ai-fresh/ccgate/pages" {
		t.Errorf("PagesURL() = %q", cfg.PagesURL())
	}
	if cfg.LinkTimeout != 5*time.Second {
		t.Errorf("LinkTimeout = %v, want 5s", cfg.LinkTimeout)
	}
	if cfg.LinkSample != 10 {
		t.Errorf("LinkSample = %d, want 10", cfg.LinkSample)
	}
	if !reflect.DeepEqual(cfg.InstallerSuffixes, []string{".pkg", ".dmg"}) {
		t.Errorf("InstallerSuffixes = %v", cfg.InstallerSuffixes)
	}
	if !reflect.DeepEqual(cfg.SEOFiles, []string{"sitemap.xml", "robots.txt", "llms.txt"}) {
		t.Errorf("SEOFiles = %v", cfg.SEOFiles)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SMOKECHECK_REPO_OWNER", "acme")
	t.Setenv("SMOKECHECK_REPO_NAME", "widget")
	t.Setenv("SMOKECHECK_GITHUB_API", "http://127.0.0.1:9999/")
	t.Setenv("SMOKECHECK_LINK_TIMEOUT", "2s")
	t.Setenv("SMOKECHECK_LINK_SAMPLE", "3")
	t.Setenv("SMOKECHECK_LINK_RATE", "0")
	t.Setenv("SMOKECHECK_INSTALLER_SUFFIXES", ".msi,.exe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LandingPage != "https://acme.github.io/widget/" {
		t.Errorf("LandingPage = %q", cfg.LandingPage)
	}
	if cfg.GitHubAPI != "http://127.0.0.1:9999" {
		t.Errorf("GitHubAPI = %q, trailing slash should be trimmed", cfg.GitHubAPI)
	}
	if cfg.LinkTimeout != 2*time.Second {
		t.Errorf("LinkTimeout = %v, want 2s", cfg.LinkTimeout)
	}
	if cfg.LinkSample != 3 {
		t.Errorf("LinkSample = %d, want 3", cfg.LinkSample)
	}
	if cfg.LinkRate != 0 {
		t.Errorf("LinkRate = %v, want 0", cfg.LinkRate)
	}
	if !reflect.DeepEqual(cfg.InstallerSuffixes, []string{".msi", ".exe"}) {
		t.Errorf("InstallerSuffixes = %v", cfg.InstallerSuffixes)
	}
}

func TestLoadTrimsListItems(t *testing.T) {
	t.Setenv("SMOKECHECK_INSTALLER_SUFFIXES", ".pkg, .dmg ,")
	t.Setenv("SMOKECHECK_SEO_FILES", " sitemap.xml,  robots.txt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(cfg.InstallerSuffixes, []string{".pkg", ".dmg"}) {
		t.Errorf("InstallerSuffixes = %q", cfg.InstallerSuffixes)
	}
	if !reflect.DeepEqual(cfg.SEOFiles, []string{"sitemap.xml", "robots.txt"}) {
		t.Errorf("SEOFiles = %q", cfg.SEOFiles)
	}
}

func TestLoadRejectsBlankList(t *testing.T) {
	t.Setenv("SMOKECHECK_SEO_FILES", " , ")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for a blank SEO file list")
	}
}

func TestLoadRejectsInvalidLandingPage(t *testing.T) {
	t.Setenv("SMOKECHECK_LANDING_PAGE", "ftp://example.com/")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for ftp landing page")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		RepoOwner:         "ai-fresh",
		RepoName:          "ccgate",
		LandingPage:       "https://ai-fresh.github.io/ccgate/",
		CanonicalURL:      "https://ai-fresh.github.io/ccgate/",
		GitHubAPI:         "https://api.github.com",
		LinkTimeout:       time.Second,
		InstallerSuffixes: []string{".pkg"},
		SEOFiles:          []string{"robots.txt"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing owner", func(c *Config) { c.RepoOwner = "" }, true},
		{"zero timeout", func(c *Config) { c.LinkTimeout = 0 }, true},
		{"negative sample", func(c *Config) { c.LinkSample = -1 }, true},
		{"bad api", func(c *Config) { c.GitHubAPI = "api.github.com/v3 x" }, true},
		{"no installer suffixes", func(c *Config) { c.InstallerSuffixes = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
