package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"smokecheck/internal/log"
	"smokecheck/internal/util"
)

const envPrefix = "SMOKECHECK"

const (
	REPO_OWNER         = "REPO_OWNER"
	REPO_NAME          = "REPO_NAME"
	LANDING_PAGE       = "LANDING_PAGE"
	CANONICAL_URL      = "CANONICAL_URL"
	GITHUB_API         = "GITHUB_API"
	GITHUB_TOKEN       = "GITHUB_TOKEN"
	LINK_TIMEOUT       = "LINK_TIMEOUT"
	LINK_SAMPLE        = "LINK_SAMPLE"
	LINK_RATE          = "LINK_RATE"
	INSTALLER_SUFFIXES = "INSTALLER_SUFFIXES"
	SEO_FILES          = "SEO_FILES"
)

type Config struct {
	RepoOwner         string        `mapstructure:"REPO_OWNER"`
	RepoName          string        `mapstructure:"REPO_NAME"`
	LandingPage       string        `mapstructure:"LANDING_PAGE"`
	CanonicalURL      string        `mapstructure:"CANONICAL_URL"`
	GitHubAPI         string        `mapstructure:"GITHUB_API"`
	GitHubToken       string        `mapstructure:"GITHUB_TOKEN"`
	LinkTimeout       time.Duration `mapstructure:"LINK_TIMEOUT"`
	LinkSample        int           `mapstructure:"LINK_SAMPLE"`
	LinkRate          float64       `mapstructure:"LINK_RATE"`
	InstallerSuffixes []string      `mapstructure:"INSTALLER_SUFFIXES"`
	SEOFiles          []string      `mapstructure:"SEO_FILES"`
}

// Load reads the configuration from SMOKECHECK_* environment variables.
// There is no config file; every key has a default that points at the
// ai-fresh/ccgate release and its GitHub Pages site.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(REPO_OWNER, "ai-fresh")
	v.SetDefault(REPO_NAME, "ccgate")
	v.SetDefault(LANDING_PAGE, "")
	v.SetDefault(CANONICAL_URL, "")
	v.SetDefault(GITHUB_API, "https://api.github.com")
	v.SetDefault(GITHUB_TOKEN, "")
	v.SetDefault(LINK_TIMEOUT, 5*time.Second)
	v.SetDefault(LINK_SAMPLE, 10)
	v.SetDefault(LINK_RATE, 5.0)
	v.SetDefault(INSTALLER_SUFFIXES, []string{".pkg", ".dmg"})
	v.SetDefault(SEO_FILES, []string{"sitemap.xml", "robots.txt", "llms.txt"})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LandingPage == "" {
		cfg.LandingPage = fmt.Sprintf("https://%s.github.io/%s/", cfg.RepoOwner, cfg.RepoName)
	}
	if cfg.CanonicalURL == "" {
		cfg.CanonicalURL = cfg.LandingPage
	}
	cfg.GitHubAPI = strings.TrimRight(cfg.GitHubAPI, "/")
	cfg.InstallerSuffixes = cleanList(cfg.InstallerSuffixes)
	cfg.SEOFiles = cleanList(cfg.SEOFiles)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Logger.Debug("configuration loaded",
		zap.String("repo", cfg.Repo()),
		zap.String("landing_page", cfg.LandingPage),
		zap.String("github_api", cfg.GitHubAPI),
		zap.Bool("authenticated", cfg.GitHubToken != ""),
	)

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.RepoOwner == "" || c.RepoName == "" {
		return fmt.Errorf("%s_%s and %s_%s must be set", envPrefix, REPO_OWNER, envPrefix, REPO_NAME)
	}
	for key, u := range map[string]string{
		LANDING_PAGE:  c.LandingPage,
		CANONICAL_URL: c.CanonicalURL,
		GITHUB_API:    c.GitHubAPI,
	} {
		if !util.IsValidURL(u) {
			return fmt.Errorf("invalid %s_%s: %q", envPrefix, key, u)
		}
	}
	if c.LinkTimeout <= 0 {
		return fmt.Errorf("%s_%s must be positive", envPrefix, LINK_TIMEOUT)
	}
	if c.LinkSample < 0 || c.LinkRate < 0 {
		return fmt.Errorf("%s_%s and %s_%s must not be negative", envPrefix, LINK_SAMPLE, envPrefix, LINK_RATE)
	}
	if len(c.InstallerSuffixes) == 0 || len(c.SEOFiles) == 0 {
		return fmt.Errorf("%s_%s and %s_%s must not be empty", envPrefix, INSTALLER_SUFFIXES, envPrefix, SEO_FILES)
	}
	return nil
}

// cleanList trims the items of a comma-separated env value and drops blanks.
func cleanList(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// Repo returns "owner/name".
func (c *Config) Repo() string {
	return c.RepoOwner + "/" + c.RepoName
}

func (c *Config) RepoAPI() string {
	return c.GitHubAPI + "/repos/" + c.Repo()
}

func (c *Config) LatestReleaseURL() string {
	return c.RepoAPI() + "/releases/latest"
}

func (c *Config) PagesURL() string {
	return c.RepoAPI() + "/pages"
}
