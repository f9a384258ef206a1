// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"docs-browser/internal/github"
	"docs-browser/internal/model"
)

// DefaultAPIBaseURL is the content API root used when API_BASE_URL is unset.
const DefaultAPIBaseURL = "http://localhost:3000/api"

// Config holds all configuration for the application.
type Config struct {
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	APIBaseURL       string        `mapstructure:"API_BASE_URL"`
	HTTPAddr         string        `mapstructure:"HTTP_ADDR"`
	HTTPTimeout      time.Duration `mapstructure:"HTTP_TIMEOUT"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	GithubToken      string        `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL     string        `mapstructure:"GITHUB_API_URL"`
	SourceRepo       string        `mapstructure:"SOURCE_REPO"`
	PrefetchRepos    []string      `mapstructure:"PREFETCH_REPOS"`
	PrefetchInterval time.Duration `mapstructure:"PREFETCH_INTERVAL"`
	FetchConcurrency int           `mapstructure:"FETCH_CONCURRENCY"`
	CORSAllowAll     bool          `mapstructure:"CORS_ALLOW_ALL"`

	// Parsed from SourceRepo; nil when no repository is configured.
	Source *model.RepoRef `mapstructure:"-"`
}

// LoadConfig reads configuration from a .env file in dir (if present) and environment variables.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", DefaultAPIBaseURL)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_API_URL", "")
	v.SetDefault("SOURCE_REPO", "")
	v.SetDefault("PREFETCH_REPOS", []string{})
	v.SetDefault("PREFETCH_INTERVAL", "0s")
	v.SetDefault("FETCH_CONCURRENCY", 0)
	v.SetDefault("CORS_ALLOW_ALL", false)

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.PrefetchRepos = splitList(cfg.PrefetchRepos)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.GithubAPIURL != "" {
		u, err := url.Parse(c.GithubAPIURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("GITHUB_API_URL must be an absolute URL, got %q", c.GithubAPIURL)
		}
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if c.PrefetchInterval < 0 {
		return errors.New("PREFETCH_INTERVAL must not be negative")
	}
	if c.FetchConcurrency < 0 {
		return errors.New("FETCH_CONCURRENCY must not be negative")
	}

	if c.SourceRepo != "" {
		ref, err := github.ParseRepoRef(c.SourceRepo)
		if err != nil {
			return fmt.Errorf("SOURCE_REPO: %w", err)
		}
		c.Source = &ref
	}
	if _, err := github.ParseRepoRefs(c.PrefetchRepos); err != nil {
		return fmt.Errorf("PREFETCH_REPOS: %w", err)
	}
	return nil
}

// splitList accepts both a list and a single comma or space separated value,
// which is how lists arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}
