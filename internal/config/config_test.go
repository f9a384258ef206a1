// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "docs-browser/internal/errors"
	"docs-browser/internal/model"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.Zero(t, cfg.PrefetchInterval)
		assert.Empty(t, cfg.PrefetchRepos)
		assert.Nil(t, cfg.Source)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("CACHE_TTL", "30s")
		t.Setenv("SOURCE_REPO", "abusaeed2433/JavaInREADME@master")
		t.Setenv("PREFETCH_REPOS", "a/b,c/d@dev")
		t.Setenv("PREFETCH_INTERVAL", "10m")
		t.Setenv("FETCH_CONCURRENCY", "4")
		t.Setenv("CORS_ALLOW_ALL", "true")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
		assert.Equal(t, &model.RepoRef{Owner: "abusaeed2433", Name: "JavaInREADME", Branch: "master"}, cfg.Source)
		assert.Equal(t, []string{"a/b", "c/d@dev"}, cfg.PrefetchRepos)
		assert.Equal(t, 10*time.Minute, cfg.PrefetchInterval)
		assert.Equal(t, 4, cfg.FetchConcurrency)
		assert.True(t, cfg.CORSAllowAll)
	})

	t.Run("reads a .env file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_BASE_URL=https://docs.example.com/api\nHTTP_ADDR=:9090\n"), 0o600))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "https://docs.example.com/api", cfg.APIBaseURL)
		assert.Equal(t, ":9090", cfg.HTTPAddr)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			key, value string
		}{
			{"API_BASE_URL", "not a url"},
			{"GITHUB_API_URL", "/relative"},
			{"HTTP_TIMEOUT", "0s"},
			{"CACHE_TTL", "-1m"},
			{"PREFETCH_INTERVAL", "-5s"},
			{"FETCH_CONCURRENCY", "-1"},
		}
		for _, tt := range tests {
			t.Run(tt.key, func(t *testing.T) {
				t.Setenv(tt.key, tt.value)
				_, err := LoadConfig(t.TempDir())
				assert.Error(t, err)
			})
		}
	})

	t.Run("invalid repositories", func(t *testing.T) {
		t.Setenv("PREFETCH_REPOS", "a/b bad")
		_, err := LoadConfig(t.TempDir())
		var formatErr *custom_errors.ErrInvalidRepoFormat
		assert.ErrorAs(t, err, &formatErr)
	})
}
