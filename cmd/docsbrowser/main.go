// cmd/docsbrowser/main.go
package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"docs-browser/internal/cache"
	"docs-browser/internal/config"
	"docs-browser/internal/contentapi"
	"docs-browser/internal/github"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	return newRootCmd().Execute()
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	envDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "docsbrowser",
		Short: "Browse topic-indexed markdown documentation",
		Long: `docsbrowser fetches a topic/sub-topic index and markdown articles from a
content API or straight from a GitHub repository, and serves them as a web
page, an interactive terminal session, or one-shot terminal output.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envDir, "env-dir", ".", "directory holding an optional .env file")

	root.AddCommand(
		newServeCmd(opts),
		newBrowseCmd(opts),
		newReadCmd(opts),
		newCatalogCmd(opts),
	)
	return root
}

// app holds the components every subcommand is built from.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cache   *cache.Cache
	content *contentapi.Client
	github  *github.Client
}

// newApp loads configuration and wires the shared components. Logs go to w.
func newApp(opts *rootOptions, w io.Writer) (*app, error) {
	// Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(opts.envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Debug("Configuration loaded successfully")

	return wire(cfg, logger)
}

// wire builds the cache and both fetch clients from cfg. The clients share one cache.
func wire(cfg *config.Config, logger *slog.Logger) (*app, error) {
	ch := cache.New(cfg.CacheTTL)

	content := contentapi.NewClient(cfg.APIBaseURL, logger.With("component", "contentapi"),
		contentapi.WithCache(ch),
		contentapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	ghOpts := []github.Option{
		github.WithCache(ch),
		github.WithConcurrency(cfg.FetchConcurrency),
	}
	if cfg.GithubAPIURL != "" {
		u, err := url.Parse(cfg.GithubAPIURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GITHUB_API_URL: %w", err)
		}
		ghOpts = append(ghOpts, github.WithBaseURL(u))
	}
	gh := github.NewClient(cfg.GithubToken, logger.With("component", "github"), ghOpts...)

	return &app{
		cfg:     cfg,
		logger:  logger,
		cache:   ch,
		content: content,
		github:  gh,
	}, nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
