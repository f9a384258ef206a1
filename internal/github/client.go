// internal/github/client.go
package github

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"docs-browser/internal/cache"
	"docs-browser/internal/model"
	"docs-browser/internal/normalize"
)

const (
	// GeneralCategory holds markdown files found at the repository root.
	GeneralCategory = "General"

	// ContentUnavailable replaces the body of a file that could not be downloaded.
	ContentUnavailable = "Content unavailable"
)

// Client is a wrapper around the go-github client that turns a repository's
// markdown tree into a catalog.
type Client struct {
	gh          *github.Client
	logger      *slog.Logger
	cache       *cache.Cache
	concurrency int
	now         func() time.Time
}

type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(u *url.URL) Option {
	return func(c *Client) {
		base := *u
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		c.gh.BaseURL = &base
	}
}

func WithCache(ch *cache.Cache) Option {
	return func(c *Client) {
		c.cache = ch
	}
}

// WithConcurrency caps parallel requests during a walk. Zero means no cap.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		c.concurrency = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates and configures a new Client instance.
// A non-empty token is used to create an authenticated http.Client; an empty one
// leaves requests anonymous (and subject to lower rate limits).
func NewClient(token string, logger *slog.Logger, opts ...Option) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	c := &Client{
		gh:     github.NewClient(hc),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCatalog returns the markdown catalog of ref, served from cache while fresh.
// It never fails: a repository that cannot be listed yields an empty catalog.
func (c *Client) FetchCatalog(ctx context.Context, ref model.RepoRef) model.Catalog {
	if catalog, ok := cache.Lookup[model.Catalog](c.cache, ref.CacheKey()); ok {
		return catalog
	}
	return c.RefreshCatalog(ctx, ref)
}

// RefreshCatalog walks ref regardless of the cache and stores the result.
func (c *Client) RefreshCatalog(ctx context.Context, ref model.RepoRef) model.Catalog {
	logger := c.logger.With("owner", ref.Owner, "repo", ref.Name, "branch", ref.Branch)

	catalog, err := c.walk(ctx, ref, logger)
	if err != nil {
		logger.Error("Failed to list repository contents", "error", err)
		return model.Catalog{}
	}

	if c.cache != nil {
		c.cache.Set(ref.CacheKey(), catalog)
	}
	logger.Info("Fetched repository catalog", "categories", len(catalog), "entries", catalog.Len())
	return catalog
}

// fileJob is one markdown file waiting to be downloaded.
type fileJob struct {
	category string
	file     *github.RepositoryContent
}

// walk lists the root, then every directory, then downloads every markdown file.
// Only a root listing failure is returned; directory and file failures stay local.
func (c *Client) walk(ctx context.Context, ref model.RepoRef, logger *slog.Logger) (model.Catalog, error) {
	root, err := c.listContents(ctx, ref, "")
	if err != nil {
		return nil, err
	}

	var jobs []fileJob
	var dirs []*github.RepositoryContent
	for _, item := range root {
		switch {
		case isMarkdownFile(item):
			jobs = append(jobs, fileJob{category: GeneralCategory, file: item})
		case item.GetType() == "dir":
			dirs = append(dirs, item)
		}
	}

	listings := make([][]*github.RepositoryContent, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for i, dir := range dirs {
		g.Go(func() error {
			items, err := c.listContents(gctx, ref, dir.GetPath())
			if err != nil {
				logger.Warn("Failed to list directory", "path", dir.GetPath(), "error", err)
				return nil
			}
			listings[i] = items
			return nil
		})
	}
	_ = g.Wait()

	for i, dir := range dirs {
		category := normalize.FormatTitle(dir.GetName())
		for _, item := range listings[i] {
			if isMarkdownFile(item) {
				jobs = append(jobs, fileJob{category: category, file: item})
			}
		}
	}

	items := make([]model.RawBlogItem, len(jobs))
	now := c.now()
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for i, job := range jobs {
		g.Go(func() error {
			items[i] = model.RawBlogItem{
				ID:          job.file.GetSHA(),
				Category:    job.category,
				Title:       normalize.FormatTitle(job.file.GetName()),
				Content:     c.fetchFileContent(gctx, job.file.GetDownloadURL(), logger),
				LastUpdated: &now,
			}
			return nil
		})
	}
	_ = g.Wait()

	return normalize.Normalize(items, now), nil
}

// listContents fetches a directory listing at path ("" for the root).
func (c *Client) listContents(ctx context.Context, ref model.RepoRef, path string) ([]*github.RepositoryContent, error) {
	c.logger.Debug("Listing contents", "owner", ref.Owner, "repo", ref.Name, "path", path)

	file, dir, _, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, &github.RepositoryContentGetOptions{
		Ref: ref.Branch,
	})
	if err != nil {
		return nil, err
	}
	if file != nil {
		return nil, fmt.Errorf("%q is a file, not a directory", path)
	}
	return dir, nil
}

// fetchFileContent downloads raw file text, returning ContentUnavailable on any failure.
func (c *Client) fetchFileContent(ctx context.Context, downloadURL string, logger *slog.Logger) string {
	if downloadURL == "" {
		logger.Warn("File has no download URL")
		return ContentUnavailable
	}

	req, err := c.gh.NewRequest(http.MethodGet, downloadURL, nil)
	if err != nil {
		logger.Warn("Failed to build file request", "url", downloadURL, "error", err)
		return ContentUnavailable
	}

	var buf bytes.Buffer
	if _, err := c.gh.Do(ctx, req, &buf); err != nil {
		logger.Warn("Failed to fetch file content", "url", downloadURL, "error", err)
		return ContentUnavailable
	}
	return buf.String()
}

// limit converts the configured concurrency into an errgroup limit.
func (c *Client) limit() int {
	if c.concurrency <= 0 {
		return -1
	}
	return c.concurrency
}

func isMarkdownFile(item *github.RepositoryContent) bool {
	return item.GetType() == "file" && strings.HasSuffix(item.GetName(), ".md")
}
