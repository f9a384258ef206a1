// internal/contentapi/client.go
package contentapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docs-browser/internal/cache"
	custom_errors "docs-browser/internal/errors"
	"docs-browser/internal/model"
	"docs-browser/internal/normalize"
)

// ContentUnavailable is shown in place of blog content that could not be fetched.
const ContentUnavailable = "Content unavailable"

const (
	endpointIndices       = "read_indices"
	endpointBlog          = "read_blog"
	endpointContributions = "read_contributions"
	endpointBlogs         = "blogs"
)

// Client reads the topic index and blog content from the content API.
// Read* methods return typed errors; Fetch* methods log them and return a safe fallback.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache.Cache
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache makes successful reads go through the given cache.
func WithCache(ch *cache.Cache) Option {
	return func(c *Client) {
		c.cache = ch
	}
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadIndices fetches the topic index.
func (c *Client) ReadIndices(ctx context.Context) ([]model.Topic, error) {
	if topics, ok := cache.Lookup[[]model.Topic](c.cache, endpointIndices); ok {
		return topics, nil
	}

	var resp indicesResponse
	if err := c.getJSON(ctx, endpointIndices, nil, &resp); err != nil {
		return nil, err
	}
	topics, err := resp.validate()
	if err != nil {
		return nil, err
	}

	c.store(endpointIndices, topics)
	return topics, nil
}

// FetchIndices is ReadIndices that never fails: errors are logged and an empty index is returned.
func (c *Client) FetchIndices(ctx context.Context) []model.Topic {
	topics, err := c.ReadIndices(ctx)
	if err != nil {
		c.logFailure(endpointIndices, err)
		return []model.Topic{}
	}
	return topics
}

// ReadBlog fetches the markdown content of one sub-topic.
func (c *Client) ReadBlog(ctx context.Context, topic, subTopic string) (string, error) {
	query := url.Values{}
	query.Set("topic_name", topic)
	query.Set("sub_topic_name", subTopic)
	key := endpointBlog + "?" + query.Encode()

	if content, ok := cache.Lookup[string](c.cache, key); ok {
		return content, nil
	}

	var resp blogResponse
	if err := c.getJSON(ctx, endpointBlog, query, &resp); err != nil {
		return "", err
	}
	content, err := resp.validate()
	if err != nil {
		return "", err
	}

	c.store(key, content)
	return content, nil
}

// FetchBlog is ReadBlog that never fails: errors yield ContentUnavailable.
func (c *Client) FetchBlog(ctx context.Context, topic, subTopic string) string {
	content, err := c.ReadBlog(ctx, topic, subTopic)
	if err != nil {
		c.logFailure(endpointBlog, err, "topic", topic, "sub_topic", subTopic)
		return ContentUnavailable
	}
	return content
}

// ReadContributions fetches the repository summaries shown on the landing view.
func (c *Client) ReadContributions(ctx context.Context) ([]model.RepositorySummary, error) {
	if repos, ok := cache.Lookup[[]model.RepositorySummary](c.cache, endpointContributions); ok {
		return repos, nil
	}

	var resp contributionsResponse
	if err := c.getJSON(ctx, endpointContributions, nil, &resp); err != nil {
		return nil, err
	}
	repos, err := resp.validate()
	if err != nil {
		return nil, err
	}

	c.store(endpointContributions, repos)
	return repos, nil
}

func (c *Client) FetchContributions(ctx context.Context) []model.RepositorySummary {
	repos, err := c.ReadContributions(ctx)
	if err != nil {
		c.logFailure(endpointContributions, err)
		return []model.RepositorySummary{}
	}
	return repos
}

// ReadBlogs fetches the flat blog listing and groups it into a catalog.
func (c *Client) ReadBlogs(ctx context.Context) (model.Catalog, error) {
	if catalog, ok := cache.Lookup[model.Catalog](c.cache, endpointBlogs); ok {
		return catalog, nil
	}

	var items []model.RawBlogItem
	if err := c.getJSON(ctx, endpointBlogs, nil, &items); err != nil {
		return nil, err
	}
	if err := validateBlogItems(items); err != nil {
		return nil, err
	}

	catalog := normalize.Normalize(items, c.now())
	c.store(endpointBlogs, catalog)
	return catalog, nil
}

func (c *Client) FetchBlogs(ctx context.Context) model.Catalog {
	catalog, err := c.ReadBlogs(ctx)
	if err != nil {
		c.logFailure(endpointBlogs, err)
		return model.Catalog{}
	}
	return catalog
}

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// getJSON issues a single GET and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, v any) error {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching", "endpoint", endpoint, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &custom_errors.StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &custom_errors.SchemaError{Endpoint: endpoint, Reason: err.Error()}
	}
	return nil
}

func (c *Client) store(key string, v any) {
	if c.cache != nil {
		c.cache.Set(key, v)
	}
}

func (c *Client) logFailure(endpoint string, err error, attrs ...any) {
	args := append([]any{"endpoint", endpoint, "kind", custom_errors.KindOf(err), "error", err}, attrs...)
	c.logger.Error("Fetch failed, using fallback", args...)
}
