// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"docs-browser/internal/cache"
	"docs-browser/internal/markdown"
	"docs-browser/internal/model"
	"docs-browser/internal/normalize"
)

// ContentSource is the content API as seen by the handlers.
type ContentSource interface {
	ReadIndices(ctx context.Context) ([]model.Topic, error)
	FetchBlog(ctx context.Context, topic, subTopic string) string
	FetchContributions(ctx context.Context) []model.RepositorySummary
	ClearCache()
}

// CatalogSource builds a catalog from a source-hosting repository.
type CatalogSource interface {
	FetchCatalog(ctx context.Context, ref model.RepoRef) model.Catalog
}

// Options configures optional parts of the router.
type Options struct {
	// Source is the repository served by /v1/catalog. Nil disables the route's content.
	Source *model.RepoRef
	// CORSAllowAll accepts any origin instead of localhost only.
	CORSAllowAll bool
}

// Handler is the container for API dependencies.
type Handler struct {
	content ContentSource
	catalog CatalogSource
	cache   *cache.Cache
	source  *model.RepoRef
	logger  *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(content ContentSource, catalog CatalogSource, ch *cache.Cache, logger *slog.Logger, opts Options) http.Handler {
	h := &Handler{
		content: content,
		catalog: catalog,
		cache:   ch,
		source:  opts.Source,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if opts.CORSAllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", h.page)
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/indices", h.getIndices)
		r.Get("/blog", h.getBlog)
		r.Get("/contributions", h.getContributions)
		r.Get("/catalog", h.getCatalog)
		r.Get("/cache", h.getCacheInfo)
		r.Post("/cache/refresh", h.refreshCache)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getIndices returns the topic index, filtered by the optional search term.
// GET /v1/indices?q=term
func (h *Handler) getIndices(w http.ResponseWriter, r *http.Request) {
	topics, err := h.content.ReadIndices(r.Context())
	if err != nil {
		h.logger.Error("Failed to read topic index", "error", err)
		respondWithError(w, http.StatusBadGateway, "Failed to load topic index")
		return
	}

	topics = normalize.FilterTopics(topics, r.URL.Query().Get("q"))
	respondWithJSON(w, http.StatusOK, map[string]any{"data": topics})
}

type blogPayload struct {
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// getBlog returns one sub-topic's markdown together with its rendered HTML.
// GET /v1/blog?topic_name=X&sub_topic_name=Y
func (h *Handler) getBlog(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic_name")
	subTopic := r.URL.Query().Get("sub_topic_name")
	if topic == "" || subTopic == "" {
		respondWithError(w, http.StatusBadRequest, "Both 'topic_name' and 'sub_topic_name' are required.")
		return
	}

	content := h.content.FetchBlog(r.Context(), topic, subTopic)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"data": blogPayload{Content: content, HTML: markdown.ToHTML(content)},
	})
}

// getContributions returns the repository summaries for the landing view.
// GET /v1/contributions
func (h *Handler) getContributions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    h.content.FetchContributions(r.Context()),
	})
}

// getCatalog returns the catalog built from the configured source repository.
// GET /v1/catalog?q=term
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	if h.source == nil || h.catalog == nil {
		respondWithError(w, http.StatusNotFound, "No source repository configured")
		return
	}

	catalog := h.catalog.FetchCatalog(r.Context(), *h.source)
	catalog = normalize.FilterCatalog(catalog, r.URL.Query().Get("q"))
	respondWithJSON(w, http.StatusOK, map[string]any{
		"repository": h.source.String(),
		"data":       catalog,
	})
}

type cacheInfoPayload struct {
	Size int      `json:"size"`
	TTL  string   `json:"ttl"`
	Keys []string `json:"keys"`
}

// getCacheInfo reports what the shared cache currently holds.
// GET /v1/cache
func (h *Handler) getCacheInfo(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		respondWithJSON(w, http.StatusOK, cacheInfoPayload{Keys: []string{}})
		return
	}
	info := h.cache.Info()
	respondWithJSON(w, http.StatusOK, cacheInfoPayload{Size: info.Size, TTL: info.TTL.String(), Keys: info.Keys})
}

// refreshCache drops every cached entry.
// POST /v1/cache/refresh
func (h *Handler) refreshCache(w http.ResponseWriter, r *http.Request) {
	h.content.ClearCache()
	if h.cache != nil {
		h.cache.Clear()
	}
	h.logger.Info("Cache cleared")
	w.WriteHeader(http.StatusNoContent)
}
