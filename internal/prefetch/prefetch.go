// internal/prefetch/prefetch.go
package prefetch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"docs-browser/internal/github"
	"docs-browser/internal/model"
)

const (
	// Number of repositories to refresh in parallel
	concurrency = 5
)

// Refresher rebuilds and caches the catalog of one repository.
type Refresher interface {
	RefreshCatalog(ctx context.Context, ref model.RepoRef) model.Catalog
}

// Prefetcher keeps the catalogs of the configured repositories warm in the cache.
type Prefetcher struct {
	refresher Refresher
	logger    *slog.Logger
	repos     []model.RepoRef
	interval  time.Duration
}

// NewPrefetcher creates a Prefetcher for repos given as "owner/name[@branch]".
func NewPrefetcher(refresher Refresher, logger *slog.Logger, repos []string, interval time.Duration) (*Prefetcher, error) {
	refs, err := github.ParseRepoRefs(repos)
	if err != nil {
		return nil, err
	}

	return &Prefetcher{
		refresher: refresher,
		logger:    logger,
		repos:     refs,
		interval:  interval,
	}, nil
}

// Start refreshes every repository now and then on each tick until ctx is done.
// It returns immediately when the interval is not positive or there is nothing to refresh.
func (p *Prefetcher) Start(ctx context.Context) {
	if p.interval <= 0 || len(p.repos) == 0 {
		p.logger.Info("Prefetcher disabled", "interval", p.interval.String(), "repos", len(p.repos))
		return
	}

	p.logger.Info("Starting prefetcher", "interval", p.interval.String(), "concurrency", concurrency)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ticker.C:
			p.runCycle(ctx)
		case <-ctx.Done():
			p.logger.Info("Prefetcher shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runCycle refreshes all configured repositories concurrently.
func (p *Prefetcher) runCycle(ctx context.Context) {
	p.logger.Info("Starting new prefetch cycle")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, ref := range p.repos {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			catalog := p.refresher.RefreshCatalog(gctx, ref)
			if len(catalog) == 0 {
				p.logger.Warn("Prefetched an empty catalog", "repo", ref.String())
			}
			return nil
		})
	}

	_ = g.Wait()
	p.logger.Info("Prefetch cycle finished")
}
