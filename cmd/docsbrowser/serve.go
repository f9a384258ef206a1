// cmd/docsbrowser/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docs-browser/internal/api"
	"docs-browser/internal/prefetch"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation browser and its JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, os.Stdout)
			if err != nil {
				return err
			}

			// Setup context for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return a.serve(ctx)
		},
	}
}

// handler builds the HTTP router over the app's clients.
func (a *app) handler() http.Handler {
	return api.NewRouter(a.content, a.github, a.cache, a.logger.With("component", "api"), api.Options{
		Source:       a.cfg.Source,
		CORSAllowAll: a.cfg.CORSAllowAll,
	})
}

func (a *app) serve(ctx context.Context) error {
	repos := a.cfg.PrefetchRepos
	if a.cfg.Source != nil && len(repos) == 0 {
		repos = []string{a.cfg.Source.String()}
	}
	prefetcher, err := prefetch.NewPrefetcher(a.github, a.logger.With("component", "prefetch"), repos, a.cfg.PrefetchInterval)
	if err != nil {
		return fmt.Errorf("failed to create prefetcher: %w", err)
	}
	go prefetcher.Start(ctx)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("Shutdown signal received. Exiting.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
