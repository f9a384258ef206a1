// cmd/docsbrowser/catalog.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docs-browser/internal/github"
	"docs-browser/internal/markdown"
	"docs-browser/internal/model"
	"docs-browser/internal/normalize"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var (
		query string
		show  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "catalog [owner/name[@branch]]",
		Short: "List the markdown catalog of a GitHub repository",
		Long: `catalog walks a GitHub repository's markdown files and lists them by
category. Files at the root belong to "General"; each top-level directory is
a category. Without an argument the SOURCE_REPO setting is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, os.Stderr)
			if err != nil {
				return err
			}

			ref, err := catalogRef(a.cfg.Source, args)
			if err != nil {
				return err
			}

			catalog := normalize.FilterCatalog(a.github.FetchCatalog(cmd.Context(), ref), query)
			out := cmd.OutOrStdout()

			if show != "" {
				entry, ok := findEntry(catalog, show)
				if !ok {
					return fmt.Errorf("no entry titled %q in %s", show, ref)
				}
				_, err := fmt.Fprint(out, markdown.RenderTerminal(entry.Content, width))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "CATEGORY\tTITLE\tLAST UPDATED\n")
			for _, category := range catalog.Categories() {
				for _, entry := range catalog[category] {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", category, entry.Title, entry.LastUpdated.Format("2006-01-02"))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only list categories or titles containing this term")
	cmd.Flags().StringVar(&show, "show", "", "render the entry with this title instead of listing")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for terminal rendering")
	return cmd
}

func catalogRef(configured *model.RepoRef, args []string) (model.RepoRef, error) {
	if len(args) == 1 {
		return github.ParseRepoRef(args[0])
	}
	if configured == nil {
		return model.RepoRef{}, errors.New("no repository given and SOURCE_REPO is not set")
	}
	return *configured, nil
}

func findEntry(catalog model.Catalog, title string) (model.BlogEntry, bool) {
	for _, category := range catalog.Categories() {
		for _, entry := range catalog[category] {
			if strings.EqualFold(entry.Title, title) {
				return entry, true
			}
		}
	}
	return model.BlogEntry{}, false
}
