// cmd/docsbrowser/read.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docs-browser/internal/markdown"
)

func newReadCmd(opts *rootOptions) *cobra.Command {
	var (
		width int
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "read <topic> <sub-topic>",
		Short: "Print one sub-topic's article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, os.Stderr)
			if err != nil {
				return err
			}

			content, err := a.content.ReadBlog(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s / %s: %w", args[0], args[1], err)
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err = fmt.Fprintln(out, content)
				return err
			}
			_, err = fmt.Fprint(out, markdown.RenderTerminal(content, width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for terminal rendering")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of rendering it")
	return cmd
}
