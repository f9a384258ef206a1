// cmd/docsbrowser/browse.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"docs-browser/internal/markdown"
	"docs-browser/internal/model"
	"docs-browser/internal/navigation"
)

const (
	actionTopics  = "Browse topics"
	actionSearch  = "Search"
	actionBack    = "Back"
	actionForward = "Forward"
	actionClose   = "Close article"
	actionRefresh = "Refresh"
	actionRetry   = "Retry"
	actionQuit    = "Quit"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var (
		topic    string
		subTopic string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the documentation interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, os.Stderr)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			initial := model.Selection{Topic: topic, SubTopic: subTopic}
			start := navigation.SelectionToURL(&url.URL{Path: "/"}, initial)
			hist := navigation.NewMemoryHistory(start)
			ctrl := navigation.NewController(a.content, hist, a.logger.With("component", "navigation"))

			s := &browseSession{ctrl: ctrl, history: hist, out: cmd.OutOrStdout(), width: width}
			cancel := ctrl.Subscribe(s.render)
			defer cancel()

			if !initial.Complete() {
				s.printLanding(a.content.FetchContributions(ctx))
			}

			if err := ctrl.Mount(ctx); err != nil {
				return err
			}
			defer ctrl.Unmount()

			return s.loop(ctx)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic to open on start")
	cmd.Flags().StringVar(&subTopic, "subtopic", "", "sub-topic to open on start")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for terminal rendering")
	return cmd
}

// browseSession is the terminal view over a navigation controller.
type browseSession struct {
	ctrl    *navigation.Controller
	history *navigation.MemoryHistory
	out     io.Writer
	width   int

	shown        model.Selection
	shownContent string
}

// render prints an article each time a new one finishes loading.
func (s *browseSession) render(st navigation.State) {
	if st.Phase != navigation.PhaseLoaded {
		return
	}
	if st.Selection == s.shown && st.Content == s.shownContent {
		return
	}
	s.shown, s.shownContent = st.Selection, st.Content

	fmt.Fprintf(s.out, "\n%s / %s\n\n", st.Selection.Topic, st.Selection.SubTopic)
	fmt.Fprint(s.out, markdown.RenderTerminal(st.Content, s.width))
}

func (s *browseSession) printLanding(repos []model.RepositorySummary) {
	fmt.Fprintln(s.out, "Documentation")
	for _, repo := range repos {
		fmt.Fprintf(s.out, "  %s  %s\n", repo.Name, repo.URL)
		if repo.Description != nil {
			fmt.Fprintf(s.out, "    %s\n", *repo.Description)
		}
		if top, ok := repo.TopContributor(); ok {
			fmt.Fprintf(s.out, "    top contributor: %s (%d contributions)\n", top.UserName, top.ContributionCount)
		}
	}
	fmt.Fprintln(s.out)
}

func (s *browseSession) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		st := s.ctrl.State()

		if st.IndexErr != nil {
			fmt.Fprintf(s.out, "Failed to load topics: %v\n", st.IndexErr)
			choice, err := choose("Topic index unavailable", []string{actionRetry, actionQuit})
			if err != nil || choice == actionQuit {
				return quitErr(err)
			}
			s.ctrl.Retry(ctx)
			continue
		}

		label := "Docs"
		if st.Selection.Complete() {
			label = st.Selection.Topic + " / " + st.Selection.SubTopic
		}
		if st.SearchTerm != "" {
			label += fmt.Sprintf(" [search: %s]", st.SearchTerm)
		}

		choice, err := choose(label, []string{actionTopics, actionSearch, actionBack, actionForward, actionClose, actionRefresh, actionQuit})
		if err != nil {
			return quitErr(err)
		}

		switch choice {
		case actionTopics:
			if err := s.pickSubTopic(ctx); err != nil {
				return quitErr(err)
			}
		case actionSearch:
			term, err := (&promptui.Prompt{Label: "Search topics", Default: st.SearchTerm}).Run()
			if err != nil {
				return quitErr(err)
			}
			s.ctrl.SetSearchTerm(term)
		case actionBack:
			if !s.history.Back() {
				fmt.Fprintln(s.out, "Nothing to go back to.")
			}
		case actionForward:
			if !s.history.Forward() {
				fmt.Fprintln(s.out, "Nothing to go forward to.")
			}
		case actionClose:
			s.ctrl.Close()
			s.shown, s.shownContent = model.Selection{}, ""
		case actionRefresh:
			s.shownContent = ""
			s.ctrl.Refresh(ctx)
		case actionQuit:
			return nil
		}
	}
}

func (s *browseSession) pickSubTopic(ctx context.Context) error {
	topics := s.ctrl.VisibleTopics()
	if len(topics) == 0 {
		fmt.Fprintln(s.out, "No topics found.")
		return nil
	}

	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = fmt.Sprintf("%s (%d)", t.TopicName, t.NoOfSubTopics)
	}
	idx, _, err := (&promptui.Select{Label: "Topic", Items: names, Size: 15}).Run()
	if err != nil {
		return err
	}
	topic := topics[idx]

	subs := make([]string, len(topic.SubTopicList))
	for i, sub := range topic.SubTopicList {
		subs[i] = sub.SubTopicName
	}
	if len(subs) == 0 {
		s.ctrl.SelectSubTopic(ctx, topic.TopicName, "")
		return nil
	}
	_, sub, err := (&promptui.Select{Label: topic.TopicName, Items: subs, Size: 15}).Run()
	if err != nil {
		return err
	}

	s.ctrl.SelectSubTopic(ctx, topic.TopicName, sub)
	return nil
}

func choose(label string, items []string) (string, error) {
	_, choice, err := (&promptui.Select{Label: label, Items: items}).Run()
	return choice, err
}

// quitErr treats Ctrl-C and Ctrl-D as a normal exit.
func quitErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}
