// internal/navigation/controller.go
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"docs-browser/internal/model"
	"docs-browser/internal/normalize"
)

// ErrAlreadyMounted is returned by Mount when the controller is already mounted.
var ErrAlreadyMounted = errors.New("navigation: controller already mounted")

// Source supplies the index and content the controller displays.
type Source interface {
	ReadIndices(ctx context.Context) ([]model.Topic, error)
	FetchBlog(ctx context.Context, topic, subTopic string) string
	ClearCache()
}

// Phase is the content pane's lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// State is a snapshot of everything the view renders.
type State struct {
	Selection model.Selection
	Phase     Phase
	Content   string

	Topics       []model.Topic
	IndexLoading bool
	IndexErr     error

	MobileMenuOpen   bool
	SidebarCollapsed bool
	SearchTerm       string
}

// Controller owns the selection and keeps it, the history location and the loaded content consistent.
// Every selection change bumps a generation; a fetch commits only if its generation is still current.
type Controller struct {
	source  Source
	history History
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	mounted     bool
	mountCtx    context.Context
	stopListen  func()
	subscribers map[int]func(State)
	nextSubID   int
}

// NewController creates a Controller reading from source and synchronised with history.
func NewController(source Source, history History, logger *slog.Logger) *Controller {
	return &Controller{
		source:      source,
		history:     history,
		logger:      logger,
		mountCtx:    context.Background(),
		subscribers: make(map[int]func(State)),
	}
}

// Mount loads the topic index (on every mount), derives the selection from the current
// location and starts following history traversal.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.mounted = true
	c.mountCtx = ctx
	c.mu.Unlock()

	c.loadIndex(ctx)

	c.onLocation(c.history.Location())

	stop := c.history.Listen(c.onLocation)
	c.mu.Lock()
	c.stopListen = stop
	c.mu.Unlock()
	return nil
}

// Unmount stops following history traversal.
func (c *Controller) Unmount() {
	c.mu.Lock()
	stop := c.stopListen
	c.stopListen = nil
	c.mounted = false
	c.mountCtx = context.Background()
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// SelectSubTopic selects a sub-topic, records it in the history and, when both names are set,
// loads its content.
func (c *Controller) SelectSubTopic(ctx context.Context, topic, subTopic string) {
	sel := model.Selection{Topic: topic, SubTopic: subTopic}

	c.mu.Lock()
	c.state.Selection = sel
	c.state.MobileMenuOpen = false
	c.state.Content = ""
	c.state.Phase = PhaseIdle
	if sel.Complete() {
		c.state.Phase = PhaseLoading
	}
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.history.Push(SelectionToURL(c.history.Location(), sel))
	c.notify()

	if sel.Complete() {
		c.loadContent(ctx, gen, sel)
	}
}

// Close clears the selection and returns the pane to idle.
func (c *Controller) Close() {
	c.mu.Lock()
	c.state.Selection = model.Selection{}
	c.state.Content = ""
	c.state.Phase = PhaseIdle
	c.generation++
	c.mu.Unlock()

	c.history.Push(SelectionToURL(c.history.Location(), model.Selection{}))
	c.notify()
}

// Retry reloads the topic index.
func (c *Controller) Retry(ctx context.Context) {
	c.loadIndex(ctx)
}

// Refresh drops everything the source cached, then reloads the index and the current content.
func (c *Controller) Refresh(ctx context.Context) {
	c.source.ClearCache()
	c.loadIndex(ctx)

	c.mu.Lock()
	sel := c.state.Selection
	if !sel.Complete() {
		c.mu.Unlock()
		return
	}
	c.state.Phase = PhaseLoading
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.notify()
	c.loadContent(ctx, gen, sel)
}

func (c *Controller) ToggleMobileMenu() {
	c.update(func(s *State) { s.MobileMenuOpen = !s.MobileMenuOpen })
}

func (c *Controller) ToggleSidebar() {
	c.update(func(s *State) { s.SidebarCollapsed = !s.SidebarCollapsed })
}

func (c *Controller) SetSearchTerm(term string) {
	c.update(func(s *State) { s.SearchTerm = term })
}

// VisibleTopics returns the index filtered by the current search term.
func (c *Controller) VisibleTopics() []model.Topic {
	c.mu.Lock()
	topics, term := c.state.Topics, c.state.SearchTerm
	c.mu.Unlock()
	return normalize.FilterTopics(topics, term)
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe registers fn to receive the state after every transition.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// onLocation follows history traversal. It never pushes.
func (c *Controller) onLocation(u *url.URL) {
	sel := SelectionFromURL(u)

	c.mu.Lock()
	if sel.Complete() && sel == c.state.Selection && c.state.Phase != PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.state.Selection = sel
	c.state.Content = ""
	c.state.Phase = PhaseIdle
	if sel.Complete() {
		c.state.Phase = PhaseLoading
	}
	c.generation++
	gen := c.generation
	ctx := c.mountCtx
	c.mu.Unlock()

	c.notify()
	if sel.Complete() {
		c.loadContent(ctx, gen, sel)
	}
}

func (c *Controller) loadIndex(ctx context.Context) {
	c.update(func(s *State) {
		s.IndexLoading = true
		s.IndexErr = nil
	})

	topics, err := c.source.ReadIndices(ctx)
	if err != nil {
		c.logger.Error("Failed to load topic index", "error", err)
	}

	c.update(func(s *State) {
		s.IndexLoading = false
		s.IndexErr = err
		if err == nil {
			s.Topics = topics
		}
	})
}

func (c *Controller) loadContent(ctx context.Context, gen uint64, sel model.Selection) {
	content := c.source.FetchBlog(ctx, sel.Topic, sel.SubTopic)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale content", "topic", sel.Topic, "sub_topic", sel.SubTopic)
		return
	}
	c.state.Content = content
	c.state.Phase = PhaseLoaded
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	c.mu.Lock()
	state := c.snapshot()
	fns := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// snapshot must be called with mu held.
func (c *Controller) snapshot() State {
	s := c.state
	if s.Topics != nil {
		s.Topics = append([]model.Topic(nil), s.Topics...)
	}
	return s
}
