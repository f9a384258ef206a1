// internal/navigation/history.go
package navigation

import (
	"net/url"
	"sync"
)

// History is the location stack the controller keeps in sync with the selection.
// Push records a new entry without notifying listeners; listeners only hear about
// traversal (back/forward).
type History interface {
	Location() *url.URL
	Push(u *url.URL)
	Listen(fn func(*url.URL)) (stop func())
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []*url.URL
	index     int
	listeners map[int]func(*url.URL)
	nextID    int
}

// NewMemoryHistory starts a history at start. A nil start means an empty URL.
func NewMemoryHistory(start *url.URL) *MemoryHistory {
	if start == nil {
		start = &url.URL{}
	}
	return &MemoryHistory{
		entries:   []*url.URL{cloneURL(start)},
		listeners: make(map[int]func(*url.URL)),
	}
}

func (h *MemoryHistory) Location() *url.URL {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneURL(h.entries[h.index])
}

// Push drops any forward entries and appends u.
func (h *MemoryHistory) Push(u *url.URL) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], cloneURL(u))
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) Listen(fn func(*url.URL)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Back moves one entry back and notifies listeners. It reports false at the first entry.
func (h *MemoryHistory) Back() bool {
	return h.move(-1)
}

// Forward moves one entry forward and notifies listeners. It reports false at the last entry.
func (h *MemoryHistory) Forward() bool {
	return h.move(1)
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *MemoryHistory) move(delta int) bool {
	h.mu.Lock()
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = next
	loc := h.entries[next]
	fns := make([]func(*url.URL), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	// Listeners may call back into the history.
	for _, fn := range fns {
		fn(cloneURL(loc))
	}
	return true
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	clone := *u
	if u.User != nil {
		user := *u.User
		clone.User = &user
	}
	return &clone
}
