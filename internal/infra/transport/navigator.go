package transport

import (
	"slices"
	"sync"
)

// History is an in-memory Navigator used by non-graphical browser contexts
// such as the CLI. It records every navigation.
type History struct {
	mu      sync.RWMutex
	entries []string
}

// NewHistory starts a history at location.
func NewHistory(location string) *History {
	return &History{entries: []string{location}}
}

// Location returns the current entry.
func (h *History) Location() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return "/"
	}

	return h.entries[len(h.entries)-1]
}

// Redirect pushes path as the new current entry.
func (h *History) Redirect(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, path)
}

// Entries returns a copy of all recorded locations, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
