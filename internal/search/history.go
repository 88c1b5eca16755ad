package search

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// historyCapacity bounds the per-instance search history: the four previous
// searches plus the one just submitted.
const historyCapacity = 5

// HistoryEntry records one past search attempt and whether it found a result.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Found     bool      `json:"found"`
}

// History is a bounded, most-recent-first log of past queries. It is purely
// in-memory and scoped to one workflow instance; it is never persisted.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	now     func() time.Time
}

// NewHistory creates an empty history tracker.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Record prepends an entry for the given query and truncates the log to the
// five most recent entries, evicting the oldest.
func (h *History) Record(query string, found bool) HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		Query:     query,
		Timestamp: h.now(),
		Found:     found,
	}

	h.entries = append([]HistoryEntry{entry}, h.entries...)
	if len(h.entries) > historyCapacity {
		h.entries = h.entries[:historyCapacity]
	}

	return entry
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Replay returns the exact query text of the entry with the given ID so the
// caller can repopulate its input field. It never triggers a new search;
// the user must resubmit.
func (h *History) Replay(id string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, entry := range h.entries {
		if entry.ID == id {
			return entry.Query, true
		}
	}
	return "", false
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
