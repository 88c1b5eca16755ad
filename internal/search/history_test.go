package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_RecordAndOrder(t *testing.T) {
	h := NewHistory()
	h.Record("first", true)
	h.Record("second", false)
	h.Record("third", true)

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Query)
	assert.Equal(t, "second", entries[1].Query)
	assert.Equal(t, "first", entries[2].Query)
	assert.True(t, entries[0].Found)
	assert.False(t, entries[1].Found)
}

func TestHistory_CapsAtFive(t *testing.T) {
	h := NewHistory()
	for i := 1; i <= 8; i++ {
		h.Record(fmt.Sprintf("query-%d", i), true)
	}

	entries := h.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "query-8", entries[0].Query)
	assert.Equal(t, "query-4", entries[4].Query)
}

func TestHistory_DuplicatesAreSeparateEntries(t *testing.T) {
	h := NewHistory()
	h.Record("same", true)
	h.Record("same", true)

	assert.Equal(t, 2, h.Len())
}

func TestHistory_EntriesReturnsCopy(t *testing.T) {
	h := NewHistory()
	h.Record("original", true)

	entries := h.Entries()
	entries[0].Query = "mutated"

	assert.Equal(t, "original", h.Entries()[0].Query)
}

func TestHistory_Replay(t *testing.T) {
	h := NewHistory()
	h.Record("  TRX-REF-001", true) // recorded as submitted

	entries := h.Entries()
	query, ok := h.Replay(entries[0].ID)
	assert.True(t, ok)
	assert.Equal(t, "  TRX-REF-001", query)

	_, ok = h.Replay("nonexistent")
	assert.False(t, ok)
}

func TestHistory_Timestamps(t *testing.T) {
	h := NewHistory()
	before := time.Now()
	h.Record("q", true)

	entry := h.Entries()[0]
	assert.False(t, entry.Timestamp.Before(before.Add(-time.Second)))
	assert.NotEmpty(t, entry.ID)
}
