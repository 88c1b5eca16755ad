// Package search implements the search-and-reconcile workflow shared by the
// transfer, payout and transaction surfaces: query submission, history
// tracking and ownership of the single currently-displayed result.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/adeyinka/paydesk/internal/domain"
)

// State is the lifecycle of the current search result.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateFound     State = "found"
	StateNotFound  State = "not_found"
	StateErrored   State = "errored"
)

// Searcher is the slice of the upstream client the controller needs.
type Searcher interface {
	Search(ctx context.Context, kind domain.Kind, query string) ([]domain.Result, error)
}

// Controller owns the query lifecycle for one entity kind: it validates input,
// issues the upstream request, keeps exactly one displayed result, and records
// every attempt in its history.
//
// Each issued request carries a generation number. A newer search cancels the
// superseded request's context, and a response whose generation is no longer
// the latest is discarded either way, so a slow response can never overwrite
// the result of a newer query.
type Controller struct {
	searcher Searcher
	kind     domain.Kind
	history  *History
	timeout  time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	generation uint64
	state      State
	current    *domain.Result
	cancel     context.CancelFunc
}

// NewController creates a controller for one entity kind. timeout bounds each
// upstream call; zero falls back to 60 seconds.
func NewController(searcher Searcher, kind domain.Kind, timeout time.Duration, log zerolog.Logger) *Controller {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Controller{
		searcher: searcher,
		kind:     kind,
		history:  NewHistory(),
		timeout:  timeout,
		log:      log.With().Str("component", "search").Str("kind", string(kind)).Logger(),
		state:    StateIdle,
	}
}

// Search runs one query to completion. The query is trimmed first; an empty
// result fails fast with domain.ErrEmptyQuery, performs no network call and is
// never recorded in history.
//
// The backend may return multiple matches; only the first is kept. A
// well-formed response with zero matches returns *domain.NotFoundError.
// Every attempt that reaches the network records exactly one history entry.
func (c *Controller) Search(ctx context.Context, query string) (*domain.Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	generation := c.beginSearch(cancel)

	results, err := c.searcher.Search(ctx, c.kind, trimmed)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer search was issued while this one was in flight; its response
	// owns the display now. Drop this one entirely, history included;
	// the superseding call records its own entry.
	if generation != c.generation {
		c.log.Debug().Str("query", trimmed).Msg("Discarding superseded search response")
		return nil, context.Canceled
	}

	if err != nil {
		c.state = StateErrored
		c.current = nil
		c.history.Record(trimmed, false)
		c.log.Warn().Err(err).Str("query", trimmed).Msg("Search failed")
		return nil, err
	}

	if len(results) == 0 {
		c.state = StateNotFound
		c.current = nil
		c.history.Record(trimmed, false)
		return nil, &domain.NotFoundError{Query: trimmed}
	}

	result := results[0]
	c.state = StateFound
	c.current = &result
	c.history.Record(trimmed, true)

	c.log.Info().
		Str("query", trimmed).
		Str("id", result.ID).
		Str("status", result.Status.String()).
		Int("matches", len(results)).
		Msg("Search resolved")

	return &result, nil
}

// beginSearch advances the generation, cancels the superseded in-flight
// request, clears the stale result and flips the state to searching so stale
// data is never shown during a new fetch.
func (c *Controller) beginSearch(cancel context.CancelFunc) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel

	c.generation++
	c.state = StateSearching
	c.current = nil
	return c.generation
}

// Current returns the single displayed result, or nil outside the Found state.
func (c *Controller) Current() *domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateFound || c.current == nil {
		return nil
	}
	result := *c.current
	return &result
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether a search is in flight.
func (c *Controller) Loading() bool {
	return c.State() == StateSearching
}

// Kind returns the entity kind this controller searches.
func (c *Controller) Kind() domain.Kind {
	return c.kind
}

// History exposes the controller's bounded search history.
func (c *Controller) History() *History {
	return c.history
}
