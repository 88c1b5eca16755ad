package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

// Event types pushed to connected dashboards.
const (
	EventSearchResolved  = "search_resolved"
	EventActionCompleted = "action_completed"
)

// Event is one notification on the live stream.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	ResultID  string    `json:"result_id,omitempty"`
	Action    string    `json:"action,omitempty"`
	Found     bool      `json:"found"`
	At        time.Time `json:"at"`
}

// EventHub fans events out to every connected websocket subscriber. Slow
// subscribers drop events rather than block publishers.
type EventHub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	closed      bool
	log         zerolog.Logger
}

// NewEventHub creates an empty hub.
func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		subscribers: make(map[chan Event]struct{}),
		log:         log.With().Str("component", "events").Logger(),
	}
}

// Publish delivers an event to all current subscribers without blocking.
func (h *EventHub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full. Dropping is acceptable for a UI feed.
		}
	}
}

func (h *EventHub) subscribe() chan Event {
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

func (h *EventHub) unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// Close disconnects every subscriber. Publish becomes a no-op afterwards.
func (h *EventHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, ch)
	}
}

// Subscribers reports the current subscriber count.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// handleEventStream handles GET /ws. It upgrades the connection and streams
// events as JSON text frames until the client goes away.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The gateway sits behind the dashboard's own origin checks.
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	s.hub.log.Debug().Str("remote", r.RemoteAddr).Msg("Event stream connected")

	// Reads are discarded; the stream is one-way. CloseRead surfaces the
	// client disconnect through ctx.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
