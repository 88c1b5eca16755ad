package server

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())

	a := hub.subscribe()
	b := hub.subscribe()
	require.Equal(t, 2, hub.Subscribers())

	hub.Publish(Event{Type: EventSearchResolved, Kind: "payout", ResultID: "po_1", Found: true})

	for _, ch := range []chan Event{a, b} {
		select {
		case event := <-ch:
			assert.Equal(t, EventSearchResolved, event.Type)
			assert.Equal(t, "po_1", event.ResultID)
			assert.False(t, event.At.IsZero())
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestEventHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())
	ch := hub.subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 32; i++ {
			hub.Publish(Event{Type: EventActionCompleted})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	assert.Len(t, ch, 16)
}

func TestEventHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())
	ch := hub.subscribe()

	hub.unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())

	// Double unsubscribe is harmless.
	hub.unsubscribe(ch)
}

func TestEventHub_Close(t *testing.T) {
	hub := NewEventHub(zerolog.Nop())
	ch := hub.subscribe()

	hub.Close()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())

	// Publish and subscribe after close are no-ops.
	hub.Publish(Event{Type: EventSearchResolved})
	late := hub.subscribe()
	_, open = <-late
	assert.False(t, open)
}
