package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHubPublish(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish(SessionUpdated, SessionEvent{Session: "default", Reason: "select", Ts: 1})

	ev := <-ch
	assert.Equal(t, SessionUpdated, ev.Name)
	payload, err := DecodeAs[SessionEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, "default", payload.Session)
	assert.Equal(t, "select", payload.Reason)
}

func TestEventHubDropsForSlowSubscribers(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()

	for i := 0; i < 100; i++ {
		h.Publish(ConfigUpdated, ConfigEvent{ColorMode: "dark"})
	}
	assert.Len(t, ch, cap(ch))

	h.Unsubscribe(ch)
	h.Unsubscribe(ch)
	_, open := <-drain(ch)
	assert.False(t, open)
}

func TestNilHubPublish(t *testing.T) {
	var h *EventHub
	assert.NotPanics(t, func() { h.Publish(ConfigUpdated, nil) })
}

func TestDecodeAsEmpty(t *testing.T) {
	v, err := DecodeAs[ConfigEvent](Event{Name: ConfigUpdated})
	require.NoError(t, err)
	assert.Equal(t, ConfigEvent{}, v)
}

// drain empties a closed channel and returns it.
func drain(ch chan Event) chan Event {
	for range ch {
	}
	return ch
}

func TestEventHubClose(t *testing.T) {
	h := NewEventHub()
	a := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	h.Close()
	assert.Equal(t, 0, h.Subscribers())
	_, open := <-a
	assert.False(t, open)

	b := h.Subscribe()
	_, open = <-b
	assert.False(t, open)
}
