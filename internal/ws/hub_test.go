package ws

import (
	"encoding/json"
	"testing"
	"time"

	"compta-pme-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	messages chan []byte
}

func newRecordingConn() *recordingConn {
	return &recordingConn{messages: make(chan []byte, 8)}
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.messages <- data
	return nil
}

func (c *recordingConn) Close() error { return nil }

func receive(t *testing.T, c *recordingConn) map[string]any {
	t.Helper()
	select {
	case msg := <-c.messages:
		var got map[string]any
		require.NoError(t, json.Unmarshal(msg, &got))
		return got
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
		return nil
	}
}

func TestPublishNilHub(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{Type: "stock_update"}) })
}

func TestPublishEncodesEvent(t *testing.T) {
	h := NewHub(logger.Nop())
	go h.Run()

	conn := newRecordingConn()
	h.Register <- NewClient(conn, []string{"s1"})
	h.Publish(Event{Type: "stock_alerte", SocieteID: "s1", Data: []string{"ABC"}})

	got := receive(t, conn)
	assert.Equal(t, "stock_alerte", got["type"])
	assert.Equal(t, "s1", got["societe_id"])
	assert.Equal(t, []any{"ABC"}, got["data"])
}

// Events of one société never reach a client of another.
func TestPublishDeliversOnlyToWatchers(t *testing.T) {
	h := NewHub(logger.Nop())
	go h.Run()

	connA := newRecordingConn()
	connB := newRecordingConn()
	h.Register <- NewClient(connA, []string{"societe-a"})
	h.Register <- NewClient(connB, []string{"societe-b"})

	h.Publish(Event{Type: "stock_update", SocieteID: "societe-a", Message: "ENTREE 42 SECRET-REF"})
	h.Publish(Event{Type: "stock_update", SocieteID: "societe-b", Message: "ENTREE 1 OTHER"})

	gotA := receive(t, connA)
	assert.Equal(t, "ENTREE 42 SECRET-REF", gotA["message"])

	// The hub handles events in order, so B's first message is its own.
	gotB := receive(t, connB)
	assert.Equal(t, "societe-b", gotB["societe_id"])
	assert.Equal(t, "ENTREE 1 OTHER", gotB["message"])

	assert.Empty(t, connA.messages)
	assert.Empty(t, connB.messages)
}

func TestPublishWithoutSocieteReachesNobody(t *testing.T) {
	h := NewHub(logger.Nop())
	go h.Run()

	conn := newRecordingConn()
	h.Register <- NewClient(conn, []string{"s1"})
	h.Publish(Event{Type: "stock_update"})
	h.Publish(Event{Type: "stock_update", SocieteID: "s1"})

	assert.Equal(t, "s1", receive(t, conn)["societe_id"])
}

// Without a running loop Publish fills the queue then drops, never blocking.
func TestPublishDropsWhenQueueFull(t *testing.T) {
	h := NewHub(logger.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			h.Publish(Event{Type: "stock_update", SocieteID: "s1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, h.broadcast, broadcastBuffer)
}
