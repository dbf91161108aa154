package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/generalink/backend/internal/models"
)

func newTestClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, sendBuffer)}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("expected a queued event")
		return Event{}
	}
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	a := newTestClient(hub)
	b := newTestClient(hub)

	hub.join("conv-1", a)
	hub.join("conv-1", b)
	assert.Equal(t, 2, hub.RoomSize("conv-1"))

	hub.leave("conv-1", a)
	assert.Equal(t, 1, hub.RoomSize("conv-1"))

	hub.removeClient(b)
	assert.Equal(t, 0, hub.RoomSize("conv-1"))
}

func TestHubJoinEmptyRoomIgnored(t *testing.T) {
	hub := NewHub()
	hub.join("", newTestClient(hub))
	assert.Equal(t, 0, hub.RoomSize(""))
}

func TestBroadcastNewMessageReachesRoomOnly(t *testing.T) {
	hub := NewHub()
	member := newTestClient(hub)
	outsider := newTestClient(hub)
	hub.join("conv-1", member)
	hub.join("conv-2", outsider)

	hub.BroadcastNewMessage("conv-1", &models.Message{ID: "msg-1", SenderID: "user-a", Text: "hi"})

	ev := receiveEvent(t, member)
	assert.Equal(t, EventNewMessage, ev.Type)
	assert.Equal(t, "conv-1", ev.ConversationID)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "hi", ev.Message.Text)

	assert.Empty(t, outsider.send)
}

func TestTypingExcludesSender(t *testing.T) {
	hub := NewHub()
	typist := newTestClient(hub)
	watcher := newTestClient(hub)
	hub.join("conv-1", typist)
	hub.join("conv-1", watcher)

	typist.handleEvent(Event{Type: eventTyping, ConversationID: "conv-1", UserID: "user-a"})

	ev := receiveEvent(t, watcher)
	assert.Equal(t, EventUserTyping, ev.Type)
	assert.Equal(t, "user-a", ev.UserID)

	assert.Empty(t, typist.send)
}
