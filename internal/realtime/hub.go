package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/generalink/backend/internal/models"
)

// Event is a frame on the realtime channel. Rooms are keyed by conversation
// id and affect fan-out only, never persistence.
type Event struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId,omitempty"`
	UserID         string          `json:"userId,omitempty"`
	Message        *models.Message `json:"message,omitempty"`
}

const (
	eventJoin       = "join"
	eventLeave      = "leave"
	eventTyping     = "typing"
	EventUserTyping = "user_typing"
	EventNewMessage = "new_message"
)

// Hub tracks which connections belong to which conversation rooms.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// BroadcastNewMessage delivers a freshly persisted message to every member of
// its conversation room.
func (h *Hub) BroadcastNewMessage(conversationID string, msg *models.Message) {
	h.broadcast(conversationID, Event{
		Type:           EventNewMessage,
		ConversationID: conversationID,
		Message:        msg,
	}, nil)
}

func (h *Hub) join(room string, c *Client) {
	if room == "" {
		return
	}
	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("[ws] client joined room %s", room)
}

func (h *Hub) leave(room string, c *Client) {
	if room == "" {
		return
	}
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
	log.Printf("[ws] client left room %s", room)
}

// removeClient drops the client from every room on disconnect.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// broadcast fans an event out to the room. except, when non-nil, is skipped
// (typing indicators are not echoed to their sender). A member whose send
// buffer is full is dropped rather than blocking the room.
func (h *Hub) broadcast(room string, event Event, except *Client) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] marshal %s event: %v", event.Type, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != except {
			members = append(members, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- payload:
		default:
			c.close()
		}
	}
}

// RoomSize reports current membership of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
