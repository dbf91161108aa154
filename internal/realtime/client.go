package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same policy as the HTTP CORS layer: any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection. Inbound frames are room-control events
// (join/leave/typing); everything else a client might need arrives via hub
// broadcasts.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// ServeWS upgrades the request and runs the connection's pumps.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[ws] upgrade: %v", err)
			return
		}

		c := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, sendBuffer),
		}

		go c.writePump()
		go c.readPump()
	}
}

// close tears down the connection. The send channel is never closed; the
// write pump exits on the resulting write error, which keeps concurrent
// broadcasts safe from sending on a closed channel.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read: %v", err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[ws] bad frame: %v", err)
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Type {
	case eventJoin:
		c.hub.join(event.ConversationID, c)
	case eventLeave:
		c.hub.leave(event.ConversationID, c)
	case eventTyping:
		if event.ConversationID == "" {
			return
		}
		// Typing indicators go to everyone in the room except the typist.
		c.hub.broadcast(event.ConversationID, Event{
			Type:           EventUserTyping,
			ConversationID: event.ConversationID,
			UserID:         event.UserID,
		}, c)
	default:
		log.Printf("[ws] unknown event type %q", event.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
