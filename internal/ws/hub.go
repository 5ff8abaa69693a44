package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"rxlens/internal/port"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub fans prescription lifecycle events out to connected WebSocket
// clients. All registry mutations happen on the Run goroutine; Broadcast
// never blocks the caller.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	events     chan port.Event
	// done is closed when Run exits so register/unregister senders never
	// block on a hub that stopped draining.
	done     chan struct{}
	upgrader websocket.Upgrader
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub. checkOrigin nil allows all origins.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		events:     make(chan port.Event, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Run owns the client registry until ctx is canceled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	log.Printf("ws.Hub: started")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			log.Printf("ws.Hub: shutdown complete")
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.Printf("ws.Hub: client connected (%d active)", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Printf("ws.Hub: client disconnected (%d active)", len(h.clients))
			}
		case event := <-h.events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("ws.Hub: marshaling event: %v", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Slow client; drop it rather than stall the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast implements port.Broadcaster. Events are dropped when the hub
// buffer is full.
func (h *Hub) Broadcast(event port.Event) {
	select {
	case h.events <- event:
	default:
		log.Printf("ws.Hub: event buffer full, dropping %s for %s", event.Type, event.PrescriptionID)
	}
}

// HandleUpgrade upgrades an HTTP request to a WebSocket connection and
// attaches it to the hub.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws.Hub: upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

// writePump drains the send channel onto the connection and keeps it alive
// with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; clients are listen-only. It exists to
// detect closes and answer pongs.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
