// Package websocket streams board activity (task and comment
// mutations) to connected clients.
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Event is one board activity entry pushed to subscribers.
type Event struct {
	BoardID int    `json:"board_id"`
	Kind    string `json:"kind"` // task_created, task_updated, task_deleted, comment_added, ...
	Actor   string `json:"actor"`
	Payload any    `json:"payload,omitempty"`
}

type Client struct {
	Conn    *websocket.Conn
	BoardID int
	mu      sync.Mutex
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	events     chan Event
	clients    map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		events:     make(chan Event, 64),
		clients:    make(map[*Client]bool),
	}
}

// Publish enqueues an event without blocking the request path; if the
// buffer is full the event is dropped.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	select {
	case h.events <- ev:
	default:
	}
}

// Run owns the client set; it must be started once in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
		case ev := <-h.events:
			msg, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			for client := range h.clients {
				if client.BoardID != ev.BoardID {
					continue
				}
				client.mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, msg)
				client.mu.Unlock()
				if err != nil {
					go func(c *Client) { h.Unregister <- c }(client)
				}
			}
		}
	}
}
