package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/mittwerk/assetgo/internal/models"
)

// Event types pushed to connected consoles
const (
	EventSessionProgress  = "SESSION_PROGRESS"
	EventSessionCompleted = "SESSION_COMPLETED"
)

// ProgressEvent mirrors the session counters after a check-in, batch commit
// or offline sync so every open console updates without polling.
type ProgressEvent struct {
	Type           string               `json:"type"`
	SessionID      uint                 `json:"sessionId"`
	Status         models.SessionStatus `json:"status"`
	CheckedDevices int                  `json:"checkedDevices"`
	TotalDevices   int                  `json:"totalDevices"`
	Progress       int                  `json:"progress"`
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound fan-out
	broadcast chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A reconnecting client replaces its old connection
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🖥️  Console connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("📴 Console disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead, drop the message for it
					log.Printf("⚠️  Dropping message for slow client %s", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}
	h.broadcast <- msg
}
