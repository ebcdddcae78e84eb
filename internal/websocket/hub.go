// internal/websocket/hub.go
// WebSocket hub manages client connections and message broadcasting

package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active websocket connections and broadcasts messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Register client
	register chan *Client

	// Unregister client
	unregister chan *Client

	// Broadcast messages to a session's viewers
	broadcast chan *Message

	logger *log.Logger

	// Mutex for concurrent access
	mu sync.RWMutex
}

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient adds a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Printf("Client registered for session %s", client.sessionID)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeClient(client)
	client.close()

	h.logger.Printf("Client unregistered from session %s", client.sessionID)
}

// removeClient removes client from its session's subscriber set
func (h *Hub) removeClient(client *Client) {
	if clients, exists := h.sessions[client.sessionID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
}

// broadcastMessage sends a message to every viewer of its session
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("Failed to marshal message: %v", err)
		return
	}

	clients, exists := h.sessions[message.SessionID]
	if !exists {
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, close it
			h.removeClient(client)
			client.close()
		}
	}
}

// BroadcastSessionUpdate pushes a session state change to everyone
// currently viewing it, keyed by session id since there is no
// per-user auth model here.
func (h *Hub) BroadcastSessionUpdate(sessionID string, updateType string, data interface{}) {
	message := &Message{
		Type:      updateType,
		SessionID: sessionID,
		Data:      data,
	}
	h.broadcast <- message
}
