// internal/websocket/handlers.go
// WebSocket connection handlers

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// ServeWS handles new WebSocket connections for a single session,
// identified by the :id path parameter.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			hub:       hub,
			conn:      conn,
			send:      make(chan []byte, 256),
			sessionID: sessionID,
		}

		hub.register <- client

		welcomeMsg := Message{
			Type:      "welcome",
			SessionID: sessionID,
			Data: map[string]interface{}{
				"message": "connected to session live updates",
			},
		}

		if data, err := json.Marshal(welcomeMsg); err == nil {
			client.send <- data
		}

		go client.writePump()
		go client.readPump()
	}
}

// Message types for WebSocket communication: one broadcast type per
// session lifecycle operation, plus the edit/config-change events.
const (
	MessagePlayerAdded    = "player_added"
	MessagePlayerRemoved  = "player_removed"
	MessageMatchStarted   = "match_started"
	MessageMatchCompleted = "match_completed"
	MessageMatchForfeited = "match_forfeited"
	MessageCourtMade      = "court_made"
	MessageSessionEdited  = "session_edited"
	MessageConfigUpdated  = "config_updated"

	MessageNotification = "notification"
	MessageAlert        = "alert"
)
