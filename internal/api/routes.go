// internal/api/routes.go
// Central route registration for all API endpoints

package api

import (
	"courtmatch/internal/services"
	"courtmatch/internal/websocket"

	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers every session-lifecycle endpoint
// (the engine's create/add-player/remove-player/start-match/complete-
// match/forfeit-match/make-court/edit-session/update-config/export/
// import operations, one route apiece) under /sessions.
func RegisterSessionRoutes(router *gin.RouterGroup, services *services.Container) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", HandleCreateSession(services.Session))
		sessions.POST("/import", HandleImportSnapshot(services.Session))
		sessions.GET("/:id", HandleGetSession(services.Session))
		sessions.DELETE("/:id", HandleEndSession(services.Session))
		sessions.GET("/:id/export", HandleExportSnapshot(services.Session))
		sessions.POST("/:id/edit", HandleEditSession(services.Session))
		sessions.PATCH("/:id/config", HandleUpdateConfig(services.Session))

		sessions.POST("/:id/players", HandleAddPlayer(services.Session))
		sessions.DELETE("/:id/players/:playerId", HandleRemovePlayer(services.Session))

		sessions.POST("/:id/courts", HandleMakeCourt(services.Session))

		sessions.POST("/:id/matches/:matchId/start", HandleStartMatch(services.Session))
		sessions.POST("/:id/matches/:matchId/complete", HandleCompleteMatch(services.Session))
		sessions.POST("/:id/matches/:matchId/forfeit", HandleForfeitMatch(services.Session))
	}
}

// RegisterWebSocketRoutes mounts the live-update socket, keyed by
// session id rather than by authenticated user (there is no multi-user
// auth in this system; every viewer of a session gets the same pushes).
func RegisterWebSocketRoutes(router *gin.RouterGroup, hub *websocket.Hub) {
	router.GET("/ws/:id", websocket.ServeWS(hub))
}
