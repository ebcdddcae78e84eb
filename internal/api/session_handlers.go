// internal/api/session_handlers.go
// HTTP handlers for the engine API: every session lifecycle
// operation is a thin gin handler over services.SessionService, which
// in turn delegates the actual decision-making to internal/engine.

package api

import (
	"errors"
	"net/http"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
	"courtmatch/internal/services"
	"courtmatch/internal/utils"

	"github.com/gin-gonic/gin"
)

// engineErrorStatus maps a typed engine.Error to an HTTP status:
// validation failures are 400, missing resources 404, state
// conflicts 409.
func engineErrorStatus(err error) int {
	var e *engine.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case engine.KindUnknownMatch, engine.KindUnknownPlayer:
		return http.StatusNotFound
	case engine.KindCourtOccupied, engine.KindIllegalTransition:
		return http.StatusConflict
	case engine.KindInvalidScore, engine.KindBannedPairViolation, engine.KindConfigOutOfRange, engine.KindInsufficientPlayers:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	status := engineErrorStatus(err)
	body := gin.H{"error": err.Error()}
	var e *engine.Error
	if errors.As(err, &e) {
		body["kind"] = e.Kind
	}
	c.JSON(status, body)
}

// CreateSessionRequest is the wire shape for create_session.
type CreateSessionRequest struct {
	ID                    string              `json:"id"`
	Mode                  models.Mode         `json:"mode" binding:"required"`
	SessionType           models.SessionType  `json:"session_type" binding:"required"`
	CourtCount            int                 `json:"court_count" binding:"required,min=1"`
	Players               []models.Player     `json:"players" binding:"required,min=1,dive"`
	BannedPairs           []models.BannedPair `json:"banned_pairs"`
	LockedTeams           []models.LockedTeam `json:"locked_teams"`
	Config                *models.ConfigPatch `json:"config"`
	RandomizeInitialOrder bool                `json:"randomize_initial_order"`
	// TestModeSeed seeds the injected pseudo-random source for
	// reproducible test-mode runs; an omitted value means seed 0.
	TestModeSeed int64 `json:"test_mode_seed"`
}

// HandleCreateSession handles POST /sessions
func HandleCreateSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cfg := models.DefaultConfig()
		if req.Config != nil {
			cfg = cfg.Merge(*req.Config)
		}

		if req.ID == "" {
			req.ID = utils.GenerateUUID()
		}
		for i := range req.Players {
			if req.Players[i].ID == "" {
				req.Players[i].ID = utils.GenerateUUID()
			}
		}

		session, err := svc.Create(c.Request.Context(), services.CreateSessionRequest{
			ID:                    req.ID,
			Config:                cfg,
			Mode:                  req.Mode,
			SessionType:           req.SessionType,
			CourtCount:            req.CourtCount,
			Players:               req.Players,
			BannedPairs:           req.BannedPairs,
			LockedTeams:           req.LockedTeams,
			RandomizeInitialOrder: req.RandomizeInitialOrder,
			Seed:                  req.TestModeSeed,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"session": session})
	}
}

// HandleGetSession handles GET /sessions/:id
func HandleGetSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleAddPlayer handles POST /sessions/:id/players
func HandleAddPlayer(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Player
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if p.ID == "" {
			p.ID = utils.GenerateUUID()
		}
		session, err := svc.AddPlayer(c.Request.Context(), c.Param("id"), p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleRemovePlayer handles DELETE /sessions/:id/players/:playerId
func HandleRemovePlayer(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.RemovePlayer(c.Request.Context(), c.Param("id"), c.Param("playerId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleStartMatch handles POST /sessions/:id/matches/:matchId/start
func HandleStartMatch(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.StartMatch(c.Request.Context(), c.Param("id"), c.Param("matchId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// completeMatchRequest is the wire shape for complete_match.
type completeMatchRequest struct {
	Team1Score int `json:"team1_score" binding:"min=0"`
	Team2Score int `json:"team2_score" binding:"min=0"`
}

// HandleCompleteMatch handles POST /sessions/:id/matches/:matchId/complete
func HandleCompleteMatch(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := svc.CompleteMatch(c.Request.Context(), c.Param("id"), c.Param("matchId"), req.Team1Score, req.Team2Score)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// forfeitMatchRequest is the wire shape for forfeit_match.
type forfeitMatchRequest struct {
	WinningTeam int `json:"winning_team" binding:"required,oneof=1 2"`
}

// HandleForfeitMatch handles POST /sessions/:id/matches/:matchId/forfeit
func HandleForfeitMatch(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forfeitMatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := svc.ForfeitMatch(c.Request.Context(), c.Param("id"), c.Param("matchId"), req.WinningTeam)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// makeCourtRequest is the wire shape for make_court.
type makeCourtRequest struct {
	Court int      `json:"court" binding:"required,min=1"`
	Team1 []string `json:"team1" binding:"required"`
	Team2 []string `json:"team2" binding:"required"`
}

// HandleMakeCourt handles POST /sessions/:id/courts
func HandleMakeCourt(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req makeCourtRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := svc.MakeCourt(c.Request.Context(), c.Param("id"), req.Court, req.Team1, req.Team2)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleEndSession handles DELETE /sessions/:id
func HandleEndSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.End(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	}
}

// HandleEditSession handles POST /sessions/:id/edit
func HandleEditSession(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.EditSession(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleUpdateConfig handles PATCH /sessions/:id/config
func HandleUpdateConfig(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.ConfigPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		session, err := svc.UpdateConfig(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

// HandleExportSnapshot handles GET /sessions/:id/export
func HandleExportSnapshot(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.Export(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", data)
	}
}

// HandleImportSnapshot handles POST /sessions/import
func HandleImportSnapshot(svc *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		session, err := svc.Import(c.Request.Context(), data)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}
