// internal/services/session_service.go
// SessionService is the thin, read-mostly layer between the HTTP/WS
// shell and the pure matchmaking engine (internal/engine): it loads a
// session from cache or Mongo, delegates every state transition to the
// engine's SessionLifecycle operations, then persists the returned
// snapshot and records completed matches to the durable audit trail.
// It never implements matchmaking itself; fairness, variety, and
// court-placement rules are the engine's responsibility alone.

package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
	"courtmatch/internal/repositories"
)

const sessionCacheTTL = 1 * time.Minute

// SessionService handles session lifecycle business logic.
type SessionService struct {
	repos        *repositories.Container
	cache        *CacheService
	notification *NotificationService
	analytics    *AnalyticsService
	logger       *log.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	repos *repositories.Container,
	cache *CacheService,
	notification *NotificationService,
	analytics *AnalyticsService,
	logger *log.Logger,
) *SessionService {
	return &SessionService{
		repos:        repos,
		cache:        cache,
		notification: notification,
		analytics:    analytics,
		logger:       logger,
	}
}

// CreateSessionRequest carries everything create_session needs,
// including the two fields only session creation may consume:
// randomize_initial_order and a test-mode seed/playerlist injector.
type CreateSessionRequest struct {
	ID                    string
	Config                models.Config
	Mode                  models.Mode
	SessionType           models.SessionType
	CourtCount            int
	Players               []models.Player
	BannedPairs           []models.BannedPair
	LockedTeams           []models.LockedTeam
	RandomizeInitialOrder bool
	Seed                  int64 // test-mode seed injector; always used as the seed, so 0 is a fixed seed too
}

// Create runs create_session and persists the resulting snapshot.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if len(req.Players) < req.SessionType.PlayersPerMatch() {
		return nil, engine.KindError(engine.KindInsufficientPlayers)
	}

	cfg := req.Config
	cfg.RandomizeInitialOrder = req.RandomizeInitialOrder
	if err := engine.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	src := engine.NewSource(req.Seed)

	session := engine.NewSession(engine.SessionSetup{
		ID:          req.ID,
		Config:      cfg,
		Mode:        req.Mode,
		SessionType: req.SessionType,
		CourtCount:  req.CourtCount,
		Players:     req.Players,
		BannedPairs: req.BannedPairs,
		LockedTeams: req.LockedTeams,
		Seed:        req.Seed,
	}, src, time.Now())

	for _, p := range req.Players {
		if err := s.repos.Roster.UpsertPlayer(ctx, p); err != nil {
			s.logger.Printf("failed to upsert player %s: %v", p.ID, err)
		}
	}

	return session, s.persist(ctx, session)
}

// Get loads a session, preferring the cache and falling back to Mongo.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	if snapshot, err := s.cache.CachedSnapshot(sessionID); err == nil && snapshot != nil {
		return engine.ImportSnapshot(snapshot)
	}

	snapshot, err := s.repos.Session.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if snapshot == nil {
		return nil, ErrNotFound
	}

	session, err := engine.ImportSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	s.cache.CacheSnapshot(sessionID, snapshot, sessionCacheTTL)
	return session, nil
}

// persist exports session, writes it to Mongo, and refreshes the cache.
func (s *SessionService) persist(ctx context.Context, session *models.Session) error {
	snapshot, err := engine.ExportSnapshot(session)
	if err != nil {
		return fmt.Errorf("failed to export session: %w", err)
	}
	if err := s.repos.Session.Save(ctx, session.ID, snapshot); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.cache.CacheSnapshot(session.ID, snapshot, sessionCacheTTL); err != nil {
		s.logger.Printf("failed to cache session %s: %v", session.ID, err)
	}
	return nil
}

// End deletes a session outright: the cached snapshot and the
// persisted document both go away. Completed-match audit rows and the
// durable roster remain.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repos.Session.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := s.cache.InvalidateSnapshot(sessionID); err != nil {
		s.logger.Printf("failed to invalidate cache for %s: %v", sessionID, err)
	}
	return nil
}

// AddPlayer implements add_player.
func (s *SessionService) AddPlayer(ctx context.Context, sessionID string, p models.Player) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Roster.UpsertPlayer(ctx, p); err != nil {
		s.logger.Printf("failed to upsert player %s: %v", p.ID, err)
	}
	engine.AddPlayer(session, p, time.Now())
	s.notification.NotifyPlayerAdded(session.ID, p.ID)
	return session, s.persist(ctx, session)
}

// RemovePlayer implements remove_player.
func (s *SessionService) RemovePlayer(ctx context.Context, sessionID, playerID string) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.RemovePlayer(session, playerID, time.Now()); err != nil {
		return nil, err
	}
	s.notification.NotifyPlayerRemoved(session.ID, playerID)
	return session, s.persist(ctx, session)
}

// StartMatch implements start_match.
func (s *SessionService) StartMatch(ctx context.Context, sessionID, matchID string) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.StartMatch(session, matchID, time.Now()); err != nil {
		return nil, err
	}
	s.notification.NotifyMatchStarted(session.ID, matchID)
	return session, s.persist(ctx, session)
}

// CompleteMatch implements complete_match, including the score-edit path.
func (s *SessionService) CompleteMatch(ctx context.Context, sessionID, matchID string, team1Score, team2Score int) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.CompleteMatch(session, matchID, team1Score, team2Score, time.Now()); err != nil {
		return nil, err
	}

	m := session.MatchByID(matchID)
	s.recordAudit(ctx, session.ID, m)
	s.notification.NotifyMatchResult(session.ID, matchID)
	go s.analytics.LogEvent(context.Background(), "match_completed", map[string]interface{}{
		"session_id": session.ID,
		"match_id":   matchID,
		"court":      m.Court,
	})

	return session, s.persist(ctx, session)
}

// ForfeitMatch implements forfeit_match.
func (s *SessionService) ForfeitMatch(ctx context.Context, sessionID, matchID string, winningTeam int) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.ForfeitMatch(session, matchID, winningTeam, time.Now()); err != nil {
		return nil, err
	}
	m := session.MatchByID(matchID)
	s.recordAudit(ctx, session.ID, m)
	s.notification.NotifyMatchResult(session.ID, matchID)
	return session, s.persist(ctx, session)
}

// MakeCourt implements make_court.
func (s *SessionService) MakeCourt(ctx context.Context, sessionID string, court int, team1, team2 []string) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.MakeCourt(session, court, team1, team2, time.Now()); err != nil {
		return nil, err
	}
	s.notification.NotifyCourtMade(session.ID, court)
	return session, s.persist(ctx, session)
}

// EditSession implements edit_session.
func (s *SessionService) EditSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	engine.EditSession(session, time.Now())
	return session, s.persist(ctx, session)
}

// UpdateConfig implements update_advanced_config.
func (s *SessionService) UpdateConfig(ctx context.Context, sessionID string, patch models.ConfigPatch) (*models.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := engine.UpdateAdvancedConfig(session, patch, time.Now()); err != nil {
		return nil, err
	}
	return session, s.persist(ctx, session)
}

// Export implements export_snapshot.
func (s *SessionService) Export(ctx context.Context, sessionID string) ([]byte, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return engine.ExportSnapshot(session)
}

// Import implements import_snapshot and persists the resulting session.
func (s *SessionService) Import(ctx context.Context, data []byte) (*models.Session, error) {
	session, err := engine.ImportSnapshot(data)
	if err != nil {
		return nil, err
	}
	return session, s.persist(ctx, session)
}

// recordAudit appends one row per completed/forfeited match to the
// durable MySQL audit trail; failures are logged, not propagated, since
// the audit log is a read-side convenience, not authoritative state
// (the Mongo snapshot is).
func (s *SessionService) recordAudit(ctx context.Context, sessionID string, m *models.Match) {
	if m == nil {
		return
	}
	rec := repositories.MatchAuditRecord{
		MatchID:     m.ID,
		SessionID:   sessionID,
		Court:       m.Court,
		Team1:       strings.Join(m.Team1, ","),
		Team2:       strings.Join(m.Team2, ","),
		WinningTeam: m.WinningTeam,
		Status:      string(m.Status),
	}
	if m.Score != nil {
		rec.Team1Score = m.Score.Team1Score
		rec.Team2Score = m.Score.Team2Score
	}
	if m.CompletedAt != nil {
		rec.CompletedAt = *m.CompletedAt
	}
	if err := s.repos.Roster.RecordMatchCompletion(ctx, rec); err != nil {
		s.logger.Printf("failed to record match audit for %s: %v", m.ID, err)
	}
}
