// internal/services/other_services.go
// Notification and analytics services: the ambient collaborators a
// session's lifecycle events fan out to: a log-only notification
// sink and a Mongo analytics-event trail.

package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Broadcaster pushes a session update to everyone viewing it live; the
// websocket hub satisfies it. It is injected after construction (the
// hub is built later in server setup) and may stay nil in tests or
// when the websocket feature is disabled.
type Broadcaster interface {
	BroadcastSessionUpdate(sessionID string, updateType string, data interface{})
}

// NotificationService fans session lifecycle events out to live
// viewers via the broadcaster, with a log line per event. Email/push
// delivery belongs to the UI shell, not here.
type NotificationService struct {
	broadcaster Broadcaster
	logger      *log.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(logger *log.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// SetBroadcaster wires the live-update transport in once it exists.
func (s *NotificationService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *NotificationService) push(sessionID, updateType string, data map[string]interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastSessionUpdate(sessionID, updateType, data)
	}
}

// NotifyPlayerAdded announces a player-added event.
func (s *NotificationService) NotifyPlayerAdded(sessionID, playerID string) {
	s.logger.Printf("session %s: player %s added", sessionID, playerID)
	s.push(sessionID, "player_added", map[string]interface{}{"player_id": playerID})
}

// NotifyPlayerRemoved announces a player-removed event.
func (s *NotificationService) NotifyPlayerRemoved(sessionID, playerID string) {
	s.logger.Printf("session %s: player %s removed", sessionID, playerID)
	s.push(sessionID, "player_removed", map[string]interface{}{"player_id": playerID})
}

// NotifyMatchStarted announces a match-started event.
func (s *NotificationService) NotifyMatchStarted(sessionID, matchID string) {
	s.logger.Printf("session %s: match %s started", sessionID, matchID)
	s.push(sessionID, "match_started", map[string]interface{}{"match_id": matchID})
}

// NotifyMatchResult announces a match-result event.
func (s *NotificationService) NotifyMatchResult(sessionID, matchID string) {
	s.logger.Printf("session %s: match %s result recorded", sessionID, matchID)
	s.push(sessionID, "match_completed", map[string]interface{}{"match_id": matchID})
}

// NotifyCourtMade announces a manual court-override event.
func (s *NotificationService) NotifyCourtMade(sessionID string, court int) {
	s.logger.Printf("session %s: court %d created manually", sessionID, court)
	s.push(sessionID, "court_made", map[string]interface{}{"court": court})
}

// ========================================

// AnalyticsService handles analytics and event tracking
type AnalyticsService struct {
	db     *mongo.Database
	cache  *CacheService
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *mongo.Database, cache *CacheService, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// LogEvent logs an analytics event
func (s *AnalyticsService) LogEvent(ctx context.Context, eventType string, data map[string]interface{}) error {
	event := bson.M{
		"type":       eventType,
		"data":       data,
		"timestamp":  time.Now(),
		"created_at": time.Now(),
	}

	_, err := s.db.Collection("analytics_events").InsertOne(ctx, event)
	if err != nil {
		s.logger.Printf("Failed to log analytics event: %v", err)
		// Don't return error - analytics shouldn't break the app
	}

	return nil
}

// GetSessionStats returns the session id and the number of analytics
// events logged for that session (only completed matches are logged),
// cached for five minutes. It does not count HARD-CAP waits or other
// per-round outcomes.
func (s *AnalyticsService) GetSessionStats(ctx context.Context, sessionID string) (map[string]interface{}, error) {
	cacheKey := "session_stats_" + sessionID
	var stats map[string]interface{}
	if err := s.cache.Get(cacheKey, &stats); err == nil {
		return stats, nil
	}

	count, err := s.db.Collection("analytics_events").CountDocuments(ctx, bson.M{"data.session_id": sessionID})
	if err != nil {
		return nil, err
	}

	stats = map[string]interface{}{
		"session_id":     sessionID,
		"logged_events":  count,
	}

	s.cache.Set(cacheKey, stats, 5*time.Minute)
	return stats, nil
}
