// internal/services/container.go
// Service container provides dependency injection for all business logic services.
// This pattern makes testing easier and keeps services loosely coupled.

package services

import (
	"errors"
	"log"

	"courtmatch/internal/config"
	"courtmatch/internal/database"
	"courtmatch/internal/repositories"
)

// Container holds all service instances and provides them to handlers
type Container struct {
	Session      *SessionService
	Notification *NotificationService
	Cache        *CacheService
	Analytics    *AnalyticsService
}

// NewContainer creates a new service container with all dependencies
func NewContainer(db *database.Connections, cfg *config.Config, logger *log.Logger) *Container {
	// Initialize repositories
	repos := repositories.NewContainer(db)

	// Initialize cache service
	cache := NewCacheService(db.Redis, logger)

	// Initialize notification service
	notification := NewNotificationService(logger)

	// Initialize analytics service
	analytics := NewAnalyticsService(db.MongoDB, cache, logger)

	// Initialize the session service, which wraps the pure matchmaking
	// engine with persistence, caching, and notification
	session := NewSessionService(repos, cache, notification, analytics, logger)

	return &Container{
		Session:      session,
		Notification: notification,
		Cache:        cache,
		Analytics:    analytics,
	}
}

// Common errors used across services
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)
