// internal/repositories/container.go
// Repository container for dependency injection

package repositories

import (
	"context"
	"database/sql"

	"courtmatch/internal/database"
)

// Container holds all repository instances
type Container struct {
	Session *SessionRepository
	Roster  *RosterRepository
	db      *sql.DB
}

// NewContainer creates a new repository container
func NewContainer(conn *database.Connections) *Container {
	return &Container{
		Session: NewSessionRepository(conn.MongoDB),
		Roster:  NewRosterRepository(conn.MySQL),
		db:      conn.MySQL,
	}
}

// BeginTx starts a new database transaction
func (c *Container) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}
