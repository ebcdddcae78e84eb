// internal/repositories/roster_repository.go
// Durable player roster and completed-match audit log (MySQL). This is
// the relational, rarely-changing half of the data model: player
// identities persist across sessions, while the session document
// itself (players, matches, stats, variety state) lives in Mongo via
// SessionRepository and is rewritten on every evaluation round.

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtmatch/internal/models"
)

// RosterRepository handles durable player identities and a
// completed-match audit trail.
type RosterRepository struct {
	db *sql.DB
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(db *sql.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// UpsertPlayer records (or refreshes the display name of) a player in
// the durable roster. Players are never deleted here: session-level
// removal only deactivates a player within that session.
func (r *RosterRepository) UpsertPlayer(ctx context.Context, p models.Player) error {
	query := `
		INSERT INTO players (id, display_name, created_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE display_name = VALUES(display_name)
	`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.DisplayName, time.Now())
	return err
}

// GetPlayer retrieves a player by id.
func (r *RosterRepository) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	query := `SELECT id, display_name FROM players WHERE id = ?`
	var p models.Player
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.DisplayName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns every player in the durable roster.
func (r *RosterRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	query := `SELECT id, display_name FROM players ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MatchAuditRecord is one append-only row of the completed-match audit
// trail: a relational record of "who played whom, where, and who won"
// that survives independently of the (frequently rewritten) session
// document.
type MatchAuditRecord struct {
	MatchID     string
	SessionID   string
	Court       int
	Team1       string // comma-joined player ids
	Team2       string
	Team1Score  int
	Team2Score  int
	WinningTeam int
	Status      string
	CompletedAt time.Time
}

// RecordMatchCompletion appends one row to the audit trail. Completed
// matches are append-only, so this never updates an
// existing row — a score edit appends a new row and callers read the
// latest one per match_id.
func (r *RosterRepository) RecordMatchCompletion(ctx context.Context, rec MatchAuditRecord) error {
	query := `
		INSERT INTO match_audit (
			match_id, session_id, court, team1, team2,
			team1_score, team2_score, winning_team, status, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.MatchID, rec.SessionID, rec.Court, rec.Team1, rec.Team2,
		rec.Team1Score, rec.Team2Score, rec.WinningTeam, rec.Status, rec.CompletedAt,
	)
	return err
}

// ListMatchAudit returns the audit trail for one session, most recent first.
func (r *RosterRepository) ListMatchAudit(ctx context.Context, sessionID string) ([]MatchAuditRecord, error) {
	query := `
		SELECT match_id, session_id, court, team1, team2,
		       team1_score, team2_score, winning_team, status, completed_at
		FROM match_audit
		WHERE session_id = ?
		ORDER BY completed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchAuditRecord
	for rows.Next() {
		var rec MatchAuditRecord
		if err := rows.Scan(
			&rec.MatchID, &rec.SessionID, &rec.Court, &rec.Team1, &rec.Team2,
			&rec.Team1Score, &rec.Team2Score, &rec.WinningTeam, &rec.Status, &rec.CompletedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
