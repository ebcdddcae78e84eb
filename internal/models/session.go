// internal/models/session.go
// Session: the top-level aggregate owning players, matches, stats, and
// court-variety state for one live open-play session.

package models

import (
	"sort"
	"time"
)

// Mode selects which matchmaking algorithm the evaluation driver uses.
type Mode string

const (
	ModeRoundRobin  Mode = "round-robin"
	ModeKingOfCourt Mode = "king-of-court"
)

// SessionType determines team size: 1 for singles, 2 for doubles.
type SessionType string

const (
	TypeSingles SessionType = "singles"
	TypeDoubles SessionType = "doubles"
)

// PlayersPerTeam returns 1 for singles, 2 for doubles.
func (t SessionType) PlayersPerTeam() int {
	if t == TypeDoubles {
		return 2
	}
	return 1
}

// PlayersPerMatch returns the total number of players a single match needs.
func (t SessionType) PlayersPerMatch() int {
	return t.PlayersPerTeam() * 2
}

// BannedPair is an unordered pair of player ids that must never share a team.
type BannedPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Matches reports whether this banned pair covers the unordered pair (x, y).
func (p BannedPair) Matches(x, y string) bool {
	return (p.A == x && p.B == y) || (p.A == y && p.B == x)
}

// LockedTeam is a predeclared 2-player partnership that persists across
// every match in which either member plays.
type LockedTeam struct {
	ID      string `json:"id"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

func (t LockedTeam) Has(playerID string) bool {
	return t.Player1 == playerID || t.Player2 == playerID
}

// Session is the full authoritative state of one open-play session.
// It is created once, mutated only through the operations in
// internal/engine/lifecycle.go, and destroyed on end_session or reset
// on edit_session (players preserved, everything else cleared).
type Session struct {
	ID          string       `json:"id"`
	Config      Config       `json:"config"`
	Mode        Mode         `json:"mode"`
	SessionType SessionType  `json:"session_type"`
	CourtCount  int          `json:"court_count"`
	BannedPairs []BannedPair `json:"banned_pairs"`
	LockedTeams []LockedTeam `json:"locked_teams"`

	Players         map[string]Player `json:"players"` // includes removed (inactive) players
	ActivePlayerIDs map[string]bool   `json:"active_player_ids"`
	WaitingPlayers  []string          `json:"waiting_players"` // ordered by wait-fair order

	Matches []*Match `json:"matches"` // append-only once completed; waiting/in-progress entries are mutable

	Stats   map[string]*PlayerStats `json:"stats"`
	Variety *CourtVarietyState      `json:"variety"`

	CompletedMatchCount int `json:"completed_match_count"`

	RandSeed int64 `json:"rand_seed"` // replay seed for the injected pseudo-random source

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SchemaVersion int `json:"schema_version"`
}

const CurrentSchemaVersion = 1

// ActivePlayerList returns the ids of every active (non-removed) player,
// sorted by id. The order matters: the driver's candidate pool and the
// matcher's lexicographic tie-breaks both build on it, and ranging
// over the map directly would reintroduce Go's randomized iteration
// order into what must be a deterministic pipeline.
func (s *Session) ActivePlayerList() []string {
	out := make([]string, 0, len(s.ActivePlayerIDs))
	for id, active := range s.ActivePlayerIDs {
		if active {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// IsActive reports whether id is an active player.
func (s *Session) IsActive(id string) bool {
	return s.ActivePlayerIDs[id]
}

// IsBanned reports whether (a, b) is a banned pair.
func (s *Session) IsBanned(a, b string) bool {
	for _, bp := range s.BannedPairs {
		if bp.Matches(a, b) {
			return true
		}
	}
	return false
}

// LockedTeamOf returns the locked team containing playerID, if any.
func (s *Session) LockedTeamOf(playerID string) (LockedTeam, bool) {
	for _, t := range s.LockedTeams {
		if t.Has(playerID) {
			return t, true
		}
	}
	return LockedTeam{}, false
}

// MatchByID returns the match with the given id, if present.
func (s *Session) MatchByID(id string) *Match {
	for _, m := range s.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// BusyCourts returns the set of court numbers currently hosting a
// waiting or in-progress match.
func (s *Session) BusyCourts() map[int]bool {
	busy := make(map[int]bool)
	for _, m := range s.Matches {
		if m.Active() {
			busy[m.Court] = true
		}
	}
	return busy
}

// PlayersInPlay returns the set of active players currently seated in
// a waiting or in-progress match.
func (s *Session) PlayersInPlay() map[string]bool {
	inPlay := make(map[string]bool)
	for _, m := range s.Matches {
		if m.Active() {
			for _, p := range m.Players() {
				inPlay[p] = true
			}
		}
	}
	return inPlay
}

// AvailablePlayers returns active players not currently seated in a
// waiting or in-progress match, i.e. the candidate pool for the driver.
func (s *Session) AvailablePlayers() []string {
	inPlay := s.PlayersInPlay()
	out := make([]string, 0, len(s.ActivePlayerIDs))
	for _, id := range s.ActivePlayerList() {
		if !inPlay[id] {
			out = append(out, id)
		}
	}
	return out
}
