// internal/engine/lifecycle.go
// Session lifecycle operations: the only entry points that
// may mutate a Session. NewSession, AddPlayer, RemovePlayer,
// ForfeitMatch and a first CompleteMatch end by invoking Evaluate;
// StartMatch, a score edit, MakeCourt, EditSession and
// UpdateAdvancedConfig do not.

package engine

import (
	"time"

	"courtmatch/internal/models"
)

// SessionSetup carries everything create_session needs. BannedPairs
// and LockedTeams are part of the setup, not a later mutation: the
// initial evaluation already has to respect them.
type SessionSetup struct {
	ID          string
	Config      models.Config
	Mode        models.Mode
	SessionType models.SessionType
	CourtCount  int
	Players     []models.Player
	BannedPairs []models.BannedPair
	LockedTeams []models.LockedTeam
	Seed        int64
}

// NewSession constructs a fresh Session and runs the initial
// evaluation. now is injected so callers (and tests) control the
// timestamp; src drives the optional initial shuffle.
func NewSession(setup SessionSetup, src Source, now time.Time) *models.Session {
	s := &models.Session{
		ID:              setup.ID,
		Config:          setup.Config,
		Mode:            setup.Mode,
		SessionType:     setup.SessionType,
		CourtCount:      setup.CourtCount,
		BannedPairs:     setup.BannedPairs,
		LockedTeams:     setup.LockedTeams,
		Players:         make(map[string]models.Player, len(setup.Players)),
		ActivePlayerIDs: make(map[string]bool, len(setup.Players)),
		Stats:           make(map[string]*models.PlayerStats, len(setup.Players)),
		Variety:         models.NewCourtVarietyState(setup.CourtCount),
		RandSeed:        setup.Seed,
		CreatedAt:       now,
		UpdatedAt:       now,
		SchemaVersion:   models.CurrentSchemaVersion,
	}

	ids := make([]string, 0, len(setup.Players))
	for _, p := range setup.Players {
		s.Players[p.ID] = p
		s.ActivePlayerIDs[p.ID] = true
		StatsCreate(s, p.ID)
		ids = append(ids, p.ID)
	}

	if setup.Config.RandomizeInitialOrder {
		ids = Shuffle(ids, src)
	}
	s.WaitingPlayers = ids

	Evaluate(s)
	s.UpdatedAt = now
	return s
}

// AddPlayer inserts a player mid-session: the new player's
// games_waited is seeded to one more than the current maximum among
// waiters, which puts them ahead of every existing waiter in the
// wait-fair order.
func AddPlayer(s *models.Session, p models.Player, now time.Time) {
	s.Players[p.ID] = p
	s.ActivePlayerIDs[p.ID] = true
	StatsCreate(s, p.ID)

	maxWaited := 0
	for _, id := range s.WaitingPlayers {
		if w := statsFor(s, id).GamesWaited; w > maxWaited {
			maxWaited = w
		}
	}
	statsFor(s, p.ID).GamesWaited = maxWaited + 1
	s.WaitingPlayers = append(s.WaitingPlayers, p.ID)

	Evaluate(s)
	s.UpdatedAt = now
}

// RemovePlayer implements remove_player: if p is mid-match, that match
// is forfeited in favor of the opponent team before p is removed.
func RemovePlayer(s *models.Session, playerID string, now time.Time) error {
	if !s.IsActive(playerID) {
		return newError(KindUnknownPlayer, "player %s is not active", playerID)
	}

	for _, m := range s.Matches {
		if m.Active() && m.HasPlayer(playerID) {
			winningTeam := 2
			if contains(m.Team2, playerID) {
				winningTeam = 1
			}
			if err := forfeitMatchLocked(s, m, winningTeam, now); err != nil {
				return err
			}
			break
		}
	}

	delete(s.ActivePlayerIDs, playerID)
	s.WaitingPlayers = removeAll(s.WaitingPlayers, []string{playerID})

	Evaluate(s)
	s.UpdatedAt = now
	return nil
}

// StartMatch implements start_match: waiting -> in_progress.
func StartMatch(s *models.Session, matchID string, now time.Time) error {
	m := s.MatchByID(matchID)
	if m == nil {
		return newError(KindUnknownMatch, "no match %s", matchID)
	}
	if m.Status != models.MatchWaiting {
		return newError(KindIllegalTransition, "match %s is %s, not waiting", matchID, m.Status)
	}
	m.Status = models.MatchInProgress
	m.StartedAt = &now
	s.UpdatedAt = now
	return nil
}

// CompleteMatch implements complete_match, including the edit path: if
// m is already completed, its prior effect is rewound before the new
// score is applied, and the driver is not re-invoked (the court's
// occupancy is unaffected either way).
func CompleteMatch(s *models.Session, matchID string, team1Score, team2Score int, now time.Time) error {
	if team1Score == team2Score || team1Score < 0 || team2Score < 0 {
		return newError(KindInvalidScore, "scores must be non-negative and distinct, got %d-%d", team1Score, team2Score)
	}
	m := s.MatchByID(matchID)
	if m == nil {
		return newError(KindUnknownMatch, "no match %s", matchID)
	}
	if m.Status != models.MatchWaiting && m.Status != models.MatchInProgress && m.Status != models.MatchCompleted {
		return newError(KindIllegalTransition, "match %s is %s, cannot complete", matchID, m.Status)
	}

	isEdit := m.Status == models.MatchCompleted
	newScore := &models.MatchScore{Team1Score: team1Score, Team2Score: team2Score}
	winningTeam := newScore.Winner()

	if isEdit {
		RewindMatchResult(s, m, m.WinningTeam, m.Score, false)
	}

	m.Score = newScore
	m.WinningTeam = winningTeam
	m.Status = models.MatchCompleted
	m.CompletedAt = &now

	RecordMatchResult(s, m, winningTeam, false)

	if !isEdit {
		RecordFinish(s.Variety, m.Court)
		UpdateThresholds(s.Variety)
		s.CompletedMatchCount++
		Evaluate(s)
	}
	s.UpdatedAt = now
	return nil
}

// ForfeitMatch implements forfeit_match: winningTeam wins without a
// score; losses/wins update but point totals do not.
func ForfeitMatch(s *models.Session, matchID string, winningTeam int, now time.Time) error {
	m := s.MatchByID(matchID)
	if m == nil {
		return newError(KindUnknownMatch, "no match %s", matchID)
	}
	if err := forfeitMatchLocked(s, m, winningTeam, now); err != nil {
		return err
	}
	Evaluate(s)
	s.UpdatedAt = now
	return nil
}

func forfeitMatchLocked(s *models.Session, m *models.Match, winningTeam int, now time.Time) error {
	if winningTeam != 1 && winningTeam != 2 {
		return newError(KindInvalidScore, "winning team must be 1 or 2, got %d", winningTeam)
	}
	if !m.Active() {
		return newError(KindIllegalTransition, "match %s is %s, cannot forfeit", m.ID, m.Status)
	}
	m.Status = models.MatchForfeited
	m.WinningTeam = winningTeam
	m.CompletedAt = &now

	RecordMatchResult(s, m, winningTeam, true)
	RecordFinish(s.Variety, m.Court)
	UpdateThresholds(s.Variety)
	s.CompletedMatchCount++
	return nil
}

// MakeCourt implements make_court: a manual override that bypasses
// HARD-CAP entirely (manual authority) but still updates
// CourtVarietyTracker once the match eventually completes.
func MakeCourt(s *models.Session, court int, team1, team2 []string, now time.Time) error {
	seen := make(map[string]bool)
	inPlay := s.PlayersInPlay()
	for _, p := range append(append([]string{}, team1...), team2...) {
		if !s.IsActive(p) {
			return newError(KindUnknownPlayer, "player %s is not active", p)
		}
		if seen[p] {
			return newError(KindIllegalTransition, "player %s appears more than once", p)
		}
		if inPlay[p] {
			return newError(KindIllegalTransition, "player %s is already in a match", p)
		}
		seen[p] = true
	}
	if len(team1) == 2 && s.IsBanned(team1[0], team1[1]) {
		return newError(KindBannedPairViolation, "team1 contains a banned pair")
	}
	if len(team2) == 2 && s.IsBanned(team2[0], team2[1]) {
		return newError(KindBannedPairViolation, "team2 contains a banned pair")
	}
	if s.BusyCourts()[court] {
		return newError(KindCourtOccupied, "court %d already has an active match", court)
	}

	m := &models.Match{
		ID:             nextMatchID(s),
		Court:          court,
		Team1:          team1,
		Team2:          team2,
		Status:         models.MatchInProgress,
		StartedAt:      &now,
		ManualOverride: true,
	}
	s.Matches = append(s.Matches, m)

	players := append(append([]string{}, team1...), team2...)
	s.WaitingPlayers = removeAll(s.WaitingPlayers, players)
	s.UpdatedAt = now
	return nil
}

// EditSession implements edit_session: the active-player list and
// banned pairs survive, everything else resets to a fresh setup state.
func EditSession(s *models.Session, now time.Time) {
	players := make(map[string]models.Player, len(s.Players))
	for id, active := range s.ActivePlayerIDs {
		if active {
			if p, ok := s.Players[id]; ok {
				players[id] = p
			}
		}
	}

	s.Players = players
	s.ActivePlayerIDs = make(map[string]bool, len(players))
	s.Stats = make(map[string]*models.PlayerStats, len(players))
	ids := make([]string, 0, len(players))
	for id := range players {
		s.ActivePlayerIDs[id] = true
		StatsCreate(s, id)
		ids = append(ids, id)
	}
	s.WaitingPlayers = ids
	s.Matches = nil
	s.Variety = models.NewCourtVarietyState(s.CourtCount)
	s.CompletedMatchCount = 0
	s.UpdatedAt = now
}

// UpdateAdvancedConfig implements update_advanced_config: a deep merge
// that affects only subsequent evaluation rounds. The merged result is
// validated before it replaces the live config, so a bad patch leaves
// the session untouched.
func UpdateAdvancedConfig(s *models.Session, patch models.ConfigPatch, now time.Time) error {
	merged := s.Config.Merge(patch)
	if err := ValidateConfig(merged); err != nil {
		return err
	}
	s.Config = merged
	s.UpdatedAt = now
	return nil
}

// ValidateConfig rejects non-sensical tuning values.
func ValidateConfig(cfg models.Config) error {
	if cfg.MinRating > cfg.MaxRating {
		return newError(KindConfigOutOfRange, "min_rating %v exceeds max_rating %v", cfg.MinRating, cfg.MaxRating)
	}
	if cfg.BaseRating < cfg.MinRating || cfg.BaseRating > cfg.MaxRating {
		return newError(KindConfigOutOfRange, "base_rating %v outside [%v, %v]", cfg.BaseRating, cfg.MinRating, cfg.MaxRating)
	}
	if cfg.RankingRangePercentage <= 0 || cfg.RankingRangePercentage > 1 {
		return newError(KindConfigOutOfRange, "ranking_range_percentage %v must be in (0, 1]", cfg.RankingRangePercentage)
	}
	if cfg.ProvisionalGamesThreshold < 0 || cfg.MaxConsecutiveWaits < 0 || cfg.MinCompletedMatchesForWaiting < 0 {
		return newError(KindConfigOutOfRange, "thresholds must be non-negative")
	}
	if cfg.BackToBackOverlapThreshold < 0 || cfg.RecentPartnershipWindow < 0 {
		return newError(KindConfigOutOfRange, "variety windows must be non-negative")
	}
	for name, v := range map[string]int{
		"recent_overlap_penalty":     cfg.RecentOverlapPenalty,
		"recent_partnership_penalty": cfg.RecentPartnershipPenalty,
		"partnership_repeat_penalty": cfg.PartnershipRepeatPenalty,
		"opponent_repeat_penalty":    cfg.OpponentRepeatPenalty,
		"team_balance_penalty":       cfg.TeamBalancePenalty,
		"partnership_variety_weight": cfg.PartnershipVarietyWeight,
	} {
		if v < 0 {
			return newError(KindConfigOutOfRange, "%s must be non-negative, got %d", name, v)
		}
	}
	if cfg.RoundRobinQueueLength < 1 {
		return newError(KindConfigOutOfRange, "round_robin_queue_length must be at least 1, got %d", cfg.RoundRobinQueueLength)
	}
	return nil
}
