// internal/engine/stats.go
// StatsStore operations: per-player counters and history,
// keyed by player id on the session's Stats map.

package engine

import "courtmatch/internal/models"

// StatsCreate registers a new, zeroed PlayerStats entry for playerID if
// one does not already exist.
func StatsCreate(s *models.Session, playerID string) {
	if _, ok := s.Stats[playerID]; ok {
		return
	}
	s.Stats[playerID] = models.NewPlayerStats(playerID)
}

// statsFor returns the PlayerStats for id, creating it on first touch so
// callers never have to nil-check a player added before stats tracking
// existed (e.g. imported snapshots from an older schema).
func statsFor(s *models.Session, id string) *models.PlayerStats {
	st, ok := s.Stats[id]
	if !ok {
		st = models.NewPlayerStats(id)
		s.Stats[id] = st
	}
	return st
}

// RecordMatchResult applies the outcome of a completed or forfeited
// match to the StatsStore: winners' wins++, losers' losses++, every
// participant's games_played++, point totals (scored results only),
// and partner/opponent multisets (forfeits included).
func RecordMatchResult(s *models.Session, m *models.Match, winningTeam int, forfeit bool) {
	team1, team2 := m.Team1, m.Team2
	applyTeamResult(s, team1, team2, winningTeam == 1, m.Score, forfeit)
	applyTeamResult(s, team2, team1, winningTeam == 2, swapScore(m.Score), forfeit)
}

func swapScore(sc *models.MatchScore) *models.MatchScore {
	if sc == nil {
		return nil
	}
	return &models.MatchScore{Team1Score: sc.Team2Score, Team2Score: sc.Team1Score}
}

func applyTeamResult(s *models.Session, team, opponents []string, won bool, scoreForThisTeam *models.MatchScore, forfeit bool) {
	for _, p := range team {
		st := statsFor(s, p)
		st.GamesPlayed++
		if won {
			st.Wins++
			if forfeit {
				st.ForfeitWins++
			}
		} else {
			st.Losses++
		}
		if scoreForThisTeam != nil {
			st.TotalPointsFor += scoreForThisTeam.Team1Score
			st.TotalPointsAgainst += scoreForThisTeam.Team2Score
		}
		for _, partner := range team {
			if partner != p {
				st.PartnersPlayed.Add(partner, 1)
			}
		}
		for _, opp := range opponents {
			st.OpponentsPlayed.Add(opp, 1)
		}
	}
}

// RewindMatchResult undoes a previously-applied result, the inverse of
// RecordMatchResult, used by complete_match when editing an already
// completed match's score.
func RewindMatchResult(s *models.Session, m *models.Match, previousWinningTeam int, previousScore *models.MatchScore, forfeit bool) {
	team1, team2 := m.Team1, m.Team2
	unapplyTeamResult(s, team1, team2, previousWinningTeam == 1, previousScore, forfeit)
	unapplyTeamResult(s, team2, team1, previousWinningTeam == 2, swapScore(previousScore), forfeit)
}

func unapplyTeamResult(s *models.Session, team, opponents []string, won bool, scoreForThisTeam *models.MatchScore, forfeit bool) {
	for _, p := range team {
		st := statsFor(s, p)
		st.GamesPlayed--
		if won {
			st.Wins--
			if forfeit {
				st.ForfeitWins--
			}
		} else {
			st.Losses--
		}
		if scoreForThisTeam != nil {
			st.TotalPointsFor -= scoreForThisTeam.Team1Score
			st.TotalPointsAgainst -= scoreForThisTeam.Team2Score
		}
		for _, partner := range team {
			if partner != p {
				st.PartnersPlayed.Add(partner, -1)
			}
		}
		for _, opp := range opponents {
			st.OpponentsPlayed.Add(opp, -1)
		}
	}
}

// IncrementWait increments games_waited for playerID by one.
func IncrementWait(s *models.Session, playerID string) {
	statsFor(s, playerID).GamesWaited++
}

// ResetWait resets games_waited to zero for playerID.
func ResetWait(s *models.Session, playerID string) {
	statsFor(s, playerID).GamesWaited = 0
}

// RankEntry is one row of a StatsStore.ranking() result.
type RankEntry struct {
	PlayerID string
	Rank     int
}

// Ranking sorts activePlayerIDs by wins desc, then average point
// differential desc; ties share the first tied rank position.
func Ranking(s *models.Session, activePlayerIDs []string) []RankEntry {
	ids := make([]string, len(activePlayerIDs))
	copy(ids, activePlayerIDs)
	sortStableBy(ids, func(a, b string) bool {
		sa, sb := statsFor(s, a), statsFor(s, b)
		if sa.Wins != sb.Wins {
			return sa.Wins > sb.Wins
		}
		da, db := sa.AveragePointDifferential(), sb.AveragePointDifferential()
		if da != db {
			return da > db
		}
		return a < b
	})

	out := make([]RankEntry, len(ids))
	rank := 1
	for i, id := range ids {
		if i > 0 {
			sa, sb := statsFor(s, ids[i-1]), statsFor(s, id)
			tied := sa.Wins == sb.Wins && sa.AveragePointDifferential() == sb.AveragePointDifferential()
			if !tied {
				rank = i + 1
			}
		}
		out[i] = RankEntry{PlayerID: id, Rank: rank}
	}
	return out
}
