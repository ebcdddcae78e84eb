// internal/engine/koc_select.go
// Player selection for a single target court, including the
// locked-teams variant, built on top of the team-split
// scoring in koc_team.go.

package engine

import "courtmatch/internal/models"

// MatchUnit is one selectable entity for a court: either a single
// player (singles, or doubles without locked teams) or a locked team
// (doubles with locked teams in play), which the matcher always keeps
// intact.
type MatchUnit struct {
	ID      string
	Players []string
}

// buildUnits returns the candidate units drawn from pool and how many
// of them a single match needs. When the session has any locked teams,
// only players whose locked team is entirely present in pool are
// selectable — a locked team with one member still on a court or
// waiting elsewhere cannot be split apart to fill a match.
func buildUnits(s *models.Session, pool []string) ([]MatchUnit, int) {
	if len(s.LockedTeams) > 0 {
		inPool := make(map[string]bool, len(pool))
		for _, id := range pool {
			inPool[id] = true
		}
		units := make([]MatchUnit, 0, len(s.LockedTeams))
		for _, lt := range s.LockedTeams {
			if inPool[lt.Player1] && inPool[lt.Player2] {
				units = append(units, MatchUnit{ID: lt.ID, Players: []string{lt.Player1, lt.Player2}})
			}
		}
		return units, 2
	}

	units := make([]MatchUnit, 0, len(pool))
	for _, id := range pool {
		units = append(units, MatchUnit{ID: id, Players: []string{id}})
	}
	return units, s.SessionType.PlayersPerMatch()
}

func unitByID(units []MatchUnit, id string) MatchUnit {
	for _, u := range units {
		if u.ID == id {
			return u
		}
	}
	return MatchUnit{}
}

func flattenPlayers(units []MatchUnit, unitIDs []string) []string {
	out := make([]string, 0, len(unitIDs)*2)
	for _, id := range unitIDs {
		out = append(out, unitByID(units, id).Players...)
	}
	return out
}

// previousMatchOnCourt returns the players of the most recently placed
// match on court, if any, used for the back-to-back overlap check.
func previousMatchOnCourt(s *models.Session, court int) []string {
	for i := len(s.Matches) - 1; i >= 0; i-- {
		if s.Matches[i].Court == court {
			return s.Matches[i].Players()
		}
	}
	return nil
}

func overlapCount(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	count := 0
	for _, id := range a {
		if set[id] {
			count++
		}
	}
	return count
}

func sumGamesWaited(s *models.Session, ids []string) int {
	total := 0
	for _, id := range ids {
		total += statsFor(s, id).GamesWaited
	}
	return total
}

func maxGamesWaited(s *models.Session, ids []string) int {
	most := 0
	for _, id := range ids {
		if w := statsFor(s, id).GamesWaited; w > most {
			most = w
		}
	}
	return most
}

// SelectedMatch is the outcome of SelectMatch: a team split for the
// target court plus the unit ids that were consumed from the pool.
type SelectedMatch struct {
	Split   TeamSplit
	UnitIDs []string
	Players []string
}

// SelectMatch picks the players for one court: it
// enumerates every bracket-compatible, non-banned candidate group of
// the right size drawn from pool and picks the best one. Total
// games_waited is strictly primary — no combination of history or
// balance penalties can bump a longer-waiting group — with the
// partnership/opponent/balance score of the group's best team split
// (plus the back-to-back overlap hard penalty) deciding among groups
// whose waiters are even. Remaining ties break by the group with the
// single highest waiter, then by lexicographically smallest id set.
func SelectMatch(s *models.Session, court int, pool []string, ratings map[string]PlayerRating, ranked []RankedPlayer) (SelectedMatch, bool) {
	units, k := buildUnits(s, pool)
	if len(units) < k {
		return SelectedMatch{}, false
	}

	rankedIdx := RankedIndex(ranked)
	prevPlayers := previousMatchOnCourt(s, court)
	unitIDs := make([]string, len(units))
	for i, u := range units {
		unitIDs[i] = u.ID
	}

	var best SelectedMatch
	bestScore := 0.0
	bestWaited := 0
	bestMaxWaited := 0
	found := false

	EachCombination(unitIDs, k, func(group []string) bool {
		players := flattenPlayers(units, group)
		if !BracketCompatible(rankedIdx, players) {
			return true
		}

		split, ok := splitFor(s, ratings, units, group, len(s.LockedTeams) > 0)
		if !ok {
			return true
		}

		score := split.Score
		if len(prevPlayers) > 0 && overlapCount(players, prevPlayers) >= s.Config.BackToBackOverlapThreshold {
			score += float64(s.Config.RecentOverlapPenalty)
		}

		waited := sumGamesWaited(s, players)
		maxWaited := maxGamesWaited(s, players)
		candidate := SelectedMatch{Split: split, UnitIDs: append([]string(nil), group...), Players: players}

		if !found || betterCandidate(waited, score, maxWaited, group, bestWaited, bestScore, bestMaxWaited, best.UnitIDs) {
			best = candidate
			bestScore = score
			bestWaited = waited
			bestMaxWaited = maxWaited
			found = true
		}
		return true
	})

	return best, found
}

func splitFor(s *models.Session, ratings map[string]PlayerRating, units []MatchUnit, group []string, locked bool) (TeamSplit, bool) {
	switch {
	case locked:
		t1, t2 := unitByID(units, group[0]), unitByID(units, group[1])
		lt1 := models.LockedTeam{ID: t1.ID, Player1: t1.Players[0], Player2: t1.Players[1]}
		lt2 := models.LockedTeam{ID: t2.ID, Player1: t2.Players[0], Player2: t2.Players[1]}
		return LockedTeamSplit(s, ratings, lt1, lt2), true
	case len(group) == 4:
		var g [4]string
		copy(g[:], flattenPlayers(units, group))
		return BestDoublesSplit(s, ratings, g)
	default:
		players := flattenPlayers(units, group)
		return SinglesSplit(s, ratings, players[0], players[1]), true
	}
}

func betterCandidate(waited int, score float64, maxWaited int, group []string, bestWaited int, bestScore float64, bestMaxWaited int, bestGroup []string) bool {
	if waited != bestWaited {
		return waited > bestWaited
	}
	if score != bestScore {
		return score < bestScore
	}
	if maxWaited != bestMaxWaited {
		return maxWaited > bestMaxWaited
	}
	return joinIDs(group) < joinIDs(bestGroup)
}
