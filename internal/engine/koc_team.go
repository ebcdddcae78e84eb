// internal/engine/koc_team.go
// Team assignment within a chosen group of players.

package engine

import "courtmatch/internal/models"

// TeamSplit is one candidate team assignment for a chosen group.
type TeamSplit struct {
	Team1                  []string
	Team2                  []string
	Score                  float64
	Imbalance              float64
	HistoricalPartnerships int
}

// opponentRepeatScore sums the prior head-to-head counts across the
// two teams, weighted by opponent_repeat_penalty.
func opponentRepeatScore(s *models.Session, team1, team2 []string) float64 {
	total := 0
	for _, pair := range crossPairs(team1, team2) {
		total += statsFor(s, pair[0]).OpponentsPlayed[pair[1]]
	}
	return float64(total) * float64(s.Config.OpponentRepeatPenalty)
}

func avgRating(ratings map[string]PlayerRating, ids []string) float64 {
	if len(ids) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range ids {
		sum += ratings[id].Rating
	}
	return sum / float64(len(ids))
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// recentlyPartnered reports whether x and y shared a team within the
// last window matches recorded in the session (most recent first),
// regardless of match status — "recent" counts attempted pairings, not
// just completed ones.
func recentlyPartnered(s *models.Session, x, y string, window int) bool {
	count := 0
	for i := len(s.Matches) - 1; i >= 0 && count < window; i-- {
		m := s.Matches[i]
		count++
		if sameTeam(m.Team1, x, y) || sameTeam(m.Team2, x, y) {
			return true
		}
	}
	return false
}

func sameTeam(team []string, x, y string) bool {
	hasX, hasY := false, false
	for _, p := range team {
		if p == x {
			hasX = true
		}
		if p == y {
			hasY = true
		}
	}
	return hasX && hasY
}

// lockedTeamSplitOK reports whether the given pairing keeps every
// locked team (if any of its members is in the group) intact.
func lockedTeamSplitOK(s *models.Session, team1, team2 []string) bool {
	for _, lt := range s.LockedTeams {
		in1 := contains(team1, lt.Player1) || contains(team1, lt.Player2)
		in2 := contains(team2, lt.Player1) || contains(team2, lt.Player2)
		if in1 && in2 {
			// members of this locked team were split across both teams
			return false
		}
	}
	return true
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// scoreDoublesSplit scores one candidate pairing. ok is false if the pairing is hard-rejected
// (banned pair sharing a team, or a locked team split across teams).
func scoreDoublesSplit(s *models.Session, ratings map[string]PlayerRating, team1, team2 []string) (TeamSplit, bool) {
	if s.IsBanned(team1[0], team1[1]) || s.IsBanned(team2[0], team2[1]) {
		return TeamSplit{}, false
	}
	if !lockedTeamSplitOK(s, team1, team2) {
		return TeamSplit{}, false
	}

	cfg := s.Config
	imbalance := absF(avgRating(ratings, team1) - avgRating(ratings, team2))
	score := imbalance * float64(cfg.TeamBalancePenalty)

	historical := 0
	for _, team := range [][]string{team1, team2} {
		x, y := team[0], team[1]
		hist := statsFor(s, x).PartnersPlayed[y]
		historical += hist
		score += float64(hist) * float64(cfg.PartnershipRepeatPenalty)

		if recentlyPartnered(s, x, y, cfg.RecentPartnershipWindow) {
			score += float64(cfg.RecentPartnershipPenalty)
		}
		if hist == 0 {
			score -= float64(cfg.PartnershipVarietyWeight)
		}
	}

	score += opponentRepeatScore(s, team1, team2)

	return TeamSplit{
		Team1:                  team1,
		Team2:                  team2,
		Score:                  score,
		Imbalance:              imbalance,
		HistoricalPartnerships: historical,
	}, true
}

// BestDoublesSplit evaluates the three pairings of a 4-player group and
// returns the minimum-scoring valid one. Ties break by lower imbalance,
// then fewer total historical partnerships, then lexicographic team
// ids.
func BestDoublesSplit(s *models.Session, ratings map[string]PlayerRating, group [4]string) (TeamSplit, bool) {
	var best TeamSplit
	found := false

	for _, pairing := range DoublesPairings(group) {
		team1 := []string{pairing[0][0], pairing[0][1]}
		team2 := []string{pairing[1][0], pairing[1][1]}
		split, ok := scoreDoublesSplit(s, ratings, team1, team2)
		if !ok {
			continue
		}
		if !found || betterSplit(split, best) {
			best = split
			found = true
		}
	}
	return best, found
}

func betterSplit(a, b TeamSplit) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	if a.Imbalance != b.Imbalance {
		return a.Imbalance < b.Imbalance
	}
	if a.HistoricalPartnerships != b.HistoricalPartnerships {
		return a.HistoricalPartnerships < b.HistoricalPartnerships
	}
	return teamIDKey(a.Team1, a.Team2) < teamIDKey(b.Team1, b.Team2)
}

func teamIDKey(team1, team2 []string) string {
	return joinIDs(team1) + "|" + joinIDs(team2)
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}

// SinglesSplit returns the trivial 1v1 split: no pairing choice exists,
// since each team is exactly one player, but rating imbalance and the
// pair's head-to-head history still contribute to the group's score.
func SinglesSplit(s *models.Session, ratings map[string]PlayerRating, a, b string) TeamSplit {
	team1, team2 := []string{a}, []string{b}
	imbalance := absF(avgRating(ratings, team1) - avgRating(ratings, team2))
	return TeamSplit{
		Team1:     team1,
		Team2:     team2,
		Score:     imbalance*float64(s.Config.TeamBalancePenalty) + opponentRepeatScore(s, team1, team2),
		Imbalance: imbalance,
	}
}

// LockedTeamSplit returns the fixed split for two locked teams facing
// each other: no pairing choice, members stay with their locked team.
// Partnership penalties inside a locked team are disabled; opponent
// rotation still counts against repeat pairings of the two teams.
func LockedTeamSplit(s *models.Session, ratings map[string]PlayerRating, t1, t2 models.LockedTeam) TeamSplit {
	team1 := []string{t1.Player1, t1.Player2}
	team2 := []string{t2.Player1, t2.Player2}
	imbalance := absF(avgRating(ratings, team1) - avgRating(ratings, team2))
	return TeamSplit{
		Team1:     team1,
		Team2:     team2,
		Score:     imbalance*float64(s.Config.TeamBalancePenalty) + opponentRepeatScore(s, team1, team2),
		Imbalance: imbalance,
	}
}
