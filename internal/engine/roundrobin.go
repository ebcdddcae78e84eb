// internal/engine/roundrobin.go
// Round-robin queue generation: builds an ordered queue of
// candidate matches that maximizes partner/opponent diversity while
// keeping the games-played count as even as possible across the pool.

package engine

import "courtmatch/internal/models"

// QueuedMatch is one entry of the generated round-robin queue.
type QueuedMatch struct {
	Team1 []string
	Team2 []string
}

func (q QueuedMatch) Players() []string {
	out := make([]string, 0, len(q.Team1)+len(q.Team2))
	out = append(out, q.Team1...)
	out = append(out, q.Team2...)
	return out
}

func groupKey(players []string) string {
	sorted := append([]string(nil), players...)
	sortStableBy(sorted, func(a, b string) bool { return a < b })
	return joinIDs(sorted)
}

// matchupCandidates enumerates every legal (no banned intra-team pair)
// matchup for the session's player type: unordered pairs for singles,
// or 4-subsets × the three doublings pairings for doubles.
func matchupCandidates(s *models.Session, players []string) []QueuedMatch {
	var out []QueuedMatch

	if s.SessionType == models.TypeSingles {
		EachCombination(players, 2, func(g []string) bool {
			if !s.IsBanned(g[0], g[1]) {
				out = append(out, QueuedMatch{Team1: []string{g[0]}, Team2: []string{g[1]}})
			}
			return true
		})
		return out
	}

	EachCombination(players, 4, func(g []string) bool {
		var group [4]string
		copy(group[:], g)
		for _, pairing := range DoublesPairings(group) {
			t1, t2 := pairing[0], pairing[1]
			if s.IsBanned(t1[0], t1[1]) || s.IsBanned(t2[0], t2[1]) {
				continue
			}
			out = append(out, QueuedMatch{Team1: []string{t1[0], t1[1]}, Team2: []string{t2[0], t2[1]}})
		}
		return true
	})
	return out
}

// lockedTeamCandidates enumerates every unordered pairing of locked
// teams whose members are all present in players.
func lockedTeamCandidates(s *models.Session, players []string) []QueuedMatch {
	inPool := make(map[string]bool, len(players))
	for _, p := range players {
		inPool[p] = true
	}
	var eligible []models.LockedTeam
	for _, lt := range s.LockedTeams {
		if inPool[lt.Player1] && inPool[lt.Player2] {
			eligible = append(eligible, lt)
		}
	}

	var out []QueuedMatch
	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			t1, t2 := eligible[i], eligible[j]
			out = append(out, QueuedMatch{
				Team1: []string{t1.Player1, t1.Player2},
				Team2: []string{t2.Player1, t2.Player2},
			})
		}
	}
	return out
}

func crossPairs(team1, team2 []string) [][2]string {
	var out [][2]string
	for _, a := range team1 {
		for _, b := range team2 {
			out = append(out, [2]string{a, b})
		}
	}
	return out
}

func teamPairs(team []string) [][2]string {
	var out [][2]string
	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			out = append(out, [2]string{team[i], team[j]})
		}
	}
	return out
}

func scoreQueuedMatch(s *models.Session, m QueuedMatch, playedSoFar map[string]int, groupCount map[string]int) float64 {
	players := m.Players()

	playedScore := 0
	for _, p := range players {
		playedScore += playedSoFar[p]
	}

	repeatScore := groupCount[groupKey(players)]

	partnershipScore := 0
	for _, team := range [][]string{m.Team1, m.Team2} {
		for _, pair := range teamPairs(team) {
			partnershipScore += statsFor(s, pair[0]).PartnersPlayed[pair[1]]
		}
	}

	opponentScore := 0
	for _, pair := range crossPairs(m.Team1, m.Team2) {
		opponentScore += statsFor(s, pair[0]).OpponentsPlayed[pair[1]]
	}

	return 1000*float64(playedScore) + 500*float64(repeatScore) + 100*float64(partnershipScore) + 50*float64(opponentScore)
}

// GenerateRoundRobinQueue builds the queue: it is rebuilt
// from scratch every time, scored fresh against current StatsStore
// history plus an in-progress simulation of play counts accumulated by
// the queue itself, so later entries favor players the earlier entries
// left under-played.
func GenerateRoundRobinQueue(s *models.Session, players []string, queueLength int) []QueuedMatch {
	var candidates []QueuedMatch
	if len(s.LockedTeams) > 0 {
		candidates = lockedTeamCandidates(s, players)
	} else {
		candidates = matchupCandidates(s, players)
	}
	if len(candidates) == 0 {
		return nil
	}

	queue := make([]QueuedMatch, 0, queueLength)
	playedSoFar := make(map[string]int)
	groupCount := make(map[string]int)

	for len(queue) < queueLength {
		type scored struct {
			m     QueuedMatch
			score float64
		}
		ranked := make([]scored, len(candidates))
		for i, c := range candidates {
			ranked[i] = scored{m: c, score: scoreQueuedMatch(s, c, playedSoFar, groupCount)}
		}
		sortStableByIndex(ranked, func(i, j int) bool {
			if ranked[i].score != ranked[j].score {
				return ranked[i].score < ranked[j].score
			}
			return groupKey(ranked[i].m.Players()) < groupKey(ranked[j].m.Players())
		})

		usedThisRound := make(map[string]bool)
		addedInRound := false

		for _, r := range ranked {
			if len(queue) >= queueLength {
				break
			}
			players := r.m.Players()
			conflict := false
			for _, p := range players {
				if usedThisRound[p] {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}

			queue = append(queue, r.m)
			for _, p := range players {
				usedThisRound[p] = true
				playedSoFar[p]++
			}
			groupCount[groupKey(players)]++
			addedInRound = true
		}

		if !addedInRound {
			break
		}
	}

	return queue
}

// sortStableByIndex is a tiny insertion sort over index-addressed data,
// used where the comparator needs the slice's own indices rather than
// two value arguments.
func sortStableByIndex[T any](xs []T, less func(i, j int) bool) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
