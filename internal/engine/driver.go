// internal/engine/driver.go
// The evaluation driver: the single entry point invoked by the
// session lifecycle after any state change, dispatching to the
// round-robin queue generator or the king-of-court matcher and
// reconciling HARD-CAP and wait-fairness bookkeeping.

package engine

import (
	"fmt"

	"courtmatch/internal/models"
)

func nextMatchID(s *models.Session) string {
	return fmt.Sprintf("m%d", len(s.Matches)+1)
}

func newWaitingMatch(s *models.Session, court int, team1, team2 []string) *models.Match {
	m := &models.Match{
		ID:     nextMatchID(s),
		Court:  court,
		Team1:  team1,
		Team2:  team2,
		Status: models.MatchWaiting,
	}
	s.Matches = append(s.Matches, m)
	return m
}

func removeAll(pool []string, used []string) []string {
	usedSet := make(map[string]bool, len(used))
	for _, id := range used {
		usedSet[id] = true
	}
	out := pool[:0:0]
	for _, id := range pool {
		if !usedSet[id] {
			out = append(out, id)
		}
	}
	return out
}

func emptyCourtsAscending(s *models.Session) []int {
	busy := s.BusyCourts()
	var out []int
	for c := 1; c <= s.CourtCount; c++ {
		if !busy[c] {
			out = append(out, c)
		}
	}
	return out
}

// Evaluate runs one evaluation round. It mutates s in place and returns it;
// calling it again on a session that already satisfies every invariant
// is a no-op, as required.
func Evaluate(s *models.Session) *models.Session {
	ppm := s.SessionType.PlayersPerMatch()

	empty := emptyCourtsAscending(s)
	avail := s.AvailablePlayers()
	if len(empty) == 0 || len(avail) < ppm {
		// No round runs, but the waiting list must still reflect who is
		// actually off-court (a removal can forfeit a match and free its
		// opponents without any new match being creatable).
		syncWaitingList(s, avail)
		return s
	}

	previouslyWaiting := make(map[string]bool, len(s.WaitingPlayers))
	for _, id := range s.WaitingPlayers {
		previouslyWaiting[id] = true
	}

	var createdOnCourts []int

	switch s.Mode {
	case models.ModeRoundRobin:
		n := len(empty)
		if cap := len(avail) / ppm; cap < n {
			n = cap
		}
		if n > 0 {
			queue := GenerateRoundRobinQueue(s, avail, n)
			for i, qm := range queue {
				if i >= len(empty) {
					break
				}
				court := empty[i]
				newWaitingMatch(s, court, qm.Team1, qm.Team2)
				avail = removeAll(avail, qm.Players())
				createdOnCourts = append(createdOnCourts, court)
			}
		}

	case models.ModeKingOfCourt:
		ratings := ComputeRatings(s, s.ActivePlayerList())
		ranked := RankPool(s, ratings)
		running := models.NewCourtMix()
		var hardCapSkipped []int

		for _, court := range empty {
			if len(avail) < ppm {
				break
			}

			remainingAfter := len(avail) - ppm
			tentative := running.Union(models.NewCourtMix(court))
			if remainingAfter > 0 {
				tentative = tentative.Union(models.NewCourtMix(models.WaitlistCourt))
			}

			if s.Config.HardCapEnabled && ViolatesHardCap(s.Variety, tentative) {
				hardCapSkipped = append(hardCapSkipped, court)
				continue
			}
			// An over-threshold court refuses to repeat its previous
			// pairing even when HARD-CAP allows it; the fallback below
			// can still reclaim it if nothing else fits this round.
			if SoftVarietyRejects(s.Variety, court, tentative) {
				hardCapSkipped = append(hardCapSkipped, court)
				continue
			}

			selected, ok := SelectMatch(s, court, avail, ratings, ranked)
			if !ok {
				continue
			}

			newWaitingMatch(s, court, selected.Split.Team1, selected.Split.Team2)
			avail = removeAll(avail, selected.Players)
			running = running.Union(models.NewCourtMix(court))
			createdOnCourts = append(createdOnCourts, court)
		}

		// Court-utilization fallback: the HARD-CAP skipped every
		// placement this round. Strategic waiting is only allowed when
		// fairness and session maturity permit it; otherwise fill the
		// skipped courts regardless. A single-court session always
		// lands here once its court has mixed with the waitlist, which
		// is why one court can never deadlock on the cap.
		if len(createdOnCourts) == 0 && len(hardCapSkipped) > 0 && len(avail) >= ppm {
			decision := Decide(DecisionInputs{
				AnyPlaceableCourt:   false,
				AvailablePlayers:    len(avail),
				PlayersPerMatch:     ppm,
				AnyPlayerAtMaxWaits: AnyPlayerAtMaxWaits(s, avail),
				CompletedMatchCount: s.CompletedMatchCount,
				MinCompletedForWait: s.Config.MinCompletedMatchesForWaiting,
				HardCapForbidsAll:   true,
			})
			// Waiting means waiting for a busy court to finish; with
			// nothing in flight there is no future event to wait for,
			// so create regardless.
			if decision == DecisionCreate || len(s.BusyCourts()) == 0 {
				for _, court := range hardCapSkipped {
					if len(avail) < ppm {
						break
					}
					selected, ok := SelectMatch(s, court, avail, ratings, ranked)
					if !ok {
						continue
					}
					newWaitingMatch(s, court, selected.Split.Team1, selected.Split.Team2)
					avail = removeAll(avail, selected.Players)
					createdOnCourts = append(createdOnCourts, court)
				}
			}
		}
	}

	if len(createdOnCourts) > 0 {
		final := models.NewCourtMix(createdOnCourts...)
		if len(avail) > 0 {
			final = final.Union(models.NewCourtMix(models.WaitlistCourt))
		}
		RecordMix(s.Variety, final, s.Config.HardCapEnabled)

		// Wait bookkeeping only runs when the round actually placed
		// matches; a round that creates nothing must leave the session
		// exactly as it found it (idempotence).
		newWaiting := make(map[string]bool, len(avail))
		for _, id := range avail {
			newWaiting[id] = true
		}
		for id := range previouslyWaiting {
			if newWaiting[id] {
				IncrementWait(s, id)
			} else {
				ResetWait(s, id)
			}
		}
	}

	syncWaitingList(s, avail)
	return s
}

// syncWaitingList recomputes the wait-fair ordering of the off-court
// pool without touching any games_waited counter.
func syncWaitingList(s *models.Session, avail []string) {
	ratings := ComputeRatings(s, s.ActivePlayerList())
	ranked := RankPool(s, ratings)
	s.WaitingPlayers = WaitFairOrder(s, avail, ratings, MedianRating(ranked))
}
