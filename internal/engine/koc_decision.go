// internal/engine/koc_decision.go
// King-of-the-court strategic-waiting decision procedure.

package engine

import "courtmatch/internal/models"

// Decision is the outcome of the wait-or-create procedure for one
// evaluation round.
type Decision int

const (
	DecisionCreate Decision = iota
	DecisionWait
)

// DecisionInputs bundles the state the decision procedure reads.
// AnyPlaceableCourt means an empty court with a HARD-CAP-legal
// placement exists right now; when it does, court utilization wins
// outright and no waiting rule is consulted.
type DecisionInputs struct {
	AnyPlaceableCourt   bool
	AvailablePlayers    int
	PlayersPerMatch     int
	AnyPlayerAtMaxWaits bool
	CompletedMatchCount int
	MinCompletedForWait int
	HardCapForbidsAll   bool
}

// Decide implements the first-matching-rule procedure: court
// utilization first, then the fairness override, then the
// session-maturity gate, and only then strategic waiting when the
// HARD-CAP forbids every feasible placement.
func Decide(in DecisionInputs) Decision {
	if in.AnyPlaceableCourt && in.AvailablePlayers >= in.PlayersPerMatch {
		return DecisionCreate
	}
	if in.AnyPlayerAtMaxWaits {
		return DecisionCreate
	}
	if in.CompletedMatchCount < in.MinCompletedForWait {
		return DecisionCreate
	}
	if in.HardCapForbidsAll {
		return DecisionWait
	}
	return DecisionCreate
}

// AnyPlayerAtMaxWaits reports whether any id in pool has
// games_waited >= max_consecutive_waits.
func AnyPlayerAtMaxWaits(s *models.Session, pool []string) bool {
	for _, id := range pool {
		if statsFor(s, id).GamesWaited >= s.Config.MaxConsecutiveWaits {
			return true
		}
	}
	return false
}
