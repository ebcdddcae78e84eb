// internal/engine/snapshot.go
// Session snapshot export/import: a self-describing,
// schema-versioned JSON serialization of a Session that round-trips
// identically and tolerates unknown or missing fields.

package engine

import (
	"encoding/json"

	"courtmatch/internal/models"
)

// ExportSnapshot serializes s. Map-keyed fields (Players,
// ActivePlayerIDs, Stats, and the CourtMix/CountMultiset fields nested
// within) all marshal either as Go's key-sorted JSON object encoding or
// via the array-of-entries custom marshalers in internal/models, so two
// exports of an unchanged session are always byte-identical.
func ExportSnapshot(s *models.Session) ([]byte, error) {
	return json.Marshal(s)
}

// configDefaults is reused across imports; Config's zero value cannot
// be distinguished from "field omitted" for some tunables (notably
// hard_cap_enabled's false), so only fields absent from the raw JSON
// object are defaulted — present-but-zero values are honored as-is.
func configDefaults() models.Config {
	return models.DefaultConfig()
}

// ImportSnapshot deserializes data into a Session. Unknown top-level or
// nested fields are ignored by encoding/json's default behavior.
// Missing config fields are filled from models.DefaultConfig() so an
// older, narrower snapshot still produces a usable session.
func ImportSnapshot(data []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}

	var raw struct {
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err == nil && raw.Config != nil {
		var present map[string]json.RawMessage
		if err := json.Unmarshal(raw.Config, &present); err == nil {
			defaults := configDefaults()
			merged := defaults
			merged = applyPresentConfig(merged, s.Config, present)
			s.Config = merged
		}
	} else {
		s.Config = configDefaults()
	}

	if s.Stats == nil {
		s.Stats = make(map[string]*models.PlayerStats)
	}
	if s.Variety == nil {
		s.Variety = models.NewCourtVarietyState(s.CourtCount)
	}

	// A hand-edited or corrupted snapshot must not smuggle a banned
	// pair onto a live team.
	for _, m := range s.Matches {
		if !m.Active() {
			continue
		}
		for _, team := range [][]string{m.Team1, m.Team2} {
			for _, pair := range teamPairs(team) {
				if s.IsBanned(pair[0], pair[1]) {
					return nil, newError(KindBannedPairViolation, "match %s teams %v contain a banned pair", m.ID, team)
				}
			}
		}
	}

	return &s, nil
}

// applyPresentConfig starts from defaults and overwrites every field
// whose JSON key was actually present in the snapshot with the value
// encoding/json already decoded into parsed.
func applyPresentConfig(defaults, parsed models.Config, present map[string]json.RawMessage) models.Config {
	out := defaults
	if _, ok := present["base_rating"]; ok {
		out.BaseRating = parsed.BaseRating
	}
	if _, ok := present["min_rating"]; ok {
		out.MinRating = parsed.MinRating
	}
	if _, ok := present["max_rating"]; ok {
		out.MaxRating = parsed.MaxRating
	}
	if _, ok := present["provisional_games_threshold"]; ok {
		out.ProvisionalGamesThreshold = parsed.ProvisionalGamesThreshold
	}
	if _, ok := present["ranking_range_percentage"]; ok {
		out.RankingRangePercentage = parsed.RankingRangePercentage
	}
	if _, ok := present["close_rank_threshold"]; ok {
		out.CloseRankThreshold = parsed.CloseRankThreshold
	}
	if _, ok := present["very_close_rank_threshold"]; ok {
		out.VeryCloseRankThreshold = parsed.VeryCloseRankThreshold
	}
	if _, ok := present["max_consecutive_waits"]; ok {
		out.MaxConsecutiveWaits = parsed.MaxConsecutiveWaits
	}
	if _, ok := present["min_completed_matches_for_waiting"]; ok {
		out.MinCompletedMatchesForWaiting = parsed.MinCompletedMatchesForWaiting
	}
	if _, ok := present["back_to_back_overlap_threshold"]; ok {
		out.BackToBackOverlapThreshold = parsed.BackToBackOverlapThreshold
	}
	if _, ok := present["recent_overlap_penalty"]; ok {
		out.RecentOverlapPenalty = parsed.RecentOverlapPenalty
	}
	if _, ok := present["recent_partnership_penalty"]; ok {
		out.RecentPartnershipPenalty = parsed.RecentPartnershipPenalty
	}
	if _, ok := present["partnership_repeat_penalty"]; ok {
		out.PartnershipRepeatPenalty = parsed.PartnershipRepeatPenalty
	}
	if _, ok := present["opponent_repeat_penalty"]; ok {
		out.OpponentRepeatPenalty = parsed.OpponentRepeatPenalty
	}
	if _, ok := present["team_balance_penalty"]; ok {
		out.TeamBalancePenalty = parsed.TeamBalancePenalty
	}
	if _, ok := present["partnership_variety_weight"]; ok {
		out.PartnershipVarietyWeight = parsed.PartnershipVarietyWeight
	}
	if _, ok := present["recent_partnership_window"]; ok {
		out.RecentPartnershipWindow = parsed.RecentPartnershipWindow
	}
	if _, ok := present["hard_cap_enabled"]; ok {
		out.HardCapEnabled = parsed.HardCapEnabled
	}
	if _, ok := present["round_robin_queue_length"]; ok {
		out.RoundRobinQueueLength = parsed.RoundRobinQueueLength
	}
	if _, ok := present["randomize_initial_order"]; ok {
		out.RandomizeInitialOrder = parsed.RandomizeInitialOrder
	}
	return out
}
