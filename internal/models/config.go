// internal/models/config.go
// Tunable matchmaking parameters and their defaults

package models

// Config holds every tunable parameter of the matchmaking engine.
// Updating it mid-session (via update_advanced_config) is atomic and
// affects only future evaluation rounds.
type Config struct {
	// ELO / rating
	BaseRating                float64 `json:"base_rating"`
	MinRating                 float64 `json:"min_rating"`
	MaxRating                 float64 `json:"max_rating"`
	ProvisionalGamesThreshold int     `json:"provisional_games_threshold"`

	// Bracket
	RankingRangePercentage float64 `json:"ranking_range_percentage"`
	CloseRankThreshold     int     `json:"close_rank_threshold"`
	VeryCloseRankThreshold int     `json:"very_close_rank_threshold"`

	// Waiting
	MaxConsecutiveWaits           int `json:"max_consecutive_waits"`
	MinCompletedMatchesForWaiting int `json:"min_completed_matches_for_waiting"`

	// Variety
	BackToBackOverlapThreshold int `json:"back_to_back_overlap_threshold"`
	RecentOverlapPenalty       int `json:"recent_overlap_penalty"`
	RecentPartnershipPenalty   int `json:"recent_partnership_penalty"`
	PartnershipRepeatPenalty   int `json:"partnership_repeat_penalty"`
	OpponentRepeatPenalty      int `json:"opponent_repeat_penalty"`
	TeamBalancePenalty         int `json:"team_balance_penalty"`
	PartnershipVarietyWeight   int `json:"partnership_variety_weight"`
	RecentPartnershipWindow    int `json:"recent_partnership_window"`

	// Court / HARD-CAP
	HardCapEnabled bool `json:"hard_cap_enabled"`

	// Round-robin queue
	RoundRobinQueueLength int `json:"round_robin_queue_length"`

	// Session setup
	RandomizeInitialOrder bool `json:"randomize_initial_order"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		BaseRating:                    1500,
		MinRating:                     800,
		MaxRating:                     2200,
		ProvisionalGamesThreshold:     2,
		RankingRangePercentage:        0.5,
		CloseRankThreshold:            4,
		VeryCloseRankThreshold:        3,
		MaxConsecutiveWaits:           1,
		MinCompletedMatchesForWaiting: 6,
		BackToBackOverlapThreshold:    3,
		RecentOverlapPenalty:          150,
		RecentPartnershipPenalty:      300,
		PartnershipRepeatPenalty:      80,
		OpponentRepeatPenalty:         25,
		TeamBalancePenalty:            20,
		PartnershipVarietyWeight:      100,
		RecentPartnershipWindow:       3,
		HardCapEnabled:                true,
		RoundRobinQueueLength:         20,
		RandomizeInitialOrder:         false,
	}
}

// Merge copies every non-nil field of patch into a copy of c, the way
// update_advanced_config behaves. A nil field, boolean or not, leaves
// the current value untouched; a non-nil pointer to a zero value or to
// false is applied.
func (c Config) Merge(patch ConfigPatch) Config {
	out := c
	if patch.BaseRating != nil {
		out.BaseRating = *patch.BaseRating
	}
	if patch.MinRating != nil {
		out.MinRating = *patch.MinRating
	}
	if patch.MaxRating != nil {
		out.MaxRating = *patch.MaxRating
	}
	if patch.ProvisionalGamesThreshold != nil {
		out.ProvisionalGamesThreshold = *patch.ProvisionalGamesThreshold
	}
	if patch.RankingRangePercentage != nil {
		out.RankingRangePercentage = *patch.RankingRangePercentage
	}
	if patch.CloseRankThreshold != nil {
		out.CloseRankThreshold = *patch.CloseRankThreshold
	}
	if patch.VeryCloseRankThreshold != nil {
		out.VeryCloseRankThreshold = *patch.VeryCloseRankThreshold
	}
	if patch.MaxConsecutiveWaits != nil {
		out.MaxConsecutiveWaits = *patch.MaxConsecutiveWaits
	}
	if patch.MinCompletedMatchesForWaiting != nil {
		out.MinCompletedMatchesForWaiting = *patch.MinCompletedMatchesForWaiting
	}
	if patch.BackToBackOverlapThreshold != nil {
		out.BackToBackOverlapThreshold = *patch.BackToBackOverlapThreshold
	}
	if patch.RecentOverlapPenalty != nil {
		out.RecentOverlapPenalty = *patch.RecentOverlapPenalty
	}
	if patch.RecentPartnershipPenalty != nil {
		out.RecentPartnershipPenalty = *patch.RecentPartnershipPenalty
	}
	if patch.PartnershipRepeatPenalty != nil {
		out.PartnershipRepeatPenalty = *patch.PartnershipRepeatPenalty
	}
	if patch.OpponentRepeatPenalty != nil {
		out.OpponentRepeatPenalty = *patch.OpponentRepeatPenalty
	}
	if patch.TeamBalancePenalty != nil {
		out.TeamBalancePenalty = *patch.TeamBalancePenalty
	}
	if patch.PartnershipVarietyWeight != nil {
		out.PartnershipVarietyWeight = *patch.PartnershipVarietyWeight
	}
	if patch.RecentPartnershipWindow != nil {
		out.RecentPartnershipWindow = *patch.RecentPartnershipWindow
	}
	if patch.HardCapEnabled != nil {
		out.HardCapEnabled = *patch.HardCapEnabled
	}
	if patch.RoundRobinQueueLength != nil {
		out.RoundRobinQueueLength = *patch.RoundRobinQueueLength
	}
	return out
}

// ConfigPatch is a partial update to Config; nil fields are left
// untouched by Merge. Typed rather than a map[string]interface{}
// partial update, since every tunable here is numeric or boolean and
// benefits from compile-time field names.
type ConfigPatch struct {
	BaseRating                    *float64 `json:"base_rating,omitempty"`
	MinRating                     *float64 `json:"min_rating,omitempty"`
	MaxRating                     *float64 `json:"max_rating,omitempty"`
	ProvisionalGamesThreshold     *int     `json:"provisional_games_threshold,omitempty"`
	RankingRangePercentage        *float64 `json:"ranking_range_percentage,omitempty"`
	CloseRankThreshold            *int     `json:"close_rank_threshold,omitempty"`
	VeryCloseRankThreshold        *int     `json:"very_close_rank_threshold,omitempty"`
	MaxConsecutiveWaits           *int     `json:"max_consecutive_waits,omitempty"`
	MinCompletedMatchesForWaiting *int     `json:"min_completed_matches_for_waiting,omitempty"`
	BackToBackOverlapThreshold    *int     `json:"back_to_back_overlap_threshold,omitempty"`
	RecentOverlapPenalty          *int     `json:"recent_overlap_penalty,omitempty"`
	RecentPartnershipPenalty      *int     `json:"recent_partnership_penalty,omitempty"`
	PartnershipRepeatPenalty      *int     `json:"partnership_repeat_penalty,omitempty"`
	OpponentRepeatPenalty         *int     `json:"opponent_repeat_penalty,omitempty"`
	TeamBalancePenalty            *int     `json:"team_balance_penalty,omitempty"`
	PartnershipVarietyWeight      *int     `json:"partnership_variety_weight,omitempty"`
	RecentPartnershipWindow       *int     `json:"recent_partnership_window,omitempty"`
	HardCapEnabled                *bool    `json:"hard_cap_enabled,omitempty"`
	RoundRobinQueueLength         *int     `json:"round_robin_queue_length,omitempty"`
}
