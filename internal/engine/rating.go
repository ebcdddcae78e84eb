// internal/engine/rating.go
// King-of-the-court rating and rank-bracket computation

package engine

import (
	"math"

	"courtmatch/internal/models"
)

// PlayerRating is the computed rating and provisional status for one
// active player, plus the inputs used to derive it (kept around for
// scoring/tie-break use elsewhere in the matcher).
type PlayerRating struct {
	PlayerID    string
	Rating      float64
	GamesPlayed int
	Provisional bool
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// ComputeRating derives a player's rating:
//
//	rating = clamp(base + 200*log(1+9*win_rate) - 200
//	               + 50*sign(Δ)*log(1+|Δ|)
//	               + (win_rate >= 0.6 ? 30*log(games_played) : 0),
//	               min, max)
//
// where Δ = (points_for - points_against)/games_played. Players with
// zero games receive base_rating and are marked provisional below the
// configured games threshold.
func ComputeRating(cfg models.Config, st *models.PlayerStats) PlayerRating {
	pr := PlayerRating{
		PlayerID:    st.PlayerID,
		GamesPlayed: st.GamesPlayed,
		Provisional: st.GamesPlayed < cfg.ProvisionalGamesThreshold,
	}

	if st.GamesPlayed == 0 {
		pr.Rating = cfg.BaseRating
		return pr
	}

	winRate := st.WinRate()
	delta := st.AveragePointDifferential()

	rating := cfg.BaseRating +
		200*math.Log(1+9*winRate) - 200 +
		50*sign(delta)*math.Log(1+math.Abs(delta))

	if winRate >= 0.6 {
		rating += 30 * math.Log(float64(st.GamesPlayed))
	}

	if rating < cfg.MinRating {
		rating = cfg.MinRating
	}
	if rating > cfg.MaxRating {
		rating = cfg.MaxRating
	}

	pr.Rating = rating
	return pr
}

// ComputeRatings computes PlayerRating for every id in activePlayerIDs.
func ComputeRatings(s *models.Session, activePlayerIDs []string) map[string]PlayerRating {
	out := make(map[string]PlayerRating, len(activePlayerIDs))
	for _, id := range activePlayerIDs {
		out[id] = ComputeRating(s.Config, statsFor(s, id))
	}
	return out
}

// Bracket is the rank-indexed half of the active pool a non-provisional
// player may be matched within.
type Bracket int

const (
	BracketUpper Bracket = iota
	BracketLower
)

// RankedPlayer is one row of the sorted, rank-assigned active pool.
type RankedPlayer struct {
	PlayerID string
	Rank     int // 1-indexed
	Rating   PlayerRating
	Bracket  Bracket
}

// RankPool sorts activePlayerIDs by rating desc (ties: fewer games
// played, then lexicographic id), assigns ranks 1..M, and splits the
// pool into two brackets per ranking_range_percentage. Provisional
// players are assigned a rank for ordering purposes but are
// bracket-free — BracketCompatible always accepts them.
func RankPool(s *models.Session, ratings map[string]PlayerRating) []RankedPlayer {
	ids := make([]string, 0, len(ratings))
	for id := range ratings {
		ids = append(ids, id)
	}
	sortStableBy(ids, func(a, b string) bool {
		ra, rb := ratings[a], ratings[b]
		if ra.Rating != rb.Rating {
			return ra.Rating > rb.Rating
		}
		if ra.GamesPlayed != rb.GamesPlayed {
			return ra.GamesPlayed < rb.GamesPlayed
		}
		return a < b
	})

	m := len(ids)
	upperSize := int(math.Ceil(float64(m) * s.Config.RankingRangePercentage))
	if upperSize < 1 {
		upperSize = 1
	}

	out := make([]RankedPlayer, m)
	for i, id := range ids {
		bracket := BracketUpper
		if i >= upperSize {
			bracket = BracketLower
		}
		out[i] = RankedPlayer{
			PlayerID: id,
			Rank:     i + 1,
			Rating:   ratings[id],
			Bracket:  bracket,
		}
	}
	return out
}

// BracketCompatible reports whether every player in group shares a
// bracket, where provisional players are free agents that fit any
// bracket.
func BracketCompatible(ranked map[string]RankedPlayer, group []string) bool {
	sawUpper, sawLower := false, false
	for _, id := range group {
		rp, ok := ranked[id]
		if !ok || rp.Rating.Provisional {
			continue
		}
		if rp.Bracket == BracketUpper {
			sawUpper = true
		} else {
			sawLower = true
		}
	}
	return !(sawUpper && sawLower)
}

// RankedIndex builds a lookup from player id to RankedPlayer.
func RankedIndex(ranked []RankedPlayer) map[string]RankedPlayer {
	out := make(map[string]RankedPlayer, len(ranked))
	for _, rp := range ranked {
		out[rp.PlayerID] = rp
	}
	return out
}

// MedianRating returns the median rating across ranked, used as the
// distance anchor in wait-priority ordering.
func MedianRating(ranked []RankedPlayer) float64 {
	if len(ranked) == 0 {
		return 0
	}
	ratings := make([]float64, len(ranked))
	for i, rp := range ranked {
		ratings[i] = rp.Rating.Rating
	}
	sortFloats(ratings)
	n := len(ratings)
	if n%2 == 1 {
		return ratings[n/2]
	}
	return (ratings[n/2-1] + ratings[n/2]) / 2
}

func sortFloats(xs []float64) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
