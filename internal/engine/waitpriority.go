// internal/engine/waitpriority.go
// Wait-fair ordering: games_waited desc, then
// games_played asc, then rating-distance-to-median asc, then id asc.

package engine

import (
	"math"

	"courtmatch/internal/models"
)

// WaitFairOrder returns a copy of ids sorted by the wait-fair order;
// ids itself is not reordered. median and
// ratings are typically the output of MedianRating/ComputeRatings for
// the same pool; callers outside the king-of-court matcher (e.g. the
// round-robin path, which has no rating concept) may pass a zero
// ratings map, in which case every distance collapses to 0 and the
// ordering degrades gracefully to games_waited/games_played/id.
func WaitFairOrder(s *models.Session, ids []string, ratings map[string]PlayerRating, median float64) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sortStableBy(out, func(a, b string) bool {
		sa, sb := statsFor(s, a), statsFor(s, b)
		if sa.GamesWaited != sb.GamesWaited {
			return sa.GamesWaited > sb.GamesWaited
		}
		if sa.GamesPlayed != sb.GamesPlayed {
			return sa.GamesPlayed < sb.GamesPlayed
		}
		da := math.Abs(ratings[a].Rating - median)
		db := math.Abs(ratings[b].Rating - median)
		if da != db {
			return da < db
		}
		return a < b
	})
	return out
}
