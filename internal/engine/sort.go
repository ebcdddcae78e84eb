// internal/engine/sort.go
// Small sort helper shared by ranking and rating-bracket code.

package engine

import "sort"

// sortStableBy sorts ids in place using less, breaking ties in the
// order less reports them (callers are expected to fold a final
// deterministic tiebreaker, such as id, into less itself).
func sortStableBy(ids []string, less func(a, b string) bool) {
	sort.SliceStable(ids, func(i, j int) bool {
		return less(ids[i], ids[j])
	})
}
