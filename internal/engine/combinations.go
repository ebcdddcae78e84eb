// internal/engine/combinations.go
// Lazy-ish enumeration of k-subsets of an ordered sequence.
// "Lazy" here means the caller supplies a visit function rather than
// materializing every subset up front, which matters once pools grow
// past a handful of players.

package engine

// EachCombination calls visit once for every k-subset of items, in
// lexicographic index order, stopping early if visit returns false.
func EachCombination(items []string, k int, visit func(group []string) bool) {
	n := len(items)
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	group := make([]string, k)
	for {
		for i, ix := range idx {
			group[i] = items[ix]
		}
		if !visit(group) {
			return
		}

		// advance to the next combination of indices
		i := k - 1
		for i >= 0 && idx[i] == i+n-k {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Combinations materializes every k-subset of items. Use EachCombination
// directly when the pool is large and an early stop is likely.
func Combinations(items []string, k int) [][]string {
	var out [][]string
	EachCombination(items, k, func(group []string) bool {
		cp := make([]string, len(group))
		copy(cp, group)
		out = append(out, cp)
		return true
	})
	return out
}

// DoublesPairings enumerates the three ways to split a 4-player group
// into two teams of two: ab|cd, ac|bd, ad|bc.
func DoublesPairings(group [4]string) [3][2][2]string {
	a, b, c, d := group[0], group[1], group[2], group[3]
	return [3][2][2]string{
		{{a, b}, {c, d}},
		{{a, c}, {b, d}},
		{{a, d}, {b, c}},
	}
}
