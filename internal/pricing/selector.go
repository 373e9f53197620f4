package pricing

import "bytes"

// selectRule picks the single winning rule from the applicable set, or nil
// when the set is empty. The ordering is total, so the winner is stable
// under any permutation of the input:
//
//  1. priority, higher first
//  2. target specificity, product > category > global
//  3. creation time, older first
//  4. id, as a final deterministic fallback
func selectRule(applicable []Rule) *Rule {
	var winner *Rule
	for i := range applicable {
		candidate := &applicable[i]
		if winner == nil || beats(candidate, winner) {
			winner = candidate
		}
	}
	return winner
}

func beats(a, b *Rule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := specificity(a), specificity(b); sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// specificity ranks how narrowly a rule targets: an exact product beats a
// category, which beats a tenant-wide default.
func specificity(rule *Rule) int {
	switch {
	case rule.ProductID != nil:
		return 2
	case rule.CategoryID != nil:
		return 1
	}
	return 0
}
