package search

import (
	"slices"

	"github.com/poiesic/ensemble/core"
)

// Result holds the completed tiers of a search.
type Result struct {
	// Tiers[k-1] holds the accepted expressions of order k. A cancelled or
	// failed search holds only the tiers completed before it stopped.
	Tiers []*Tier

	// NumberToRetrieve is the ranking length used by Ranking.
	NumberToRetrieve int
}

// Tier returns the tier of the given order, or nil if it was not built.
func (r *Result) Tier(order int) *Tier {
	if order < 1 || order > len(r.Tiers) {
		return nil
	}
	return r.Tiers[order-1]
}

// Len returns the number of accepted expressions across all tiers.
func (r *Result) Len() int {
	total := 0
	for _, tier := range r.Tiers {
		total += tier.Len()
	}
	return total
}

// All returns every accepted expression ordered by score descending, then
// canonical key ascending.
func (r *Result) All() []*core.ScoredExpression {
	all := make([]*core.ScoredExpression, 0, r.Len())
	for _, tier := range r.Tiers {
		all = append(all, tier.Entries()...)
	}
	slices.SortFunc(all, core.CompareScored)
	return all
}

// Best returns the n highest ranked expressions. Zero or negative n returns all.
func (r *Result) Best(n int) []*core.ScoredExpression {
	all := r.All()
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// Ranking returns Best(NumberToRetrieve).
func (r *Result) Ranking() []*core.ScoredExpression {
	return r.Best(r.NumberToRetrieve)
}
