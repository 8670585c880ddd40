package search

import (
	"github.com/poiesic/ensemble/core"
)

// multiwayCandidates merges three or more tier members into one n-ary node
// under each configured associative operator. The members are chosen by the
// partitions of order with at least three parts: a part of size s with
// multiplicity m takes m distinct members of tier s.
func (r *run) multiwayCandidates(order int) []candidate {
	var ops []*core.Operator
	for _, op := range r.cfg.BinaryOperators {
		if op.Associative {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		return nil
	}

	var candidates []candidate
	for partition := range core.Partitions(order) {
		if partition.Parts() < 3 {
			continue
		}
		r.selectMembers(partition, partition.Sizes(), nil, func(operands []*core.ScoredExpression) {
			for _, op := range ops {
				candidates = append(candidates, candidate{
					op:       op,
					operands: operands,
				})
			}
		})
	}
	return candidates
}

// selectMembers chooses members for the remaining part sizes and calls emit
// with every complete selection. Each selection is a fresh slice.
func (r *run) selectMembers(partition core.Partition, sizes []int, chosen []*core.ScoredExpression, emit func([]*core.ScoredExpression)) {
	if len(sizes) == 0 {
		emit(append([]*core.ScoredExpression(nil), chosen...))
		return
	}
	size := sizes[0]
	combinations(r.tier(size).Entries(), partition[size], func(group []*core.ScoredExpression) {
		if r.cfg.NoOverlap && overlapsAny(group, chosen) {
			return
		}
		r.selectMembers(partition, sizes[1:], append(chosen, group...), emit)
	})
}

// combinations calls emit with every k-element subset of entries, in index
// order. The slice passed to emit is reused between calls.
func combinations(entries []*core.ScoredExpression, k int, emit func([]*core.ScoredExpression)) {
	if k > len(entries) {
		return
	}
	group := make([]*core.ScoredExpression, k)
	var pick func(from, depth int)
	pick = func(from, depth int) {
		if depth == k {
			emit(group)
			return
		}
		for i := from; i <= len(entries)-(k-depth); i++ {
			group[depth] = entries[i]
			pick(i+1, depth+1)
		}
	}
	pick(0, 0)
}

// overlapsAny reports whether any two members of group, or any member of
// group and any member of chosen, share a leaf.
func overlapsAny(group, chosen []*core.ScoredExpression) bool {
	for i, g := range group {
		for _, other := range group[i+1:] {
			if core.Overlaps(g.Expression, other.Expression) {
				return true
			}
		}
		for _, c := range chosen {
			if core.Overlaps(g.Expression, c.Expression) {
				return true
			}
		}
	}
	return false
}
