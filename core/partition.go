package core

import (
	"iter"
	"maps"
	"slices"
)

// Partition is a multiset of positive integers summing to some n,
// represented as part size -> multiplicity.
type Partition map[int]int

// Parts returns the number of parts counting multiplicity.
func (p Partition) Parts() int {
	total := 0
	for _, m := range p {
		total += m
	}
	return total
}

// Sum returns the integer being partitioned.
func (p Partition) Sum() int {
	total := 0
	for size, m := range p {
		total += size * m
	}
	return total
}

// Sizes returns the distinct part sizes in ascending order.
func (p Partition) Sizes() []int {
	return slices.Sorted(maps.Keys(p))
}

// Partitions yields every partition of n exactly once, largest parts
// first. Each yielded Partition is a fresh map owned by the caller. The
// sequence may be ranged over any number of times.
func Partitions(n int) iter.Seq[Partition] {
	return func(yield func(Partition) bool) {
		if n <= 0 {
			return
		}
		current := Partition{}
		partitionInto(n, n, current, yield)
	}
}

// partitionInto extends current with parts no larger than maxPart summing to
// remaining. It returns false once yield asks to stop.
func partitionInto(remaining, maxPart int, current Partition, yield func(Partition) bool) bool {
	if remaining == 0 {
		return yield(maps.Clone(current))
	}
	for size := min(remaining, maxPart); size >= 1; size-- {
		for count := remaining / size; count >= 1; count-- {
			current[size] = count
			ok := partitionInto(remaining-size*count, size-1, current, yield)
			delete(current, size)
			if !ok {
				return false
			}
		}
	}
	return true
}
