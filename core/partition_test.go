package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectPartitions(n int) []Partition {
	var out []Partition
	for p := range Partitions(n) {
		out = append(out, p)
	}
	return out
}

func TestPartitions_Counts(t *testing.T) {
	// p(n) for n = 1..8
	want := []int{1, 2, 3, 5, 7, 11, 15, 22}
	for i, count := range want {
		n := i + 1
		parts := collectPartitions(n)
		assert.Len(t, parts, count, "p(%d)", n)
		for _, p := range parts {
			assert.Equal(t, n, p.Sum())
		}
	}
}

func TestPartitions_Four(t *testing.T) {
	assert.Equal(t, []Partition{
		{4: 1},
		{3: 1, 1: 1},
		{2: 2},
		{2: 1, 1: 2},
		{1: 4},
	}, collectPartitions(4))
}

func TestPartitions_Restartable(t *testing.T) {
	seq := Partitions(5)
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
}

func TestPartitions_EarlyStop(t *testing.T) {
	seen := 0
	for range Partitions(6) {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestPartitions_NonPositive(t *testing.T) {
	assert.Empty(t, collectPartitions(0))
	assert.Empty(t, collectPartitions(-2))
}

func TestPartition_Accessors(t *testing.T) {
	p := Partition{2: 1, 1: 3}
	assert.Equal(t, 4, p.Parts())
	assert.Equal(t, 5, p.Sum())
	assert.Equal(t, []int{1, 2}, p.Sizes())
}

func TestPartitions_YieldedMapsAreIndependent(t *testing.T) {
	parts := collectPartitions(3)
	parts[0][99] = 1
	again := collectPartitions(3)
	_, leaked := again[0][99]
	assert.False(t, leaked)
}
