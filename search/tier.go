package search

import (
	"maps"
	"slices"
	"sync"

	"github.com/poiesic/ensemble/core"
)

// Tier holds the accepted canonical expressions of one size, keyed by
// canonical key. Insertion is safe for concurrent use.
type Tier struct {
	order   int
	mu      sync.RWMutex
	entries map[string]*core.ScoredExpression
}

func newTier(order int) *Tier {
	return &Tier{
		order:   order,
		entries: make(map[string]*core.ScoredExpression),
	}
}

// Order returns the size of the expressions held by the tier.
func (t *Tier) Order() int {
	return t.order
}

// Len returns the number of accepted expressions.
func (t *Tier) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Contains reports whether key has been accepted.
func (t *Tier) Contains(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.entries[key]
	return ok
}

// Get returns the accepted entry for key, or nil.
func (t *Tier) Get(key string) *core.ScoredExpression {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[key]
}

// Entries returns the accepted expressions ordered by canonical key.
func (t *Tier) Entries() []*core.ScoredExpression {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := slices.Sorted(maps.Keys(t.entries))
	out := make([]*core.ScoredExpression, len(keys))
	for i, key := range keys {
		out[i] = t.entries[key]
	}
	return out
}

// tryInsert stores entry unless its key is already present and reports
// whether it was stored.
func (t *Tier) tryInsert(entry *core.ScoredExpression) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[entry.Key]; ok {
		return false
	}
	t.entries[entry.Key] = entry
	return true
}
