package mock

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
)

// ErrScoringFailed is returned by FailingScorer.
var ErrScoringFailed = errors.New("mock scoring failure")

// MockScorer is a test double for oracle.Scorer.
// It allows custom behavior injection via a function field.
type MockScorer struct {
	// ScoreFunc is called by Score if set.
	// If nil, the score is the number of distinct leaves.
	ScoreFunc func(ctx context.Context, e core.Expression) (float64, error)

	callCount atomic.Int64
	mu        sync.Mutex
	seen      map[string]int
}

var _ oracle.Scorer = (*MockScorer)(nil)

// NewMockScorer creates a mock scorer with the given behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockScorer(f func(ctx context.Context, e core.Expression) (float64, error)) *MockScorer {
	return &MockScorer{ScoreFunc: f}
}

// Score records the call and delegates to ScoreFunc.
func (m *MockScorer) Score(ctx context.Context, e core.Expression) (float64, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	if m.seen == nil {
		m.seen = make(map[string]int)
	}
	m.seen[e.String()]++
	m.mu.Unlock()

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, e)
	}
	return float64(len(e.Leaves())), nil
}

// CallCount returns the number of times Score was called.
func (m *MockScorer) CallCount() int {
	return int(m.callCount.Load())
}

// Calls returns how many times Score was called with the given rendering.
func (m *MockScorer) Calls(rendered string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[rendered]
}

// Reset clears the call counters.
func (m *MockScorer) Reset() {
	m.callCount.Store(0)
	m.mu.Lock()
	m.seen = nil
	m.mu.Unlock()
}

// LeafCountScorer scores an expression by its number of distinct leaves.
type LeafCountScorer struct{}

var _ oracle.Scorer = LeafCountScorer{}

func (LeafCountScorer) Score(_ context.Context, e core.Expression) (float64, error) {
	return float64(len(e.Leaves())), nil
}

// TableScorer scores leaves from a table and combines child scores per
// operator: AND takes the minimum plus Bonus[&], OR the maximum plus
// Bonus[|], XOR the mean plus Bonus[^], and NOT maps s to Invert - s.
// Unknown leaves fail.
type TableScorer struct {
	Leaves map[string]float64
	Bonus  map[string]float64
	Invert float64
}

var _ oracle.Scorer = (*TableScorer)(nil)

func (t *TableScorer) Score(ctx context.Context, e core.Expression) (float64, error) {
	switch v := e.(type) {
	case *core.Leaf:
		score, ok := t.Leaves[v.Name()]
		if !ok {
			return 0, ErrScoringFailed
		}
		return score, nil
	case *core.Node:
		scores := make([]float64, v.Len())
		for i := range scores {
			s, err := t.Score(ctx, v.Child(i))
			if err != nil {
				return 0, err
			}
			scores[i] = s
		}
		op := v.Operator()
		switch op {
		case core.Not:
			return t.Invert - scores[0], nil
		case core.And:
			return minOf(scores) + t.Bonus[op.Symbol], nil
		case core.Or:
			return maxOf(scores) + t.Bonus[op.Symbol], nil
		default:
			return mean(scores) + t.Bonus[op.Symbol], nil
		}
	}
	return 0, ErrScoringFailed
}

// RandomScorer returns i.i.d. uniform scores in [0, 1).
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ oracle.Scorer = (*RandomScorer)(nil)

// NewRandomScorer creates a random scorer with a fixed seed.
func NewRandomScorer(seed int64) *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomScorer) Score(_ context.Context, _ core.Expression) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64(), nil
}

// FailingScorer fails for every expression whose rendering is in Fail and
// delegates everything else to Next.
type FailingScorer struct {
	Fail map[string]bool
	Next oracle.Scorer
}

var _ oracle.Scorer = (*FailingScorer)(nil)

func (f *FailingScorer) Score(ctx context.Context, e core.Expression) (float64, error) {
	if f.Fail[e.String()] {
		return 0, ErrScoringFailed
	}
	return f.Next.Score(ctx, e)
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = max(m, x)
	}
	return m
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
