package oracle

import (
	"context"

	"github.com/poiesic/ensemble/core"
)

// Scorer assigns a real-valued quality score to an expression.
// Implementations must be safe for concurrent use and must not retain or
// modify the expression. A returned error, NaN or infinite score marks the
// expression as unscorable; the search engine rejects it and carries on.
type Scorer interface {
	// Score evaluates the ensemble described by e.
	// Higher scores are better.
	Score(ctx context.Context, e core.Expression) (float64, error)
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(ctx context.Context, e core.Expression) (float64, error)

var _ Scorer = ScorerFunc(nil)

// Score calls f(ctx, e).
func (f ScorerFunc) Score(ctx context.Context, e core.Expression) (float64, error) {
	return f(ctx, e)
}

// RenderedScorer adapts a function over the rendered expression text.
func RenderedScorer(f func(rendered string) (float64, error)) Scorer {
	return ScorerFunc(func(_ context.Context, e core.Expression) (float64, error) {
		return f(e.String())
	})
}

// Closer is implemented by scorers holding resources that must be released.
type Closer interface {
	Close() error
}
