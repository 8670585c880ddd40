package search

import (
	"context"
	"sync"

	"github.com/poiesic/ensemble/core"
	"golang.org/x/sync/singleflight"
)

// scoreBoard scores each canonical key at most once while a tier is built.
// Concurrent requests for the same key share one oracle call.
type scoreBoard struct {
	run    *run
	group  singleflight.Group
	mu     sync.Mutex
	scores map[string]float64
}

func newScoreBoard(r *run) *scoreBoard {
	return &scoreBoard{
		run:    r,
		scores: make(map[string]float64),
	}
}

// score returns the score of the canonical expression e with key key.
// Oracle failures are recorded as core.FailedScore.
func (b *scoreBoard) score(ctx context.Context, e core.Expression, key string) float64 {
	if score, ok := b.lookup(key); ok {
		return score
	}
	v, _, _ := b.group.Do(key, func() (any, error) {
		if score, ok := b.lookup(key); ok {
			return score, nil
		}
		score := b.run.searcher.score(ctx, e, key)
		b.mu.Lock()
		b.scores[key] = score
		b.mu.Unlock()
		return score, nil
	})
	return v.(float64)
}

func (b *scoreBoard) lookup(key string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	score, ok := b.scores[key]
	return score, ok
}

// score consults the score cache, then the oracle. Finite oracle scores are
// written back to the cache; errors and non-finite scores become
// core.FailedScore.
func (s *Searcher) score(ctx context.Context, e core.Expression, key string) float64 {
	if s.scores != nil {
		score, found, err := s.scores.GetScore(ctx, key)
		if err != nil {
			s.logger.Warn("error reading score cache", "key", key, "err", err)
		} else if found {
			return score
		}
	}

	score, err := s.scorer.Score(ctx, e)
	if err != nil {
		s.logger.Warn("oracle failed", "key", key, "err", err)
		return core.FailedScore
	}
	if !core.IsFiniteScore(score) {
		s.logger.Warn("oracle returned non-finite score", "key", key, "score", score)
		return core.FailedScore
	}

	if s.scores != nil {
		entry := &core.ScoredExpression{Expression: e, Key: key, Score: score}
		if err := s.scores.PutScores(ctx, entry); err != nil {
			s.logger.Warn("error writing score cache", "key", key, "err", err)
		}
	}
	return score
}
