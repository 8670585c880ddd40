package search

import (
	"context"
	"testing"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle/mock"
	"github.com/poiesic/ensemble/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ScoreCache(t *testing.T) {
	scores, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		checkpoints.Close()
		scores.Close()
		backend.Close()
	}()

	ctx := context.Background()
	cfg := func() *Config {
		return NewConfig(WithNames("a", "b", "c"), WithBinaryOperators(core.And, core.Or))
	}

	first := mock.NewMockScorer(nil)
	searcher := newTestSearcher(t, first, WithScoreCache(scores))
	want, err := searcher.Search(ctx, cfg())
	require.NoError(t, err)
	require.NotZero(t, first.CallCount())

	count, err := scores.CountScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.CallCount(), count)

	second := mock.NewMockScorer(nil)
	searcher = newTestSearcher(t, second, WithScoreCache(scores))
	got, err := searcher.Search(ctx, cfg())
	require.NoError(t, err)

	assert.Zero(t, second.CallCount(), "every score comes from the cache")
	assert.Equal(t, keysOf(want.All()), keysOf(got.All()))
	assert.Equal(t, scoresOf(want.All()), scoresOf(got.All()))
}

func TestSearch_ScoreCacheSkipsFailures(t *testing.T) {
	scores, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	scorer := &mock.FailingScorer{
		Fail: map[string]bool{"(a&b)": true},
		Next: mock.LeafCountScorer{},
	}
	searcher := newTestSearcher(t, scorer, WithScoreCache(scores))
	_, err = searcher.Search(ctx, NewConfig(WithNames("a", "b"), WithBinaryOperators(core.And, core.Or)))
	require.NoError(t, err)

	_, found, err := scores.GetScore(ctx, "(a&b)")
	require.NoError(t, err)
	assert.False(t, found)

	score, found, err := scores.GetScore(ctx, "(a|b)")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2.0, score)
}

func TestSearch_Checkpoints(t *testing.T) {
	_, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	options := func(extra ...ConfigOption) *Config {
		opts := append([]ConfigOption{
			WithNames("a", "b", "c", "d"),
			WithOperators(core.And, core.Or, core.Not),
		}, extra...)
		return NewConfig(opts...)
	}

	// Build the first two tiers.
	searcher := newTestSearcher(t, hashScorer(), WithCheckpoints(checkpoints))
	partial, err := searcher.Search(ctx, options(WithMaxOrder(2)))
	require.NoError(t, err)

	runID := options().RunID()
	saved, err := checkpoints.LoadTiers(ctx, runID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, keysOf(partial.Tier(2).Entries()), keysOf(saved[1].Entries))

	// Resume up to order 4; tiers 1 and 2 are not rescored.
	scorer := mock.NewMockScorer(func(ctx context.Context, e core.Expression) (float64, error) {
		return hashScorer().Score(ctx, e)
	})
	searcher = newTestSearcher(t, scorer, WithCheckpoints(checkpoints))
	monitor := newRecordingMonitor()
	resumed, err := searcher.SearchWithMonitor(ctx, options(WithResume(true)), monitor)
	require.NoError(t, err)
	require.Len(t, resumed.Tiers, 4)
	assert.Zero(t, scorer.Calls("a"))
	assert.Equal(t, []int{1, 2, 3, 4}, monitor.ended)
	_, begun := monitor.begun[2]
	assert.False(t, begun, "restored tiers are not rebuilt")

	// A fresh run produces the same result.
	fresh := newTestSearcher(t, hashScorer())
	want, err := fresh.Search(ctx, options())
	require.NoError(t, err)
	assert.Equal(t, keysOf(want.All()), keysOf(resumed.All()))
	assert.Equal(t, scoresOf(want.All()), scoresOf(resumed.All()))

	saved, err = checkpoints.LoadTiers(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, saved, 4)
}

func TestSearch_CheckpointsWithoutResume(t *testing.T) {
	_, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	searcher := newTestSearcher(t, mock.LeafCountScorer{}, WithCheckpoints(checkpoints))

	cfg := NewConfig(WithNames("a", "b", "c"))
	_, err = searcher.Search(ctx, cfg)
	require.NoError(t, err)

	// A new run that does not resume replaces the stale checkpoints.
	_, err = searcher.Search(ctx, NewConfig(WithNames("a", "b", "c"), WithMaxOrder(1)))
	require.NoError(t, err)

	saved, err := checkpoints.LoadTiers(ctx, cfg.RunID())
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestSearch_ResumeUsesLowerMaxOrder(t *testing.T) {
	_, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	searcher := newTestSearcher(t, mock.LeafCountScorer{}, WithCheckpoints(checkpoints))
	_, err = searcher.Search(ctx, NewConfig(WithNames("a", "b", "c")))
	require.NoError(t, err)

	scorer := mock.NewMockScorer(nil)
	searcher = newTestSearcher(t, scorer, WithCheckpoints(checkpoints))
	result, err := searcher.Search(ctx, NewConfig(WithNames("a", "b", "c"), WithMaxOrder(2), WithResume(true)))
	require.NoError(t, err)
	assert.Len(t, result.Tiers, 2)
	assert.Zero(t, scorer.CallCount())
}
