package ensemble

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/poiesic/ensemble/oracle/mock"
	"github.com/poiesic/ensemble/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.ScoreRepository())
		assert.NotNil(t, db.CheckpointRepository())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory())
		require.NoError(t, err)
		defer db.Close()
		assert.NotNil(t, db.ScoreRepository())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, db)

	// Close the database
	err = db.Close()
	assert.NoError(t, err)
	assert.True(t, db.backend.IsClosed())
}

func TestDatabase_FactoryMethods(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir, WithJudgeConfig(oracle.NewConfig(oracle.WithModel("test-model"))))
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create judge", func(t *testing.T) {
		judge, err := db.NewJudge()
		require.NoError(t, err)
		require.NotNil(t, judge)
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := db.NewSearcher(mock.LeafCountScorer{})
		require.NoError(t, err)
		require.NotNil(t, searcher)
		searcher.Release()
	})

	t.Run("searcher requires a scorer", func(t *testing.T) {
		_, err := db.NewSearcher(nil)
		assert.ErrorIs(t, err, search.ErrScorerRequired)
	})
}

func TestDatabase_SearchPersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := search.NewConfig(search.WithNames("a", "b", "c"), search.WithBinaryOperators(core.And, core.Or))

	db, err := NewDatabase(dir, WithScoreMemoization(true))
	require.NoError(t, err)
	searcher, err := db.NewSearcher(mock.LeafCountScorer{})
	require.NoError(t, err)
	want, err := searcher.Search(ctx, cfg)
	require.NoError(t, err)
	searcher.Release()
	require.NoError(t, db.Close())

	// Reopen: every score is memoized and every tier checkpointed.
	db, err = NewDatabase(dir, WithScoreMemoization(true))
	require.NoError(t, err)
	defer db.Close()

	count, err := db.ScoreRepository().CountScores(ctx)
	require.NoError(t, err)
	assert.Positive(t, count)

	saved, err := db.CheckpointRepository().LoadTiers(ctx, cfg.RunID())
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	scorer := mock.NewMockScorer(nil)
	searcher, err = db.NewSearcher(scorer)
	require.NoError(t, err)
	defer searcher.Release()
	got, err := searcher.Search(ctx, search.NewConfig(search.WithNames("a", "b", "c"), search.WithBinaryOperators(core.And, core.Or)))
	require.NoError(t, err)

	assert.Zero(t, scorer.CallCount())
	assert.Equal(t, len(want.All()), len(got.All()))
}
