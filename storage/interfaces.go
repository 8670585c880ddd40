package storage

import (
	"context"

	"github.com/poiesic/ensemble/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// ScoreRepository memoizes oracle scores by canonical key.
// It is consulted only when a caller opts into memoization.
type ScoreRepository interface {
	Repository

	// GetScore returns the stored score for a canonical key.
	// The boolean is false when no score is stored.
	GetScore(ctx context.Context, key string) (float64, bool, error)

	// PutScores stores or replaces scores for canonical expressions.
	PutScores(ctx context.Context, entries ...*core.ScoredExpression) error

	// DeleteScores removes stored scores by canonical key.
	// Keys without a stored score are ignored.
	DeleteScores(ctx context.Context, keys ...string) error

	// CountScores returns the number of stored scores.
	CountScores(ctx context.Context) (int, error)
}

// CheckpointRepository persists completed tiers of a search run.
type CheckpointRepository interface {
	Repository

	// SaveTier persists a completed tier, replacing any previous checkpoint
	// for the same run and order. Sets UpdatedAt.
	SaveTier(ctx context.Context, checkpoint *core.TierCheckpoint) error

	// LoadTiers returns every checkpoint saved for runID ordered by tier order.
	// Returns an empty slice if the run has no checkpoints.
	LoadTiers(ctx context.Context, runID core.ID) ([]*core.TierCheckpoint, error)

	// DeleteRun removes every checkpoint saved for runID.
	DeleteRun(ctx context.Context, runID core.ID) error
}
