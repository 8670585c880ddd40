package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/storage"
)

// CheckpointRepository implements storage.CheckpointRepository for BadgerDB.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository.
func NewCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{
		backend: backend,
	}
}

// Close releases resources. CheckpointRepository has no resources to release.
func (r *CheckpointRepository) Close() error {
	return nil
}

// SaveTier persists a completed tier of a run.
func (r *CheckpointRepository) SaveTier(ctx context.Context, checkpoint *core.TierCheckpoint) error {
	if checkpoint.Order < 1 {
		return storage.ErrInvalidQuery
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		checkpoint.UpdatedAt = time.Now().UTC()
		key := makeCheckpointKey(checkpoint.RunID, checkpoint.Order)
		if err := tx.Set(key, storage.MarshalCheckpoint(checkpoint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadTiers returns every checkpoint saved for runID ordered by tier order.
func (r *CheckpointRepository) LoadTiers(ctx context.Context, runID core.ID) ([]*core.TierCheckpoint, error) {
	checkpoints := []*core.TierCheckpoint{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialCheckpointKey(runID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				checkpoint, err := storage.UnmarshalCheckpoint(val)
				if err != nil {
					return err
				}
				checkpoints = append(checkpoints, checkpoint)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return checkpoints, nil
}

// DeleteRun removes every checkpoint saved for runID.
func (r *CheckpointRepository) DeleteRun(ctx context.Context, runID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keysWithPrefix(tx, makePartialCheckpointKey(runID)) {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
