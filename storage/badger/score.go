// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/storage"
)

// ScoreRepository implements storage.ScoreRepository for BadgerDB.
type ScoreRepository struct {
	backend *Backend
}

var _ storage.ScoreRepository = (*ScoreRepository)(nil)

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(backend *Backend) *ScoreRepository {
	return &ScoreRepository{
		backend: backend,
	}
}

// Close releases resources. ScoreRepository has no resources to release.
func (r *ScoreRepository) Close() error {
	return nil
}

// GetScore returns the stored score for a canonical key. Entries are keyed
// by the content ID of the canonical key; the stored expression is compared
// against key so an ID collision reads as a miss.
func (r *ScoreRepository) GetScore(ctx context.Context, key string) (float64, bool, error) {
	var (
		score float64
		found bool
	)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeScoreKey(core.IDFromContent(key)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err := storage.UnmarshalScoredExpression(val)
			if err != nil {
				return err
			}
			if entry.Key != key {
				r.backend.logger.Warn("score cache id collision", "key", key, "stored", entry.Key)
				return nil
			}
			score, found = entry.Score, true
			return nil
		})
	}, false)
	return score, found, err
}

// PutScores stores or replaces scores for canonical expressions.
func (r *ScoreRepository) PutScores(ctx context.Context, entries ...*core.ScoredExpression) error {
	if len(entries) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			if err := tx.Set(makeScoreKey(entry.ID()), storage.MarshalScoredExpression(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteScores removes stored scores by canonical key.
func (r *ScoreRepository) DeleteScores(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(makeScoreKey(core.IDFromContent(key))); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// CountScores returns the number of stored scores.
func (r *ScoreRepository) CountScores(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		count = len(keysWithPrefix(tx, []byte(scorePrefix)))
		return nil
	}, false)
	return count, err
}
