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


package ensemble

import (
	"log/slog"

	"github.com/poiesic/ensemble/oracle"
	"github.com/poiesic/ensemble/oracle/openai"
	"github.com/poiesic/ensemble/search"
	"github.com/poiesic/ensemble/storage"
	"github.com/poiesic/ensemble/storage/badger"
)

// Database bundles the on-disk score cache and tier checkpoints with the
// searchers that use them.
type Database struct {
	backend        *badger.Backend
	scoreRepo      storage.ScoreRepository
	checkpointRepo storage.CheckpointRepository
	judgeConfig    *oracle.Config
	memoize        bool
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	judgeConfig *oracle.Config
	memoize     bool
	inMemory    bool
}

// WithJudgeConfig sets the configuration used by NewJudge.
func WithJudgeConfig(cfg *oracle.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.judgeConfig = cfg
	}
}

// WithScoreMemoization makes searchers created by the database reuse
// stored scores by canonical key. Only enable it for deterministic scorers.
func WithScoreMemoization(enabled bool) DatabaseOption {
	return func(o *databaseOptions) {
		o.memoize = enabled
	}
}

// WithInMemory keeps all data in memory; filePath is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens or creates a database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		judgeConfig: oracle.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}
	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Database{
		backend:        backend,
		scoreRepo:      badger.NewScoreRepository(backend),
		checkpointRepo: badger.NewCheckpointRepository(backend),
		judgeConfig:    options.judgeConfig,
		memoize:        options.memoize,
		logger:         slog.Default().With("component", "database"),
	}, nil
}

// Close closes the repositories and the backend.
func (db *Database) Close() error {
	// Close repositories
	if err := db.checkpointRepo.Close(); err != nil {
		db.logger.Error("error closing checkpoint repository", "err", err)
		return err
	}
	if err := db.scoreRepo.Close(); err != nil {
		db.logger.Error("error closing score repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ScoreRepository() storage.ScoreRepository {
	return db.scoreRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// NewJudge creates an LLM judge from the database's judge configuration.
func (db *Database) NewJudge() (oracle.Scorer, error) {
	return openai.NewJudge(db.judgeConfig)
}

// NewSearcher creates a searcher that checkpoints every tier and, when
// memoization is enabled, caches scores. opts are applied last.
func (db *Database) NewSearcher(scorer oracle.Scorer, opts ...search.Option) (*search.Searcher, error) {
	defaults := []search.Option{search.WithCheckpoints(db.checkpointRepo)}
	if db.memoize {
		defaults = append(defaults, search.WithScoreCache(db.scoreRepo))
	}
	return search.NewSearcher(scorer, append(defaults, opts...)...)
}
