package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/poiesic/ensemble/storage"
)

// Searcher builds tiers of scored ensembles of increasing size.
// A Searcher may run several searches concurrently; each search owns its tiers.
type Searcher struct {
	scorer      oracle.Scorer
	pool        *ants.Pool
	scores      storage.ScoreRepository
	checkpoints storage.CheckpointRepository
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		if s.pool != nil {
			s.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		s.pool = pool
		return nil
	}
}

// WithScoreCache memoizes finite oracle scores by canonical key in repo.
// Memoized scores are reused across searches, so only deterministic
// scorers should be cached.
func WithScoreCache(repo storage.ScoreRepository) Option {
	return func(s *Searcher) error {
		s.scores = repo
		return nil
	}
}

// WithCheckpoints saves every completed tier to repo so that a search with
// Config.Resume can continue where an identical earlier run stopped.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(s *Searcher) error {
		s.checkpoints = repo
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(scorer oracle.Scorer, opts ...Option) (*Searcher, error) {
	if scorer == nil {
		return nil, ErrScorerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		scorer: scorer,
		pool:   pool,
		logger: slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			s.Release()
			return nil, optErr
		}
	}

	s.logger = s.logger.With("component", "searcher")
	return s, nil
}

// Release stops the worker pool. The Searcher must not be used afterwards.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// Search validates cfg and builds tiers 1..cfg.MaxOrder.
//
// Configuration errors are returned before any scoring. If ctx is cancelled
// the tiers completed so far are returned together with ctx.Err(). A
// canonicalization failure aborts the search the same way.
func (s *Searcher) Search(ctx context.Context, cfg *Config) (*Result, error) {
	return s.SearchWithMonitor(ctx, cfg, nil)
}

// SearchWithMonitor is Search with monitoring.
// The monitor receives callbacks for every tier and candidate.
func (s *Searcher) SearchWithMonitor(ctx context.Context, cfg *Config, monitor SearchMonitor) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, ErrNoNames)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	r := &run{
		searcher: s,
		cfg:      cfg,
		runID:    cfg.RunID(),
		monitor:  monitor,
		logger:   s.logger.With("run", uint64(cfg.RunID())),
	}
	monitor.Start(cfg)

	err := r.execute(ctx)
	result := r.result()
	monitor.Finish(result)
	if err != nil {
		return result, err
	}

	r.logger.Info("search complete", "tiers", len(result.Tiers), "accepted", result.Len())
	return result, nil
}

// run holds the state of a single search.
type run struct {
	searcher *Searcher
	cfg      *Config
	runID    core.ID
	monitor  SearchMonitor
	logger   *slog.Logger
	tiers    []*Tier // tiers[k-1] is the completed tier of order k
}

func (r *run) execute(ctx context.Context) error {
	start := r.restore(ctx) + 1

	for order := start; order <= r.cfg.MaxOrder; order++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tier, err := r.buildTier(ctx, order)
		if err != nil {
			return err
		}
		r.tiers = append(r.tiers, tier)
		r.monitor.EndTier(order, tier.Len())
		r.logger.Info("tier complete", "order", order, "accepted", tier.Len())
		r.save(ctx, tier)
	}
	return nil
}

func (r *run) result() *Result {
	return &Result{
		Tiers:            r.tiers,
		NumberToRetrieve: r.cfg.NumberToRetrieve,
	}
}

// tier returns the completed tier of the given order.
func (r *run) tier(order int) *Tier {
	return r.tiers[order-1]
}

// buildTier builds one tier: leaves for order 1, binary and multiway
// combinations otherwise, then the unary step.
func (r *run) buildTier(ctx context.Context, order int) (*Tier, error) {
	tier := newTier(order)
	board := newScoreBoard(r)

	var candidates []candidate
	if order == 1 {
		candidates = r.leafCandidates()
	} else {
		candidates = r.binaryCandidates(order)
		if r.cfg.MultiwayMerge {
			candidates = append(candidates, r.multiwayCandidates(order)...)
		}
	}
	r.monitor.BeginTier(order, len(candidates))
	if err := r.evaluateAll(ctx, tier, board, candidates); err != nil {
		return nil, err
	}

	if len(r.cfg.UnaryOperators) > 0 {
		unary := r.unaryCandidates(tier)
		r.monitor.BeginUnary(order, len(unary))
		if err := r.evaluateAll(ctx, tier, board, unary); err != nil {
			return nil, err
		}
	}
	return tier, nil
}

// candidate is an expression waiting to be canonicalized, scored and gated.
// A leaf candidate has no operator and no operands and is accepted
// whenever its score is finite.
type candidate struct {
	leaf     *core.Leaf
	op       *core.Operator
	operands []*core.ScoredExpression
}

func (c candidate) expression() (core.Expression, error) {
	if c.leaf != nil {
		return c.leaf, nil
	}
	children := make([]core.Expression, len(c.operands))
	for i, operand := range c.operands {
		children[i] = operand.Expression
	}
	return core.NewNode(c.op, children...)
}

// threshold returns the score the candidate must exceed. For a unary
// candidate this is the un-negated expression's own score.
func (c candidate) threshold(margin float64) float64 {
	best := c.operands[0].Score
	for _, operand := range c.operands[1:] {
		best = max(best, operand.Score)
	}
	return best + margin
}

func (r *run) leafCandidates() []candidate {
	candidates := make([]candidate, 0, len(r.cfg.Names))
	for _, name := range r.cfg.Names {
		// Names were validated with the config.
		leaf, _ := core.NewLeaf(name)
		candidates = append(candidates, candidate{leaf: leaf})
	}
	return candidates
}

// binaryCandidates pairs members of tiers i and j for every split
// order = i + j with i <= j. Equal splits use unordered pairs of distinct
// members.
func (r *run) binaryCandidates(order int) []candidate {
	var candidates []candidate
	for i := 1; i <= order/2; i++ {
		j := order - i
		left := r.tier(i).Entries()
		right := r.tier(j).Entries()
		for a, l := range left {
			from := 0
			if i == j {
				from = a + 1
			}
			for _, rt := range right[from:] {
				if r.cfg.NoOverlap && core.Overlaps(l.Expression, rt.Expression) {
					continue
				}
				for _, op := range r.cfg.BinaryOperators {
					candidates = append(candidates, candidate{
						op:       op,
						operands: []*core.ScoredExpression{l, rt},
					})
				}
			}
		}
	}
	return candidates
}

// unaryCandidates applies every unary operator to the entries accepted so
// far, skipping expressions that are already negations.
func (r *run) unaryCandidates(tier *Tier) []candidate {
	var candidates []candidate
	for _, entry := range tier.Entries() {
		if core.IsNegation(entry.Expression) {
			continue
		}
		for _, op := range r.cfg.UnaryOperators {
			candidates = append(candidates, candidate{
				op:       op,
				operands: []*core.ScoredExpression{entry},
			})
		}
	}
	return candidates
}

// evaluateAll runs candidates on the worker pool and waits for all of them.
// It returns the first canonicalization error, or ctx.Err() if the context
// was cancelled while the tier was being built.
func (r *run) evaluateAll(ctx context.Context, tier *Tier, board *scoreBoard, candidates []candidate) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := r.searcher.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			if err := r.evaluate(ctx, tier, board, c); err != nil {
				fail(err)
			}
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// evaluate canonicalizes, deduplicates, scores and gates one candidate.
func (r *run) evaluate(ctx context.Context, tier *Tier, board *scoreBoard, c candidate) error {
	e, err := c.expression()
	if err != nil {
		return err
	}
	canonical, err := core.Canonicalize(e)
	if err != nil {
		r.logger.Error("canonicalization failed", "expr", e.String(), "err", err)
		return err
	}
	key := canonical.String()
	order := tier.Order()

	if tier.Contains(key) {
		r.monitor.Rejected(order, key, 0, ReasonDuplicate)
		return nil
	}

	score := board.score(ctx, canonical, key)
	if !core.IsFiniteScore(score) {
		r.monitor.Rejected(order, key, score, ReasonOracleFailure)
		return nil
	}
	if c.leaf == nil && !(score > c.threshold(r.cfg.MinimumIncrease)) {
		r.monitor.Rejected(order, key, score, ReasonBelowThreshold)
		return nil
	}

	entry := &core.ScoredExpression{Expression: canonical, Key: key, Score: score}
	if !tier.tryInsert(entry) {
		r.monitor.Rejected(order, key, score, ReasonDuplicate)
		return nil
	}
	r.logger.Debug("accepted", "order", order, "key", key, "score", score)
	r.monitor.Accepted(order, entry)
	return nil
}

// restore loads the longest contiguous prefix of saved tiers when resuming
// and returns the highest restored order. Without Resume, stale checkpoints
// of the run are removed.
func (r *run) restore(ctx context.Context) int {
	repo := r.searcher.checkpoints
	if repo == nil {
		if r.cfg.Resume {
			r.logger.Warn("resume requested without a checkpoint repository")
		}
		return 0
	}
	if !r.cfg.Resume {
		if err := repo.DeleteRun(ctx, r.runID); err != nil {
			r.logger.Warn("error removing stale checkpoints", "err", err)
		}
		return 0
	}

	saved, err := repo.LoadTiers(ctx, r.runID)
	if err != nil {
		r.logger.Warn("error loading checkpoints, starting from scratch", "err", err)
		return 0
	}
	for _, checkpoint := range saved {
		order := len(r.tiers) + 1
		if checkpoint.Order != order || order > r.cfg.MaxOrder {
			break
		}
		tier := newTier(order)
		for _, entry := range checkpoint.Entries {
			tier.tryInsert(entry)
		}
		r.tiers = append(r.tiers, tier)
		r.monitor.EndTier(order, tier.Len())
	}
	if len(r.tiers) > 0 {
		r.logger.Info("resumed from checkpoint", "tiers", len(r.tiers))
	}
	return len(r.tiers)
}

// save checkpoints a completed tier. Failures are logged; the search
// continues without the checkpoint.
func (r *run) save(ctx context.Context, tier *Tier) {
	repo := r.searcher.checkpoints
	if repo == nil {
		return
	}
	checkpoint := &core.TierCheckpoint{
		RunID:   r.runID,
		Order:   tier.Order(),
		Entries: tier.Entries(),
	}
	if err := repo.SaveTier(ctx, checkpoint); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("error saving checkpoint", "order", tier.Order(), "err", err)
	}
}
