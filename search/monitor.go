package search

import (
	"github.com/poiesic/ensemble/core"
)

// RejectReason explains why a candidate was not accepted into a tier.
type RejectReason int

const (
	// ReasonDuplicate means the canonical key was already accepted.
	ReasonDuplicate RejectReason = iota
	// ReasonBelowThreshold means the score did not beat the improvement gate.
	ReasonBelowThreshold
	// ReasonOracleFailure means the scorer failed or returned a non-finite score.
	ReasonOracleFailure
)

func (r RejectReason) String() string {
	switch r {
	case ReasonDuplicate:
		return "duplicate"
	case ReasonBelowThreshold:
		return "below-threshold"
	case ReasonOracleFailure:
		return "oracle-failure"
	}
	return "unknown"
}

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track tiers and candidates during search.
// BeginTier announces the leaf, binary and multiway candidates of a tier;
// BeginUnary announces the unary candidates built from its accepted entries.
// Accepted and Rejected are called concurrently from worker goroutines.
type SearchMonitor interface {
	Start(cfg *Config)
	BeginTier(order int, candidates int)
	BeginUnary(order int, candidates int)
	Accepted(order int, entry *core.ScoredExpression)
	Rejected(order int, key string, score float64, reason RejectReason)
	EndTier(order int, accepted int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *Config)                                  {}
func (n *noopMonitor) BeginTier(_ int, _ int)                           {}
func (n *noopMonitor) BeginUnary(_ int, _ int)                          {}
func (n *noopMonitor) Accepted(_ int, _ *core.ScoredExpression)         {}
func (n *noopMonitor) Rejected(_ int, _ string, _ float64, _ RejectReason) {}
func (n *noopMonitor) EndTier(_ int, _ int)                             {}
func (n *noopMonitor) Finish(_ *Result)                                 {}
