package core

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ScoredExpression is a canonical expression together with the score the
// oracle assigned to it.
type ScoredExpression struct {
	Expression Expression // canonical form
	Key        string     // canonical key, equal to Expression.String()
	Score      float64
}

// NewScoredExpression canonicalizes e and attaches score.
func NewScoredExpression(e Expression, score float64) (*ScoredExpression, error) {
	canonical, err := Canonicalize(e)
	if err != nil {
		return nil, err
	}
	return &ScoredExpression{
		Expression: canonical,
		Key:        canonical.String(),
		Score:      score,
	}, nil
}

// ID returns the content ID of the canonical key.
func (s *ScoredExpression) ID() ID {
	return IDFromContent(s.Key)
}

// Order returns the size of the expression in leaf occurrences.
func (s *ScoredExpression) Order() int {
	return s.Expression.Size()
}

// String returns "expression<TAB>score".
func (s *ScoredExpression) String() string {
	return s.Key + "\t" + strconv.FormatFloat(s.Score, 'g', -1, 64)
}

// CompareScored orders by score descending, then canonical key ascending.
// It is the ranking order used for reporting.
func CompareScored(a, b *ScoredExpression) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	}
	return 0
}

// FailedScore is the score substituted for an oracle failure. No candidate
// with this score can pass an improvement gate.
var FailedScore = math.Inf(-1)

// TierCheckpoint records the accepted entries of one completed tier of a
// search run so the run can be resumed.
type TierCheckpoint struct {
	RunID     ID
	Order     int
	Entries   []*ScoredExpression
	UpdatedAt time.Time
}
