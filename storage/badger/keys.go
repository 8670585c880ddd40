package badger

import (
	"encoding/binary"

	"github.com/poiesic/ensemble/core"
)

// Key prefixes for different data types
const (
	scorePrefix      = "score:"
	checkpointPrefix = "tier:"
)

// makeScoreKey generates a key for a memoized score by canonical key ID.
// Format: prefix:id
func makeScoreKey(id core.ID) []byte {
	buf := make([]byte, len(scorePrefix)+8)
	offset := copy(buf, scorePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeCheckpointKey generates a composite key for a tier checkpoint.
// Format: prefix:runID:order
func makeCheckpointKey(runID core.ID, order int) []byte {
	buf := make([]byte, len(checkpointPrefix)+16)
	offset := copy(buf, checkpointPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(runID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(order))
	return buf
}

// makePartialCheckpointKey generates a partial key for all tiers of a run.
// Format: prefix:runID
func makePartialCheckpointKey(runID core.ID) []byte {
	buf := make([]byte, len(checkpointPrefix)+8)
	offset := copy(buf, checkpointPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(runID))
	return buf
}
