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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ensemble/core"
)

// Expression tags
const (
	tagLeaf = iota
	tagNode
)

// maxDepth bounds expression nesting accepted by UnmarshalExpression.
const maxDepth = 1024

// MarshalExpression serializes an Expression to bytes.
func MarshalExpression(e core.Expression) []byte {
	buf := make([]byte, sizeExpression(e))
	marshalExpression(e, buf)
	return buf
}

// UnmarshalExpression deserializes an Expression from bytes.
func UnmarshalExpression(data []byte) (core.Expression, error) {
	e, _, err := unmarshalExpression(data, 0)
	return e, err
}

// MarshalScoredExpression serializes a ScoredExpression to bytes.
// The key is not stored; it is the rendering of the expression.
func MarshalScoredExpression(s *core.ScoredExpression) []byte {
	buf := make([]byte, sizeScored(s))
	marshalScored(s, buf)
	return buf
}

// UnmarshalScoredExpression deserializes a ScoredExpression from bytes.
// The expression is canonicalized and the key recomputed.
func UnmarshalScoredExpression(data []byte) (*core.ScoredExpression, error) {
	s, _, err := unmarshalScored(data)
	return s, err
}

// MarshalCheckpoint serializes a TierCheckpoint to bytes.
func MarshalCheckpoint(c *core.TierCheckpoint) []byte {
	size := varint.Uint64.Size(uint64(c.RunID)) +
		varint.PositiveInt.Size(c.Order) +
		varint.Int64.Size(c.UpdatedAt.UnixMicro()) +
		varint.PositiveInt.Size(len(c.Entries))
	for _, entry := range c.Entries {
		size += sizeScored(entry)
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(c.RunID), buf)
	n += varint.PositiveInt.Marshal(c.Order, buf[n:])
	n += varint.Int64.Marshal(c.UpdatedAt.UnixMicro(), buf[n:])
	n += varint.PositiveInt.Marshal(len(c.Entries), buf[n:])
	for _, entry := range c.Entries {
		n += marshalScored(entry, buf[n:])
	}
	return buf
}

// UnmarshalCheckpoint deserializes a TierCheckpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.TierCheckpoint, error) {
	runID, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, wrapDecode(err)
	}
	order, m, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode(err)
	}
	n += m
	micros, m, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode(err)
	}
	n += m
	count, m, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return nil, wrapDecode(err)
	}
	n += m
	if count < 0 || count > len(data)-n {
		return nil, fmt.Errorf("%w: entry count %d", ErrTruncatedData, count)
	}

	checkpoint := &core.TierCheckpoint{
		RunID:     core.ID(runID),
		Order:     order,
		UpdatedAt: time.UnixMicro(micros).UTC(),
		Entries:   make([]*core.ScoredExpression, 0, count),
	}
	for i := 0; i < count; i++ {
		entry, m, err := unmarshalScored(data[n:])
		if err != nil {
			return nil, err
		}
		n += m
		checkpoint.Entries = append(checkpoint.Entries, entry)
	}
	return checkpoint, nil
}

func sizeExpression(e core.Expression) int {
	switch v := e.(type) {
	case *core.Leaf:
		return varint.PositiveInt.Size(tagLeaf) + ord.String.Size(v.Name())
	case *core.Node:
		size := varint.PositiveInt.Size(tagNode) +
			ord.String.Size(v.Operator().Symbol) +
			varint.PositiveInt.Size(v.Len())
		for i := 0; i < v.Len(); i++ {
			size += sizeExpression(v.Child(i))
		}
		return size
	}
	panic(fmt.Sprintf("storage: unexpected expression type %T", e))
}

func marshalExpression(e core.Expression, bs []byte) int {
	switch v := e.(type) {
	case *core.Leaf:
		n := varint.PositiveInt.Marshal(tagLeaf, bs)
		return n + ord.String.Marshal(v.Name(), bs[n:])
	case *core.Node:
		n := varint.PositiveInt.Marshal(tagNode, bs)
		n += ord.String.Marshal(v.Operator().Symbol, bs[n:])
		n += varint.PositiveInt.Marshal(v.Len(), bs[n:])
		for i := 0; i < v.Len(); i++ {
			n += marshalExpression(v.Child(i), bs[n:])
		}
		return n
	}
	panic(fmt.Sprintf("storage: unexpected expression type %T", e))
}

func unmarshalExpression(bs []byte, depth int) (core.Expression, int, error) {
	if depth > maxDepth {
		return nil, 0, fmt.Errorf("%w: expression nested deeper than %d", ErrSerializationFailed, maxDepth)
	}
	tag, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, 0, wrapDecode(err)
	}
	switch tag {
	case tagLeaf:
		name, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, 0, wrapDecode(err)
		}
		leaf, err := core.NewLeaf(name)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		return leaf, n + m, nil
	case tagNode:
		symbol, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, 0, wrapDecode(err)
		}
		n += m
		op, err := core.LookupOperator(symbol)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		count, m, err := varint.PositiveInt.Unmarshal(bs[n:])
		if err != nil {
			return nil, 0, wrapDecode(err)
		}
		n += m
		if count < 0 || count > len(bs)-n {
			return nil, 0, fmt.Errorf("%w: operand count %d", ErrTruncatedData, count)
		}
		children := make([]core.Expression, count)
		for i := range children {
			child, m, err := unmarshalExpression(bs[n:], depth+1)
			if err != nil {
				return nil, 0, err
			}
			n += m
			children[i] = child
		}
		node, err := core.NewNode(op, children...)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
		return node, n, nil
	}
	return nil, 0, fmt.Errorf("%w: unknown expression tag %d", ErrSerializationFailed, tag)
}

func sizeScored(s *core.ScoredExpression) int {
	return sizeExpression(s.Expression) + raw.Float64.Size(s.Score)
}

func marshalScored(s *core.ScoredExpression, bs []byte) int {
	n := marshalExpression(s.Expression, bs)
	return n + raw.Float64.Marshal(s.Score, bs[n:])
}

func unmarshalScored(bs []byte) (*core.ScoredExpression, int, error) {
	e, n, err := unmarshalExpression(bs, 0)
	if err != nil {
		return nil, 0, err
	}
	score, m, err := raw.Float64.Unmarshal(bs[n:])
	if err != nil {
		return nil, 0, wrapDecode(err)
	}
	scored, err := core.NewScoredExpression(e, score)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return scored, n + m, nil
}

func wrapDecode(err error) error {
	return fmt.Errorf("%w: %w: %w", ErrSerializationFailed, ErrTruncatedData, err)
}
