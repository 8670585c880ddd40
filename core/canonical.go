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


package core

import (
	"fmt"
	"slices"
	"strings"
)

// MaxRewritePasses bounds the number of full rewrite passes Canonicalize
// performs before giving up with ErrRewriteDiverged. A well-formed input
// reaches its fixed point on the first pass and is confirmed on the second.
const MaxRewritePasses = 16

// Canonicalize rewrites e into its normal form under the identity set:
//
//   - double negation: ~~x = x
//   - De Morgan: ~(a&b) = ~a|~b and ~(a|b) = ~a&~b
//   - XOR/NOT cancellation: ~a^~b = a^b, for any operands a and b
//   - associative flattening: (a&b)&c = a&b&c
//   - commutative ordering: children sorted by their canonical rendering
//
// Children are rewritten before their parent and the whole pass is repeated
// until the rendering stops changing. The rendering of the result is the
// canonical key of e.
func Canonicalize(e Expression) (Expression, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrInvalidExpression)
	}
	current := e
	for pass := 0; pass < MaxRewritePasses; pass++ {
		next := rewrite(current)
		if next.String() == current.String() {
			return next, nil
		}
		current = next
	}
	return nil, fmt.Errorf("%w: %s after %d passes", ErrRewriteDiverged, e, MaxRewritePasses)
}

// Key returns the canonical key of e.
func Key(e Expression) (string, error) {
	canonical, err := Canonicalize(e)
	if err != nil {
		return "", err
	}
	return canonical.String(), nil
}

// Equivalent reports whether a and b have the same canonical key.
func Equivalent(a, b Expression) (bool, error) {
	ka, err := Key(a)
	if err != nil {
		return false, err
	}
	kb, err := Key(b)
	if err != nil {
		return false, err
	}
	return ka == kb, nil
}

func rewrite(e Expression) Expression {
	node, ok := e.(*Node)
	if !ok {
		return e
	}
	children := make([]Expression, len(node.children))
	for i, child := range node.children {
		children[i] = rewrite(child)
	}
	return rewriteNode(node.op, children)
}

// rewriteNode applies the node-level rules. children must already be in
// normal form; the result is in normal form.
func rewriteNode(op *Operator, children []Expression) Expression {
	switch {
	case op == Not:
		return negate(children[0])
	case op.Associative:
		children = flatten(op, children)
	case op == Xor:
		return cancelXor(children[0], children[1])
	}
	if op.Commutative {
		sortByKey(children)
	}
	return newNode(op, children)
}

// cancelXor picks the representative of x^y and ~x^~y: the one with fewer
// Not nodes, then the smaller rendering. negate is an involution on normal
// forms, so both members of the pair pick the same node.
func cancelXor(x, y Expression) Expression {
	plain := []Expression{x, y}
	sortByKey(plain)
	flipped := []Expression{negate(x), negate(y)}
	sortByKey(flipped)

	a, b := newNode(Xor, plain), newNode(Xor, flipped)
	na, nb := countNots(a), countNots(b)
	if nb < na || (nb == na && b.String() < a.String()) {
		return b
	}
	return a
}

func sortByKey(children []Expression) {
	slices.SortFunc(children, func(a, b Expression) int {
		return strings.Compare(a.String(), b.String())
	})
}

func countNots(e Expression) int {
	node, ok := e.(*Node)
	if !ok {
		return 0
	}
	n := 0
	if node.op == Not {
		n++
	}
	for _, child := range node.children {
		n += countNots(child)
	}
	return n
}

// negate returns the normal form of ~e for e in normal form.
func negate(e Expression) Expression {
	node, ok := e.(*Node)
	if !ok {
		return newNode(Not, []Expression{e})
	}
	switch node.op {
	case Not:
		return node.children[0]
	case And, Or:
		negated := make([]Expression, len(node.children))
		for i, child := range node.children {
			negated[i] = negate(child)
		}
		return rewriteNode(dual(node.op), negated)
	}
	return newNode(Not, []Expression{e})
}

func flatten(op *Operator, children []Expression) []Expression {
	flat := make([]Expression, 0, len(children))
	for _, child := range children {
		if node, ok := child.(*Node); ok && node.op == op {
			flat = append(flat, node.children...)
			continue
		}
		flat = append(flat, child)
	}
	return flat
}

func dual(op *Operator) *Operator {
	if op == And {
		return Or
	}
	return And
}
