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
	"strings"
)

// Arity is the number of operands an operator takes when constructed.
type Arity int

const (
	// Unary operators take exactly one operand.
	Unary Arity = iota + 1
	// Binary operators take two operands. Associative binary operators may
	// hold more than two children after canonicalization.
	Binary
)

func (a Arity) String() string {
	switch a {
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("Arity(%d)", int(a))
	}
}

// Operator describes a logical operator and its algebraic properties.
// Operators are compared by pointer; use the predefined values.
type Operator struct {
	Symbol      string // display token used in renderings and keys
	Name        string
	Arity       Arity
	Associative bool
	Commutative bool
}

func (o *Operator) String() string {
	return o.Symbol
}

// IsUnary reports whether o takes a single operand.
func (o *Operator) IsUnary() bool {
	return o.Arity == Unary
}

// IsBinary reports whether o takes two operands.
func (o *Operator) IsBinary() bool {
	return o.Arity == Binary
}

// The operator algebra. The canonicalization rules in canonical.go are
// written against exactly this set.
var (
	And = &Operator{Symbol: "&", Name: "and", Arity: Binary, Associative: true, Commutative: true}
	Or  = &Operator{Symbol: "|", Name: "or", Arity: Binary, Associative: true, Commutative: true}
	Xor = &Operator{Symbol: "^", Name: "xor", Arity: Binary, Commutative: true}
	Not = &Operator{Symbol: "~", Name: "not", Arity: Unary}
)

var registry = []*Operator{And, Or, Xor, Not}

// Operators returns every registered operator in registration order.
func Operators() []*Operator {
	out := make([]*Operator, len(registry))
	copy(out, registry)
	return out
}

// BinaryOperators returns the registered binary operators.
func BinaryOperators() []*Operator {
	return filterOperators(Binary)
}

// UnaryOperators returns the registered unary operators.
func UnaryOperators() []*Operator {
	return filterOperators(Unary)
}

func filterOperators(arity Arity) []*Operator {
	var out []*Operator
	for _, op := range registry {
		if op.Arity == arity {
			out = append(out, op)
		}
	}
	return out
}

// LookupOperator finds an operator by symbol ("&") or name ("and").
// Name lookup is case-insensitive.
func LookupOperator(token string) (*Operator, error) {
	token = strings.TrimSpace(token)
	for _, op := range registry {
		if op.Symbol == token || strings.EqualFold(op.Name, token) {
			return op, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, token)
}

// ParseOperators resolves a list of tokens with LookupOperator.
func ParseOperators(tokens ...string) ([]*Operator, error) {
	ops := make([]*Operator, 0, len(tokens))
	for _, token := range tokens {
		op, err := LookupOperator(token)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func operatorBySymbol(symbol string) *Operator {
	for _, op := range registry {
		if op.Symbol == symbol {
			return op
		}
	}
	return nil
}
