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


package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/ensemble/core"
)

// Config holds the parameters of a single tiered search.
type Config struct {
	// Names are the atomic component identifiers. Order is irrelevant to the
	// result; duplicates are a configuration error.
	Names []string

	// BinaryOperators are combined pairwise at every tier.
	// Default: AND, OR, XOR
	BinaryOperators []*core.Operator

	// UnaryOperators are applied once to every accepted expression of a tier.
	// Default: none
	UnaryOperators []*core.Operator

	// MaxOrder is the largest tier built. Zero means len(Names).
	MaxOrder int

	// MinimumIncrease is the margin a combination must beat its operands by.
	// May be negative.
	// Default: 0
	MinimumIncrease float64

	// NoOverlap rejects combinations whose operands share a leaf.
	// A tier's order counts leaf occurrences, so with overlap allowed
	// a&(a|b) belongs to tier 3 although it names only two leaves.
	// Default: true
	NoOverlap bool

	// NumberToRetrieve bounds the ranking returned by Result.Ranking.
	// Zero or negative means all.
	// Default: 10
	NumberToRetrieve int

	// MultiwayMerge enables n-ary merges of three or more tier members under
	// an associative operator, driven by integer partitions of the tier size.
	// Default: false
	MultiwayMerge bool

	// Resume restores saved tiers of an identical earlier run before
	// searching. Requires a checkpoint repository on the Searcher.
	// Default: false
	Resume bool
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithNames sets the atomic component names.
func WithNames(names ...string) ConfigOption {
	return func(c *Config) {
		c.Names = slices.Clone(names)
	}
}

// WithBinaryOperators replaces the binary operator set.
func WithBinaryOperators(ops ...*core.Operator) ConfigOption {
	return func(c *Config) {
		c.BinaryOperators = slices.Clone(ops)
	}
}

// WithUnaryOperators replaces the unary operator set.
func WithUnaryOperators(ops ...*core.Operator) ConfigOption {
	return func(c *Config) {
		c.UnaryOperators = slices.Clone(ops)
	}
}

// WithOperators splits ops by arity into the binary and unary sets.
func WithOperators(ops ...*core.Operator) ConfigOption {
	return func(c *Config) {
		c.BinaryOperators = nil
		c.UnaryOperators = nil
		for _, op := range ops {
			if op != nil && op.IsUnary() {
				c.UnaryOperators = append(c.UnaryOperators, op)
			} else {
				c.BinaryOperators = append(c.BinaryOperators, op)
			}
		}
	}
}

// WithMaxOrder sets the largest tier built.
func WithMaxOrder(order int) ConfigOption {
	return func(c *Config) {
		c.MaxOrder = order
	}
}

// WithMinimumIncrease sets the improvement margin.
func WithMinimumIncrease(margin float64) ConfigOption {
	return func(c *Config) {
		c.MinimumIncrease = margin
	}
}

// WithNoOverlap toggles the leaf-disjointness filter.
func WithNoOverlap(enabled bool) ConfigOption {
	return func(c *Config) {
		c.NoOverlap = enabled
	}
}

// WithNumberToRetrieve sets the ranking length. Zero or negative means all.
func WithNumberToRetrieve(n int) ConfigOption {
	return func(c *Config) {
		c.NumberToRetrieve = n
	}
}

// WithMultiwayMerge toggles n-ary merges.
func WithMultiwayMerge(enabled bool) ConfigOption {
	return func(c *Config) {
		c.MultiwayMerge = enabled
	}
}

// WithResume toggles restoring saved tiers.
func WithResume(enabled bool) ConfigOption {
	return func(c *Config) {
		c.Resume = enabled
	}
}

// DefaultConfig returns a Config with the default search parameters and no names.
func DefaultConfig() *Config {
	return &Config{
		BinaryOperators:  core.BinaryOperators(),
		NoOverlap:        true,
		NumberToRetrieve: 10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithNames("a", "b", "c"),
//	    WithOperators(core.And, core.Or, core.Not),
//	    WithMinimumIncrease(0.5),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize fills in MaxOrder and drops repeated operators, keeping the
// first occurrence of each.
func (c *Config) Normalize() {
	if c.MaxOrder == 0 {
		c.MaxOrder = len(c.Names)
	}
	c.BinaryOperators = uniqueOperators(c.BinaryOperators)
	c.UnaryOperators = uniqueOperators(c.UnaryOperators)
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation. Every error wraps
// ErrInvalidConfig.
func (c *Config) Validate() error {
	c.Normalize()

	if len(c.Names) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrNoNames)
	}
	if err := core.ValidateNames(c.Names); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxOrder < 1 || c.MaxOrder > len(c.Names) {
		return fmt.Errorf("%w: %w: %d not in [1, %d]", ErrInvalidConfig, ErrMaxOrderOutOfRange, c.MaxOrder, len(c.Names))
	}
	if c.MaxOrder > 1 && len(c.BinaryOperators) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrNoBinaryOperators)
	}
	for _, op := range c.BinaryOperators {
		if op == nil || !op.IsBinary() {
			return fmt.Errorf("%w: %w: %v is not binary", ErrInvalidConfig, ErrOperatorArity, op)
		}
	}
	for _, op := range c.UnaryOperators {
		if op == nil || !op.IsUnary() {
			return fmt.Errorf("%w: %w: %v is not unary", ErrInvalidConfig, ErrOperatorArity, op)
		}
	}
	return nil
}

// Fingerprint renders every parameter that influences which expressions are
// accepted. Names and operators are sorted, so permuted configurations share
// a fingerprint. MaxOrder is excluded because tier k never depends on it,
// which lets a resumed run extend an earlier one. NumberToRetrieve and
// Resume are excluded as well.
func (c *Config) Fingerprint() string {
	names := slices.Sorted(slices.Values(c.Names))
	var sb strings.Builder
	sb.WriteString("names=")
	sb.WriteString(strings.Join(names, ","))
	sb.WriteString(";binary=")
	sb.WriteString(operatorSymbols(c.BinaryOperators))
	sb.WriteString(";unary=")
	sb.WriteString(operatorSymbols(c.UnaryOperators))
	sb.WriteString(";minIncrease=")
	sb.WriteString(strconv.FormatFloat(c.MinimumIncrease, 'g', -1, 64))
	sb.WriteString(";noOverlap=")
	sb.WriteString(strconv.FormatBool(c.NoOverlap))
	sb.WriteString(";multiway=")
	sb.WriteString(strconv.FormatBool(c.MultiwayMerge))
	return sb.String()
}

// RunID returns the checkpoint run identifier of the configuration.
func (c *Config) RunID() core.ID {
	return core.IDFromContent(c.Fingerprint())
}

func uniqueOperators(ops []*core.Operator) []*core.Operator {
	if len(ops) == 0 {
		return ops
	}
	out := make([]*core.Operator, 0, len(ops))
	for _, op := range ops {
		if !slices.Contains(out, op) {
			out = append(out, op)
		}
	}
	return out
}

func operatorSymbols(ops []*core.Operator) string {
	symbols := make([]string, 0, len(ops))
	for _, op := range ops {
		if op != nil {
			symbols = append(symbols, op.Symbol)
		}
	}
	slices.Sort(symbols)
	return strings.Join(symbols, "")
}
