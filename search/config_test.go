package search

import (
	"testing"

	"github.com/poiesic/ensemble/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []*core.Operator{core.And, core.Or, core.Xor}, cfg.BinaryOperators)
	assert.Empty(t, cfg.UnaryOperators)
	assert.True(t, cfg.NoOverlap)
	assert.Equal(t, 10, cfg.NumberToRetrieve)
	assert.Zero(t, cfg.MinimumIncrease)
	assert.False(t, cfg.MultiwayMerge)
	assert.False(t, cfg.Resume)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithNames("x", "y", "z"),
		WithOperators(core.Or, core.Not, core.And),
		WithMaxOrder(2),
		WithMinimumIncrease(0.25),
		WithNoOverlap(false),
		WithNumberToRetrieve(0),
		WithMultiwayMerge(true),
		WithResume(true),
	)

	assert.Equal(t, []string{"x", "y", "z"}, cfg.Names)
	assert.Equal(t, []*core.Operator{core.Or, core.And}, cfg.BinaryOperators)
	assert.Equal(t, []*core.Operator{core.Not}, cfg.UnaryOperators)
	assert.Equal(t, 2, cfg.MaxOrder)
	assert.Equal(t, 0.25, cfg.MinimumIncrease)
	assert.False(t, cfg.NoOverlap)
	assert.Zero(t, cfg.NumberToRetrieve)
	assert.True(t, cfg.MultiwayMerge)
	assert.True(t, cfg.Resume)
}

func TestWithNamesCopies(t *testing.T) {
	names := []string{"a", "b"}
	cfg := NewConfig(WithNames(names...))
	names[0] = "z"
	assert.Equal(t, []string{"a", "b"}, cfg.Names)
}

func TestConfigNormalize(t *testing.T) {
	cfg := NewConfig(
		WithNames("a", "b", "c"),
		WithBinaryOperators(core.And, core.And, core.Or),
		WithUnaryOperators(core.Not, core.Not),
	)
	cfg.Normalize()

	assert.Equal(t, 3, cfg.MaxOrder)
	assert.Equal(t, []*core.Operator{core.And, core.Or}, cfg.BinaryOperators)
	assert.Equal(t, []*core.Operator{core.Not}, cfg.UnaryOperators)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr error
	}{
		{"valid", []ConfigOption{WithNames("a", "b")}, nil},
		{"single leaf without operators", []ConfigOption{WithNames("a"), WithBinaryOperators()}, nil},
		{"no names", nil, ErrNoNames},
		{"duplicate names", []ConfigOption{WithNames("a", "b", "a")}, core.ErrDuplicateName},
		{"empty name", []ConfigOption{WithNames("a", "")}, core.ErrEmptyName},
		{"reserved character", []ConfigOption{WithNames("a&b")}, core.ErrInvalidName},
		{"max order too large", []ConfigOption{WithNames("a", "b"), WithMaxOrder(3)}, ErrMaxOrderOutOfRange},
		{"negative max order", []ConfigOption{WithNames("a", "b"), WithMaxOrder(-1)}, ErrMaxOrderOutOfRange},
		{"no binary operators", []ConfigOption{WithNames("a", "b"), WithBinaryOperators()}, ErrNoBinaryOperators},
		{"unary in binary set", []ConfigOption{WithNames("a", "b"), WithBinaryOperators(core.And, core.Not)}, ErrOperatorArity},
		{"binary in unary set", []ConfigOption{WithNames("a", "b"), WithUnaryOperators(core.Or)}, ErrOperatorArity},
		{"nil operator", []ConfigOption{WithNames("a", "b"), WithBinaryOperators(nil)}, ErrOperatorArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigFingerprint(t *testing.T) {
	base := NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or, core.Not))
	permuted := NewConfig(WithNames("c", "a", "b"), WithOperators(core.Not, core.Or, core.And))
	assert.Equal(t, base.Fingerprint(), permuted.Fingerprint())
	assert.Equal(t, base.RunID(), permuted.RunID())

	// Ranking length, resume and max order do not change which tiers are built.
	other := NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or, core.Not),
		WithNumberToRetrieve(3), WithResume(true), WithMaxOrder(2))
	assert.Equal(t, base.RunID(), other.RunID())

	changed := []*Config{
		NewConfig(WithNames("a", "b"), WithOperators(core.And, core.Or, core.Not)),
		NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or)),
		NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or, core.Not), WithMinimumIncrease(0.1)),
		NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or, core.Not), WithNoOverlap(false)),
		NewConfig(WithNames("a", "b", "c"), WithOperators(core.And, core.Or, core.Not), WithMultiwayMerge(true)),
	}
	for _, cfg := range changed {
		assert.NotEqual(t, base.RunID(), cfg.RunID(), cfg.Fingerprint())
	}
}
