package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, name string) *Leaf {
	t.Helper()
	l, err := NewLeaf(name)
	require.NoError(t, err)
	return l
}

func TestNewLeaf(t *testing.T) {
	l := leaf(t, "bert")
	assert.Equal(t, "bert", l.Name())
	assert.Equal(t, "bert", l.String())
	assert.Equal(t, []string{"bert"}, l.Leaves())
	assert.Equal(t, 1, l.Size())

	_, err := NewLeaf("")
	assert.ErrorIs(t, err, ErrInvalidExpression)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewNode(t *testing.T) {
	a, b, c := leaf(t, "a"), leaf(t, "b"), leaf(t, "c")

	t.Run("binary rendering", func(t *testing.T) {
		n, err := NewNode(And, b, a)
		require.NoError(t, err)
		assert.Equal(t, "(b&a)", n.String())
		assert.Equal(t, []string{"a", "b"}, n.Leaves())
		assert.Equal(t, 2, n.Size())
		assert.Equal(t, And, n.Operator())
		assert.Equal(t, 2, n.Len())
	})

	t.Run("unary rendering", func(t *testing.T) {
		n, err := NewNode(Not, a)
		require.NoError(t, err)
		assert.Equal(t, "~(a)", n.String())
		assert.True(t, IsNegation(n))
		assert.False(t, IsNegation(a))
	})

	t.Run("repeated leaves", func(t *testing.T) {
		n, err := NewNode(Or, a, MustNode(And, a, c))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, n.Leaves())
		assert.Equal(t, 3, n.Size())
	})

	t.Run("n-ary associative", func(t *testing.T) {
		n, err := NewNode(Or, a, b, c)
		require.NoError(t, err)
		assert.Equal(t, "(a|b|c)", n.String())
	})

	t.Run("children are copied", func(t *testing.T) {
		n := MustNode(And, a, b)
		kids := n.Children()
		kids[0] = c
		assert.Equal(t, "(a&b)", n.String())
		assert.Equal(t, a, n.Child(0))
	})

	t.Run("arity errors", func(t *testing.T) {
		_, err := NewNode(Not, a, b)
		assert.ErrorIs(t, err, ErrArity)
		_, err = NewNode(Xor, a, b, c)
		assert.ErrorIs(t, err, ErrArity)
		_, err = NewNode(And, a)
		assert.ErrorIs(t, err, ErrArity)
	})

	t.Run("nil inputs", func(t *testing.T) {
		_, err := NewNode(nil, a)
		assert.ErrorIs(t, err, ErrInvalidExpression)
		_, err = NewNode(And, a, nil)
		assert.ErrorIs(t, err, ErrInvalidExpression)
	})
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(MustParse("a&b"), MustParse("b|c")))
	assert.False(t, Overlaps(MustParse("a&b"), MustParse("c|d")))
	assert.False(t, Overlaps(MustParse("a"), MustParse("b")))
	assert.True(t, Overlaps(MustParse("~a"), MustParse("a")))
}

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		token string
		want  *Operator
	}{
		{"&", And},
		{"and", And},
		{"AND", And},
		{"|", Or},
		{"or", Or},
		{"^", Xor},
		{"xor", Xor},
		{"~", Not},
		{" not ", Not},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			op, err := LookupOperator(tt.token)
			require.NoError(t, err)
			assert.Same(t, tt.want, op)
		})
	}

	_, err := LookupOperator("nand")
	assert.ErrorIs(t, err, ErrUnknownOperator)
}

func TestOperatorTable(t *testing.T) {
	assert.Equal(t, []*Operator{And, Or, Xor}, BinaryOperators())
	assert.Equal(t, []*Operator{Not}, UnaryOperators())
	assert.Len(t, Operators(), 4)

	assert.True(t, And.Associative && And.Commutative)
	assert.True(t, Or.Associative && Or.Commutative)
	assert.True(t, !Xor.Associative && Xor.Commutative)
	assert.True(t, Not.IsUnary())

	ops, err := ParseOperators("&", "or")
	require.NoError(t, err)
	assert.Equal(t, []*Operator{And, Or}, ops)
}
