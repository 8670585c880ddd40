package core

import (
	"fmt"
	"slices"
	"strings"
)

// reservedChars may not appear in leaf names; keeping them out makes the
// rendered form of an expression unambiguous.
const reservedChars = "&|^~()"

// Expression is an immutable logical expression over named leaves.
// It is implemented by *Leaf and *Node only.
type Expression interface {
	// String renders the expression: leaves verbatim, binary groups as
	// (a&b), unary operators as ~(a).
	String() string

	// Leaves returns the distinct leaf names in ascending order.
	// The returned slice must not be modified.
	Leaves() []string

	// Size returns the number of leaf occurrences in the expression.
	Size() int

	isExpression()
}

// Leaf is a single named atomic component.
type Leaf struct {
	name   string
	leaves []string
}

// NewLeaf creates a leaf after validating its name.
func NewLeaf(name string) (*Leaf, error) {
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return &Leaf{name: name, leaves: []string{name}}, nil
}

// Name returns the component name.
func (l *Leaf) Name() string     { return l.name }
func (l *Leaf) String() string   { return l.name }
func (l *Leaf) Leaves() []string { return l.leaves }
func (l *Leaf) Size() int        { return 1 }
func (l *Leaf) isExpression()    {}

// Node applies an operator to child expressions. Rendering, leaf set and
// size are computed when the node is built and never change.
type Node struct {
	op       *Operator
	children []Expression
	rendered string
	leaves   []string
	size     int
}

// NewNode creates a node after checking the operand count against the
// operator's arity. Unary operators take one operand, non-associative binary
// operators exactly two, and associative binary operators two or more.
func NewNode(op *Operator, children ...Expression) (*Node, error) {
	if op == nil {
		return nil, fmt.Errorf("%w: nil operator", ErrInvalidExpression)
	}
	for _, child := range children {
		if child == nil {
			return nil, fmt.Errorf("%w: nil operand for %s", ErrInvalidExpression, op)
		}
	}
	n := len(children)
	switch {
	case op.IsUnary() && n != 1:
		return nil, fmt.Errorf("%w: %s takes 1 operand, got %d", ErrArity, op, n)
	case op.IsBinary() && !op.Associative && n != 2:
		return nil, fmt.Errorf("%w: %s takes 2 operands, got %d", ErrArity, op, n)
	case op.IsBinary() && n < 2:
		return nil, fmt.Errorf("%w: %s takes at least 2 operands, got %d", ErrArity, op, n)
	}
	return newNode(op, slices.Clone(children)), nil
}

// MustNode is like NewNode but panics on error.
func MustNode(op *Operator, children ...Expression) *Node {
	node, err := NewNode(op, children...)
	if err != nil {
		panic(err)
	}
	return node
}

// newNode builds a node without validation. children is owned by the node.
func newNode(op *Operator, children []Expression) *Node {
	var sb strings.Builder
	size := 0
	var leaves []string
	if op.IsUnary() {
		sb.WriteString(op.Symbol)
	}
	sb.WriteByte('(')
	for i, child := range children {
		if i > 0 {
			sb.WriteString(op.Symbol)
		}
		sb.WriteString(child.String())
		size += child.Size()
		leaves = append(leaves, child.Leaves()...)
	}
	sb.WriteByte(')')
	slices.Sort(leaves)
	return &Node{
		op:       op,
		children: children,
		rendered: sb.String(),
		leaves:   slices.Compact(leaves),
		size:     size,
	}
}

// Operator returns the node's operator.
func (n *Node) Operator() *Operator { return n.op }

// Children returns a copy of the node's operands.
func (n *Node) Children() []Expression {
	return slices.Clone(n.children)
}

// Child returns the i-th operand.
func (n *Node) Child(i int) Expression { return n.children[i] }

// Len returns the number of operands.
func (n *Node) Len() int { return len(n.children) }

func (n *Node) String() string   { return n.rendered }
func (n *Node) Leaves() []string { return n.leaves }
func (n *Node) Size() int        { return n.size }
func (n *Node) isExpression()    {}

// IsNegation reports whether e is a Node whose operator is Not.
func IsNegation(e Expression) bool {
	node, ok := e.(*Node)
	return ok && node.op == Not
}

// Overlaps reports whether a and b share any leaf name.
func Overlaps(a, b Expression) bool {
	la, lb := a.Leaves(), b.Leaves()
	i, j := 0, 0
	for i < len(la) && j < len(lb) {
		switch strings.Compare(la[i], lb[j]) {
		case 0:
			return true
		case -1:
			i++
		default:
			j++
		}
	}
	return false
}
