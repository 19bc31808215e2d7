package expect

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnbound is returned when a tree still holding a placeholder is evaluated.
	ErrUnbound = errors.New("unbound subject placeholder")
	// ErrNotBoolean is returned when a predicate root does not yield a bool.
	ErrNotBoolean = errors.New("predicate did not evaluate to a boolean")
	// ErrEmptyPredicate is returned when checking a predicate with no tree.
	ErrEmptyPredicate = errors.New("empty predicate")
)

// Expr is a node in a predicate tree.
type Expr interface {
	// Render returns the display text of the node.
	Render() string
	// Eval computes the value of the node.
	Eval() (any, error)
	// Map returns a copy of the node with f applied to each direct child.
	Map(f func(Expr) Expr) Expr
}

// Operator identifies a binary operation.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpAnd
	OpOr
	OpContains
	OpNotContains
	OpStartsWith
	OpEndsWith
	OpMatches
	OpLength
	OpIncludes
	OpIn
	OpType
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpContains:
		return "contains"
	case OpNotContains:
		return "!contains"
	case OpStartsWith:
		return "startsWith"
	case OpEndsWith:
		return "endsWith"
	case OpMatches:
		return "matches"
	case OpLength:
		return "length"
	case OpIncludes:
		return "includes"
	case OpIn:
		return "in"
	case OpType:
		return "type"
	default:
		return "unknown"
	}
}

// Placeholder stands for the subject of a predicate until it is bound.
type Placeholder struct {
	Name string
}

func (p *Placeholder) Render() string {
	if p.Name == "" {
		return "x"
	}
	return p.Name
}

func (p *Placeholder) Eval() (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnbound, p.Render())
}

func (p *Placeholder) Map(func(Expr) Expr) Expr { return p }

// Literal is a constant operand.
type Literal struct {
	Value any
}

func (l *Literal) Render() string { return FormatValue(l.Value) }

func (l *Literal) Eval() (any, error) { return l.Value, nil }

func (l *Literal) Map(func(Expr) Expr) Expr { return l }

// Member reads a named property of its operand.
type Member struct {
	X    Expr
	Name string
	Get  func(any) (any, error)
}

func (m *Member) Render() string {
	return operand(m.X) + "." + m.Name
}

func (m *Member) Eval() (any, error) {
	x, err := m.X.Eval()
	if err != nil {
		return nil, err
	}
	return m.Get(x)
}

func (m *Member) Map(f func(Expr) Expr) Expr {
	return &Member{X: f(m.X), Name: m.Name, Get: m.Get}
}

// Call applies a named function to its arguments.
type Call struct {
	Name string
	Args []Expr
	Fn   func(args []any) (any, error)
}

func (c *Call) Render() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.Render()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Call) Eval() (any, error) {
	args := make([]any, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return c.Fn(args)
}

func (c *Call) Map(f func(Expr) Expr) Expr {
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = f(a)
	}
	return &Call{Name: c.Name, Args: args, Fn: c.Fn}
}

// Binary combines two operands with an operator.
type Binary struct {
	Op Operator
	X  Expr
	Y  Expr
}

func (b *Binary) Render() string {
	if b.Op == OpLength {
		return "len(" + b.X.Render() + ") == " + operand(b.Y)
	}
	return operand(b.X) + " " + b.Op.String() + " " + operand(b.Y)
}

func (b *Binary) Eval() (any, error) {
	switch b.Op {
	case OpAnd:
		x, err := evalBool(b.X)
		if err != nil || !x {
			return false, err
		}
		return evalBool(b.Y)
	case OpOr:
		x, err := evalBool(b.X)
		if err != nil || x {
			return x, err
		}
		return evalBool(b.Y)
	}

	x, err := b.X.Eval()
	if err != nil {
		return nil, err
	}
	y, err := b.Y.Eval()
	if err != nil {
		return nil, err
	}
	return compare(b.Op, x, y)
}

func (b *Binary) Map(f func(Expr) Expr) Expr {
	return &Binary{Op: b.Op, X: f(b.X), Y: f(b.Y)}
}

// Negation negates a boolean operand.
type Negation struct {
	X Expr
}

func (n *Negation) Render() string { return "!" + operand(n.X) }

func (n *Negation) Eval() (any, error) {
	v, err := evalBool(n.X)
	if err != nil {
		return nil, err
	}
	return !v, nil
}

func (n *Negation) Map(f func(Expr) Expr) Expr { return &Negation{X: f(n.X)} }

// Opaque wraps a closure that cannot be inspected. It renders with its label.
type Opaque struct {
	Label string
	X     Expr
	Fn    func(any) (bool, error)
}

func (o *Opaque) Render() string {
	label := o.Label
	if label == "" {
		label = "predicate"
	}
	return label + "(" + o.X.Render() + ")"
}

func (o *Opaque) Eval() (any, error) {
	x, err := o.X.Eval()
	if err != nil {
		return nil, err
	}
	return o.Fn(x)
}

func (o *Opaque) Map(f func(Expr) Expr) Expr {
	return &Opaque{Label: o.Label, X: f(o.X), Fn: o.Fn}
}

func evalBool(e Expr) (bool, error) {
	v, err := e.Eval()
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T from %s", ErrNotBoolean, v, e.Render())
	}
	return b, nil
}

// operand renders a child, wrapping compound nodes in parentheses.
func operand(e Expr) string {
	if b, ok := e.(*Binary); ok && b.Op != OpLength {
		return "(" + b.Render() + ")"
	}
	return e.Render()
}
