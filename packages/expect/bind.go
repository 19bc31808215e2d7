package expect

import "fmt"

// Failure reports a predicate that evaluated to false.
type Failure struct {
	Text string
}

func (f *Failure) Error() string {
	return "expectation not met: " + f.Text
}

// Substitute returns a copy of e with every Placeholder replaced by a Literal
// holding value. Nothing is evaluated.
func Substitute(e Expr, value any) Expr {
	if e == nil {
		return nil
	}
	if _, ok := e.(*Placeholder); ok {
		return &Literal{Value: value}
	}
	return e.Map(func(child Expr) Expr {
		return Substitute(child, value)
	})
}

// Bound is a predicate whose subject has been replaced by a concrete value.
type Bound struct {
	original Expr
	closed   Expr
	text     string
}

// Bind partially applies p to value.
func Bind[T any](p Predicate[T], value T) Bound {
	return BindExpr(p.Expr(), value)
}

// BindExpr partially applies an untyped predicate tree to value.
func BindExpr(e Expr, value any) Bound {
	closed := Substitute(e, value)
	b := Bound{original: e, closed: closed}
	if closed != nil {
		b.text = closed.Render()
	}
	return b
}

// Text is the rendered form of the bound predicate.
func (b Bound) Text() string { return b.text }

// Original is the predicate template before substitution.
func (b Bound) Original() Expr { return b.original }

// Expr is the closed tree.
func (b Bound) Expr() Expr { return b.closed }

// Check evaluates the bound predicate. It returns nil when the predicate
// holds, a *Failure when it evaluates to false, and the evaluation error
// otherwise.
func (b Bound) Check() error {
	if b.closed == nil {
		return ErrEmptyPredicate
	}
	v, err := b.closed.Eval()
	if err != nil {
		return err
	}
	ok, isBool := v.(bool)
	if !isBool {
		return fmt.Errorf("%w: got %T", ErrNotBoolean, v)
	}
	if !ok {
		return &Failure{Text: b.text}
	}
	return nil
}
