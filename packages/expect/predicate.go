package expect

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
)

// Term is a typed handle on an expression yielding a V.
type Term[V any] struct {
	expr Expr
}

// Expr returns the underlying tree.
func (t Term[V]) Expr() Expr { return t.expr }

// Cond is a boolean term.
type Cond = Term[bool]

// Predicate is an assertion over a subject of type T.
type Predicate[T any] struct {
	expr Expr
}

// Expr returns the predicate template, placeholder included.
func (p Predicate[T]) Expr() Expr { return p.expr }

func (p Predicate[T]) String() string {
	if p.expr == nil {
		return ""
	}
	return p.expr.Render()
}

// That builds a predicate whose subject placeholder renders as "x".
func That[T any](build func(x Term[T]) Cond) Predicate[T] {
	return Named("x", build)
}

// Named builds a predicate whose subject placeholder renders as name.
func Named[T any](name string, build func(x Term[T]) Cond) Predicate[T] {
	x := Term[T]{expr: &Placeholder{Name: name}}
	return Predicate[T]{expr: build(x).expr}
}

// Lit is a constant.
func Lit[V any](v V) Term[V] {
	return Term[V]{expr: &Literal{Value: v}}
}

// Field reads a named property of x through get.
func Field[S, F any](x Term[S], name string, get func(S) F) Term[F] {
	return Term[F]{expr: &Member{
		X:    x.expr,
		Name: name,
		Get: func(v any) (any, error) {
			s, err := as[S](v)
			if err != nil {
				return nil, err
			}
			return get(s), nil
		},
	}}
}

// Apply calls a named single-argument function.
func Apply[A, R any](name string, fn func(A) (R, error), a Term[A]) Term[R] {
	return Term[R]{expr: &Call{
		Name: name,
		Args: []Expr{a.expr},
		Fn: func(args []any) (any, error) {
			av, err := as[A](args[0])
			if err != nil {
				return nil, err
			}
			return fn(av)
		},
	}}
}

// Apply2 calls a named two-argument function.
func Apply2[A, B, R any](name string, fn func(A, B) (R, error), a Term[A], b Term[B]) Term[R] {
	return Term[R]{expr: &Call{
		Name: name,
		Args: []Expr{a.expr, b.expr},
		Fn: func(args []any) (any, error) {
			av, err := as[A](args[0])
			if err != nil {
				return nil, err
			}
			bv, err := as[B](args[1])
			if err != nil {
				return nil, err
			}
			return fn(av, bv)
		},
	}}
}

// Len is the length of a string, slice, array, map or channel.
func Len[V any](x Term[V]) Term[int] {
	return Term[int]{expr: &Call{
		Name: "len",
		Args: []Expr{x.expr},
		Fn: func(args []any) (any, error) {
			n := computeLength(args[0])
			if n < 0 {
				return nil, fmt.Errorf("cannot get length of %T", args[0])
			}
			return n, nil
		},
	}}
}

// IsNil holds when x is nil, including typed nil pointers.
func IsNil[V any](x Term[V]) Cond {
	return Cond{expr: &Call{
		Name: "isNil",
		Args: []Expr{x.expr},
		Fn: func(args []any) (any, error) {
			return isNil(args[0]), nil
		},
	}}
}

// ErrorIs holds when errors.Is(x, target).
func ErrorIs(x Term[error], target error) Cond {
	return Cond{expr: &Call{
		Name: "errors.Is",
		Args: []Expr{x.expr, &Literal{Value: target}},
		Fn: func(args []any) (any, error) {
			err, _ := args[0].(error)
			return errors.Is(err, target), nil
		},
	}}
}

// ErrorAs holds when x wraps an error of type E.
func ErrorAs[E error](x Term[error]) Cond {
	var zero E
	return Cond{expr: &Call{
		Name: "errors.As[" + reflect.TypeOf(&zero).Elem().String() + "]",
		Args: []Expr{x.expr},
		Fn: func(args []any) (any, error) {
			err, _ := args[0].(error)
			var target E
			return errors.As(err, &target), nil
		},
	}}
}

// Message is x.Error(). Evaluating it against a nil error fails.
func Message(x Term[error]) Term[string] {
	return Term[string]{expr: &Member{
		X:    x.expr,
		Name: "Error()",
		Get: func(v any) (any, error) {
			err, ok := v.(error)
			if !ok || err == nil {
				return nil, errors.New("nil error has no message")
			}
			return err.Error(), nil
		},
	}}
}

func binary[V any](op Operator, x, y Term[V]) Cond {
	return Cond{expr: &Binary{Op: op, X: x.expr, Y: y.expr}}
}

func Eq[V any](x, y Term[V]) Cond { return binary(OpEq, x, y) }
func Ne[V any](x, y Term[V]) Cond { return binary(OpNe, x, y) }

func Lt[V cmp.Ordered](x, y Term[V]) Cond { return binary(OpLt, x, y) }
func Le[V cmp.Ordered](x, y Term[V]) Cond { return binary(OpLe, x, y) }
func Gt[V cmp.Ordered](x, y Term[V]) Cond { return binary(OpGt, x, y) }
func Ge[V cmp.Ordered](x, y Term[V]) Cond { return binary(OpGe, x, y) }

func Contains(x, sub Term[string]) Cond      { return binary(OpContains, x, sub) }
func NotContains(x, sub Term[string]) Cond   { return binary(OpNotContains, x, sub) }
func StartsWith(x, prefix Term[string]) Cond { return binary(OpStartsWith, x, prefix) }
func EndsWith(x, suffix Term[string]) Cond   { return binary(OpEndsWith, x, suffix) }

// Matches holds when x matches the regular expression pattern. Surrounding
// slashes are ignored.
func Matches(x Term[string], pattern string) Cond {
	return Cond{expr: &Binary{Op: OpMatches, X: x.expr, Y: &Literal{Value: pattern}}}
}

// HasLength holds when the length of x is n.
func HasLength[V any](x Term[V], n int) Cond {
	return Cond{expr: &Binary{Op: OpLength, X: x.expr, Y: &Literal{Value: n}}}
}

// Includes holds when the slice xs holds an element equal to v.
func Includes[V any](xs Term[[]V], v Term[V]) Cond {
	return Cond{expr: &Binary{Op: OpIncludes, X: xs.expr, Y: v.expr}}
}

// In holds when v equals one of the elements of xs.
func In[V any](v Term[V], xs Term[[]V]) Cond {
	return Cond{expr: &Binary{Op: OpIn, X: v.expr, Y: xs.expr}}
}

// HasType holds when the JSON-style type name of x is name
// ("number", "string", "boolean", "array", "object", "null") or, for other
// values, its Go type.
func HasType[V any](x Term[V], name string) Cond {
	return Cond{expr: &Binary{Op: OpType, X: x.expr, Y: &Literal{Value: name}}}
}

// And holds when every condition holds, evaluated left to right.
func And(first Cond, rest ...Cond) Cond {
	out := first
	for _, c := range rest {
		out = Cond{expr: &Binary{Op: OpAnd, X: out.expr, Y: c.expr}}
	}
	return out
}

// Or holds when any condition holds, evaluated left to right.
func Or(first Cond, rest ...Cond) Cond {
	out := first
	for _, c := range rest {
		out = Cond{expr: &Binary{Op: OpOr, X: out.expr, Y: c.expr}}
	}
	return out
}

func Not(c Cond) Cond {
	return Cond{expr: &Negation{X: c.expr}}
}

// Satisfies wraps an opaque check. The label is used when rendering.
func Satisfies[V any](x Term[V], label string, fn func(V) bool) Cond {
	return Cond{expr: &Opaque{
		Label: label,
		X:     x.expr,
		Fn: func(v any) (bool, error) {
			val, err := as[V](v)
			if err != nil {
				return false, err
			}
			return fn(val), nil
		},
	}}
}

// as converts an evaluated operand back to its static type. A nil operand
// becomes the zero value of V.
func as[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, nil
	}
	out, ok := v.(V)
	if !ok {
		return zero, fmt.Errorf("operand of type %T is not %s", v, reflect.TypeOf(&zero).Elem())
	}
	return out, nil
}
