package spec

import (
	"errors"

	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

var (
	// ErrNoOn is returned by Session.On when no factory is configured.
	ErrNoOn = errors.New("no on factory configured")
	// ErrNoWhen is returned when invoking an absent or empty When.
	ErrNoWhen = errors.New("no when configured")
)

// Specification is a single runnable test case.
type Specification interface {
	// Name is the display name. It may be empty.
	Name() string
	// Bind starts a fresh run of the specification.
	Bind() Session
}

// Session drives one run of a specification. Values cross it untyped so the
// runner can handle every variant the same way.
type Session interface {
	Before() error
	// On produces the subject. On error the subject stays at its zero value.
	On() error
	// Factory returns the configured On function, or nil.
	Factory() any
	Subject() any
	HasWhen() bool
	// When applies the action to the subject and stores the result.
	When() (any, error)
	// Expectations binds every predicate to the stored result.
	Expectations() []expect.Bound
	Finally() error
}

// Typed exposes the phases of a specification with their static types.
type Typed[S, R any] interface {
	Specification
	GetBefore() func() error
	GetOn() func() (S, error)
	GetWhen() *When[S, R]
	GetExpect() []expect.Predicate[R]
	GetFinally() func() error
}

// ActionSpec is a specification whose When maps a T to a T.
type ActionSpec[T any] struct {
	Title   string
	Before  func() error
	On      func() (T, error)
	When    *When[T, T]
	Expect  []expect.Predicate[T]
	Finally func() error
}

func (s *ActionSpec[T]) Name() string                     { return s.Title }
func (s *ActionSpec[T]) Bind() Session                    { return newSession[T, T](s) }
func (s *ActionSpec[T]) GetBefore() func() error          { return s.Before }
func (s *ActionSpec[T]) GetOn() func() (T, error)         { return s.On }
func (s *ActionSpec[T]) GetWhen() *When[T, T]             { return s.When }
func (s *ActionSpec[T]) GetExpect() []expect.Predicate[T] { return s.Expect }
func (s *ActionSpec[T]) GetFinally() func() error         { return s.Finally }

// QuerySpec is a specification whose When maps a subject S to a result R.
type QuerySpec[S, R any] struct {
	Title   string
	Before  func() error
	On      func() (S, error)
	When    *When[S, R]
	Expect  []expect.Predicate[R]
	Finally func() error
}

func (s *QuerySpec[S, R]) Name() string                     { return s.Title }
func (s *QuerySpec[S, R]) Bind() Session                    { return newSession[S, R](s) }
func (s *QuerySpec[S, R]) GetBefore() func() error          { return s.Before }
func (s *QuerySpec[S, R]) GetOn() func() (S, error)         { return s.On }
func (s *QuerySpec[S, R]) GetWhen() *When[S, R]             { return s.When }
func (s *QuerySpec[S, R]) GetExpect() []expect.Predicate[R] { return s.Expect }
func (s *QuerySpec[S, R]) GetFinally() func() error         { return s.Finally }

type session[S, R any] struct {
	spec    Typed[S, R]
	subject S
	result  R
}

func newSession[S, R any](s Typed[S, R]) Session {
	return &session[S, R]{spec: s}
}

func (s *session[S, R]) Before() error {
	if fn := s.spec.GetBefore(); fn != nil {
		return fn()
	}
	return nil
}

func (s *session[S, R]) On() error {
	fn := s.spec.GetOn()
	if fn == nil {
		return ErrNoOn
	}
	v, err := fn()
	if err != nil {
		return err
	}
	s.subject = v
	return nil
}

func (s *session[S, R]) Factory() any {
	if fn := s.spec.GetOn(); fn != nil {
		return fn
	}
	return nil
}

func (s *session[S, R]) Subject() any { return s.subject }

func (s *session[S, R]) HasWhen() bool { return s.spec.GetWhen() != nil }

func (s *session[S, R]) When() (any, error) {
	r, err := s.spec.GetWhen().Invoke(s.subject)
	if err != nil {
		return nil, err
	}
	s.result = r
	return r, nil
}

func (s *session[S, R]) Expectations() []expect.Bound {
	preds := s.spec.GetExpect()
	out := make([]expect.Bound, len(preds))
	for i, p := range preds {
		out[i] = expect.Bind(p, s.result)
	}
	return out
}

func (s *session[S, R]) Finally() error {
	if fn := s.spec.GetFinally(); fn != nil {
		return fn()
	}
	return nil
}
