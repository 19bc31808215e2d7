package spec

// When is the action a specification applies to its subject. It takes either
// the subject or nothing, and either returns a result or is void. A void When
// yields the unchanged subject.
type When[S, R any] struct {
	run   func(S) (R, error)
	arity int
	void  bool
}

// Returning applies fn to the subject.
func Returning[S, R any](fn func(S) (R, error)) *When[S, R] {
	return &When[S, R]{run: fn, arity: 1}
}

// Map applies fn to the subject. It cannot fail.
func Map[S, R any](fn func(S) R) *When[S, R] {
	return &When[S, R]{
		run:   func(s S) (R, error) { return fn(s), nil },
		arity: 1,
	}
}

// Effect passes the subject to fn for its side effects.
func Effect[S any](fn func(S) error) *When[S, S] {
	return &When[S, S]{
		run:   func(s S) (S, error) { return s, fn(s) },
		arity: 1,
		void:  true,
	}
}

// Call ignores the subject and returns the result of fn.
func Call[S, R any](fn func() (R, error)) *When[S, R] {
	return &When[S, R]{
		run: func(S) (R, error) { return fn() },
	}
}

// Action runs fn for its side effects without the subject.
func Action[S any](fn func() error) *When[S, S] {
	return &When[S, S]{
		run:  func(s S) (S, error) { return s, fn() },
		void: true,
	}
}

// Arity is the number of inputs the action accepts, 0 or 1.
func (w *When[S, R]) Arity() int { return w.arity }

// Void reports whether the action returns nothing of its own.
func (w *When[S, R]) Void() bool { return w.void }

// Invoke runs the action against subject.
func (w *When[S, R]) Invoke(subject S) (R, error) {
	if w == nil || w.run == nil {
		var zero R
		return zero, ErrNoWhen
	}
	return w.run(subject)
}
