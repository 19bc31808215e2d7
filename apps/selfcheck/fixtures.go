package main

import (
	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

// argumentError is the error the fixture specifications fail with.
type argumentError struct {
	msg string
}

func (e *argumentError) Error() string { return e.msg }

func three() (int, error) { return 3, nil }

func increment() *spec.When[int, int] {
	return spec.Map(func(data int) int { return data + 1 })
}

func equalsThree() expect.Predicate[int] {
	return expect.That(func(x expect.Term[int]) expect.Cond {
		return expect.Eq(x, expect.Lit(3))
	})
}

func alwaysTrue() expect.Predicate[int] {
	return expect.That(func(x expect.Term[int]) expect.Cond {
		return expect.Eq(x, x)
	})
}

func methodThatThrows() expect.Predicate[int] {
	return expect.That(func(x expect.Term[int]) expect.Cond {
		return expect.Apply("methodThatThrows", func(int) (bool, error) {
			return false, &argumentError{msg: "methodthatthrows"}
		}, x)
	})
}

// testSpecs are the specifications the runner is exercised against.
type testSpecs struct{}

func (testSpecs) SpecWithExceptionInBefore() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		Before: func() error { return &argumentError{msg: "test"} },
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func (testSpecs) SpecWithExceptionInOn() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     func() (int, error) { return 0, &argumentError{msg: "test2"} },
		When:   increment(),
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func (testSpecs) SpecWithNoWhen() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func (testSpecs) SpecWithExceptionInWhen() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On: three,
		When: spec.Returning(func(int) (int, error) {
			return 0, &argumentError{msg: "test3"}
		}),
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func (testSpecs) SpecWithExceptionInFinally() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:      three,
		When:    increment(),
		Expect:  []expect.Predicate[int]{equalsThree()},
		Finally: func() error { return &argumentError{msg: "test4"} },
	}
}

func (testSpecs) SpecWithExceptionInExpectation() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		When:   increment(),
		Expect: []expect.Predicate[int]{methodThatThrows()},
	}
}

func (testSpecs) SpecWithSinglePassingExpectation() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		When:   increment(),
		Expect: []expect.Predicate[int]{alwaysTrue()},
	}
}
