package runner

import (
	"errors"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

var testMember = spec.Member{Type: "TestSpecs", Name: "spec_under_test", Kind: spec.MemberMethod}

func runnable(s spec.Specification) spec.Unit {
	return spec.NewRunnable(s, testMember)
}

func three() (int, error) { return 3, nil }

func increment() *spec.When[int, int] {
	return spec.Map(func(x int) int { return x + 1 })
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
			return false, errors.New("methodthatthrows")
		}, x)
	})
}

func specWithExceptionInBefore() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		Before: func() error { return errors.New("test") },
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func specWithExceptionInOn() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     func() (int, error) { return 0, errors.New("test2") },
		When:   increment(),
		Expect: []expect.Predicate[int]{alwaysTrue()},
	}
}

func specWithNoWhen() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func specWithExceptionInWhen() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		When:   spec.Returning(func(int) (int, error) { return 0, errors.New("test3") }),
		Expect: []expect.Predicate[int]{equalsThree()},
	}
}

func specWithExceptionInFinally() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:      three,
		When:    increment(),
		Expect:  []expect.Predicate[int]{equalsThree()},
		Finally: func() error { return errors.New("test4") },
	}
}

func specWithExceptionInExpectation() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		When:   increment(),
		Expect: []expect.Predicate[int]{methodThatThrows()},
	}
}

func specWithSinglePassingExpectation() *spec.ActionSpec[int] {
	return &spec.ActionSpec[int]{
		On:     three,
		When:   increment(),
		Expect: []expect.Predicate[int]{alwaysTrue()},
	}
}

// brokenSpec misbehaves while binding.
type brokenSpec struct {
	panics bool
}

func (b brokenSpec) Name() string { return "broken" }

func (b brokenSpec) Bind() spec.Session {
	if b.panics {
		panic("cannot bind")
	}
	return nil
}
