package main

import (
	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

// Universe registers every specification type of the self check.
func Universe() *discovery.Universe {
	return discovery.NewUniverse().
		MustRegister("SpecificationRunnerSpecifications", runnerSpecifications{}).
		MustRegister("BindingSpecifications", bindingSpecifications{},
			discovery.WithStatic("When_binding_a_holding_predicate", bindingHoldingPredicate),
			discovery.WithStatic("When_binding_a_failing_predicate", bindingFailingPredicate),
		)
}

type result = *runner.RunResult

var fixtures testSpecs

func runnerSpec(s spec.Specification, expectations ...expect.Predicate[result]) spec.Specification {
	return &spec.QuerySpec[*runner.Runner, result]{
		On: func() (*runner.Runner, error) { return runner.NewRunner(nil), nil },
		When: spec.Map(func(r *runner.Runner) result {
			return r.RunOne(spec.NewRunnable(s, spec.Member{Type: "TestSpecs", Name: "spec_under_test"}))
		}),
		Expect: expectations,
	}
}

func check(build func(r expect.Term[result]) expect.Cond) expect.Predicate[result] {
	return expect.Named("result", build)
}

func passed(r expect.Term[result]) expect.Term[bool] {
	return expect.Field(r, "Passed", func(r result) bool { return r.Passed })
}

func thrown(r expect.Term[result]) expect.Term[error] {
	return expect.Field(r, "Thrown", func(r result) error { return r.Thrown })
}

func message(r expect.Term[result]) expect.Term[string] {
	return expect.Field(r, "Message", func(r result) string { return r.Message })
}

func expectations(r expect.Term[result]) expect.Term[[]*runner.ExpectationResult] {
	return expect.Field(r, "Expectations", func(r result) []*runner.ExpectationResult { return r.Expectations })
}

func firstExpectation(r expect.Term[result]) expect.Term[*runner.ExpectationResult] {
	return expect.Field(r, "Expectations[0]", func(r result) *runner.ExpectationResult { return r.Expectations[0] })
}

func failed() expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond { return expect.Eq(passed(r), expect.Lit(false)) })
}

func messageIs(want string) expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond { return expect.Eq(message(r), expect.Lit(want)) })
}

func thrownArgument() expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond { return expect.ErrorAs[*argumentError](thrown(r)) })
}

func thrownMessage(want string) expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond {
		return expect.Eq(expect.Message(thrown(r)), expect.Lit(want))
	})
}

func nothingThrown() expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond { return expect.IsNil(thrown(r)) })
}

func expectationCount(n int) expect.Predicate[result] {
	return check(func(r expect.Term[result]) expect.Cond { return expect.HasLength(expectations(r), n) })
}

type runnerSpecifications struct{}

func (runnerSpecifications) When_running_specification_with_exception_in_before() spec.Specification {
	return runnerSpec(fixtures.SpecWithExceptionInBefore(),
		failed(),
		thrownArgument(),
		thrownMessage("test"),
		messageIs(runner.MessageBeforeFailed),
		expectationCount(0),
	)
}

func (runnerSpecifications) When_running_specification_with_exception_in_on() spec.Specification {
	return runnerSpec(fixtures.SpecWithExceptionInOn(),
		failed(),
		thrownArgument(),
		thrownMessage("test2"),
		messageIs(runner.MessageOnFailed),
		expectationCount(1),
	)
}

func (runnerSpecifications) When_running_specification_with_no_when() spec.Specification {
	return runnerSpec(fixtures.SpecWithNoWhen(),
		failed(),
		nothingThrown(),
		messageIs(runner.MessageNoWhen),
		expectationCount(0),
	)
}

func (runnerSpecifications) When_running_specification_with_exception_in_when() spec.Specification {
	return runnerSpec(fixtures.SpecWithExceptionInWhen(),
		failed(),
		thrownArgument(),
		messageIs(runner.MessageWhenFailed),
		expectationCount(0),
	)
}

func (runnerSpecifications) When_running_specification_with_exception_in_finally() spec.Specification {
	return runnerSpec(fixtures.SpecWithExceptionInFinally(),
		failed(),
		thrownArgument(),
		messageIs(runner.MessageFinallyFailed),
		expectationCount(1),
	)
}

func (runnerSpecifications) When_running_specification_with_exception_in_expectation() spec.Specification {
	return runnerSpec(fixtures.SpecWithExceptionInExpectation(),
		failed(),
		nothingThrown(),
		messageIs(""),
		expectationCount(1),
		check(func(r expect.Term[result]) expect.Cond {
			first := firstExpectation(r)
			return expect.And(
				expect.Eq(expect.Field(first, "Passed", func(e *runner.ExpectationResult) bool { return e.Passed }), expect.Lit(false)),
				expect.ErrorAs[*argumentError](expect.Field(first, "Err", func(e *runner.ExpectationResult) error { return e.Err })),
			)
		}),
		check(func(r expect.Term[result]) expect.Cond {
			err := expect.Field(firstExpectation(r), "Err", func(e *runner.ExpectationResult) error { return e.Err })
			return expect.Eq(expect.Message(err), expect.Lit("methodthatthrows"))
		}),
	)
}

func (runnerSpecifications) When_running_passing_specification_with_single_expectation() spec.Specification {
	return runnerSpec(fixtures.SpecWithSinglePassingExpectation(),
		check(func(r expect.Term[result]) expect.Cond { return expect.Eq(passed(r), expect.Lit(true)) }),
		nothingThrown(),
		messageIs(""),
		expectationCount(1),
		check(func(r expect.Term[result]) expect.Cond {
			first := firstExpectation(r)
			return expect.And(
				expect.Eq(expect.Field(first, "Passed", func(e *runner.ExpectationResult) bool { return e.Passed }), expect.Lit(true)),
				expect.IsNil(expect.Field(first, "Err", func(e *runner.ExpectationResult) error { return e.Err })),
			)
		}),
	)
}

// bindingSpecifications describe partial application of predicates. Its
// members are registered as statics.
type bindingSpecifications struct{}

func lengthIsThree() expect.Predicate[string] {
	return expect.That(func(x expect.Term[string]) expect.Cond {
		return expect.Eq(expect.Len(x), expect.Lit(3))
	})
}

func bindTo(value string) *spec.When[expect.Predicate[string], expect.Bound] {
	return spec.Map(func(p expect.Predicate[string]) expect.Bound {
		return expect.Bind(p, value)
	})
}

func boundText(b expect.Term[expect.Bound]) expect.Term[string] {
	return expect.Field(b, "Text()", func(b expect.Bound) string { return b.Text() })
}

func boundOriginal(b expect.Term[expect.Bound]) expect.Term[string] {
	return expect.Field(b, "Original()", func(b expect.Bound) string { return b.Original().Render() })
}

func boundCheck(b expect.Term[expect.Bound]) expect.Term[error] {
	return expect.Field(b, "Check()", func(b expect.Bound) error { return b.Check() })
}

func bindingHoldingPredicate() spec.Specification {
	return &spec.QuerySpec[expect.Predicate[string], expect.Bound]{
		Title: "when binding a predicate that holds",
		On:    func() (expect.Predicate[string], error) { return lengthIsThree(), nil },
		When:  bindTo("abc"),
		Expect: []expect.Predicate[expect.Bound]{
			expect.Named("bound", func(b expect.Term[expect.Bound]) expect.Cond {
				return expect.Eq(boundText(b), expect.Lit(`len("abc") == 3`))
			}),
			expect.Named("bound", func(b expect.Term[expect.Bound]) expect.Cond {
				return expect.Eq(boundOriginal(b), expect.Lit("len(x) == 3"))
			}),
			expect.Named("bound", func(b expect.Term[expect.Bound]) expect.Cond {
				return expect.IsNil(boundCheck(b))
			}),
		},
	}
}

func bindingFailingPredicate() spec.Specification {
	return &spec.QuerySpec[expect.Predicate[string], expect.Bound]{
		Title: "when binding a predicate that does not hold",
		On:    func() (expect.Predicate[string], error) { return lengthIsThree(), nil },
		When:  bindTo("ab"),
		Expect: []expect.Predicate[expect.Bound]{
			expect.Named("bound", func(b expect.Term[expect.Bound]) expect.Cond {
				return expect.Eq(boundText(b), expect.Lit(`len("ab") == 3`))
			}),
			expect.Named("bound", func(b expect.Term[expect.Bound]) expect.Cond {
				return expect.ErrorAs[*expect.Failure](boundCheck(b))
			}),
		},
	}
}
