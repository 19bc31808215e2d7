package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewRunner(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		r := NewRunner(nil)
		assert.NotNil(t, r)
		assert.NotNil(t, r.config)
		assert.NotNil(t, r.logger)
		assert.Nil(t, r.metrics)
	})

	t.Run("with custom config", func(t *testing.T) {
		cfg := &Config{Verbose: true, Bail: true, NameFilter: "when*"}
		r := NewRunner(cfg, WithLogger(nil))
		assert.True(t, r.config.Verbose)
		assert.Equal(t, "when*", r.config.NameFilter)
		assert.NotNil(t, r.logger)
	})
}

func TestRunOne_ExceptionInBefore(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithExceptionInBefore()))

	assert.False(t, result.Passed)
	require.Error(t, result.Thrown)
	assert.Equal(t, "test", result.Thrown.Error())
	assert.Equal(t, MessageBeforeFailed, result.Message)
	assert.Empty(t, result.Expectations)
	assert.Equal(t, testMember, result.Member)
}

func TestRunOne_NoWhen(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithNoWhen()))

	assert.False(t, result.Passed)
	assert.NoError(t, result.Thrown)
	assert.Equal(t, MessageNoWhen, result.Message)
	assert.Empty(t, result.Expectations)
	assert.Equal(t, testMember, result.Member)
}

func TestRunOne_ExceptionInWhen(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithExceptionInWhen()))

	assert.False(t, result.Passed)
	require.Error(t, result.Thrown)
	assert.Equal(t, "test3", result.Thrown.Error())
	assert.Equal(t, MessageWhenFailed, result.Message)
	assert.Empty(t, result.Expectations)
	assert.Nil(t, result.Result)
}

func TestRunOne_ExceptionInFinally(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithExceptionInFinally()))

	assert.False(t, result.Passed)
	require.Error(t, result.Thrown)
	assert.Equal(t, "test4", result.Thrown.Error())
	assert.Equal(t, MessageFinallyFailed, result.Message)
	require.Len(t, result.Expectations, 1)
	assert.Equal(t, "4 == 3", result.Expectations[0].Text)
	assert.False(t, result.Expectations[0].Passed)
}

func TestRunOne_ExceptionInExpectation(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithExceptionInExpectation()))

	assert.False(t, result.Passed)
	assert.NoError(t, result.Thrown)
	assert.Empty(t, result.Message)
	require.Len(t, result.Expectations, 1)
	assert.False(t, result.Expectations[0].Passed)
	require.Error(t, result.Expectations[0].Err)
	assert.Equal(t, "methodthatthrows", result.Expectations[0].Err.Error())
	assert.Equal(t, "methodThatThrows(4)", result.Expectations[0].Text)
}

func TestRunOne_SinglePassingExpectation(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithSinglePassingExpectation()))

	assert.True(t, result.Passed)
	assert.NoError(t, result.Thrown)
	assert.Empty(t, result.Message)
	require.Len(t, result.Expectations, 1)
	assert.True(t, result.Expectations[0].Passed)
	assert.NoError(t, result.Expectations[0].Err)
	assert.Equal(t, "4 == 4", result.Expectations[0].Text)
	assert.Equal(t, "x == x", result.Expectations[0].Original.Render())
	assert.Equal(t, 3, result.Subject)
	assert.Equal(t, 4, result.Result)
	assert.NotNil(t, result.On)
}

func TestRunOne_OnFailureOverrideOrder(t *testing.T) {
	errOn := errors.New("test2")
	failingOn := func() (int, error) { return 7, errOn }

	tests := []struct {
		name         string
		spec         *spec.ActionSpec[int]
		message      string
		thrown       error
		expectations int
		passed       bool
	}{
		{
			name:         "recorded when nothing later fails",
			spec:         specWithExceptionInOn(),
			message:      MessageOnFailed,
			thrown:       errOn,
			expectations: 1,
			passed:       true,
		},
		{
			name:    "replaced by missing when",
			spec:    &spec.ActionSpec[int]{On: failingOn},
			message: MessageNoWhen,
		},
		{
			name: "replaced by when failure",
			spec: &spec.ActionSpec[int]{
				On:   failingOn,
				When: spec.Returning(func(int) (int, error) { return 0, errors.New("test3") }),
			},
			message: MessageWhenFailed,
			thrown:  errors.New("test3"),
		},
		{
			name: "replaced by finally failure",
			spec: &spec.ActionSpec[int]{
				On:      failingOn,
				When:    increment(),
				Expect:  []expect.Predicate[int]{alwaysTrue()},
				Finally: func() error { return errors.New("test4") },
			},
			message:      MessageFinallyFailed,
			thrown:       errors.New("test4"),
			expectations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewRunner(nil).RunOne(runnable(tt.spec))

			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, tt.message, result.Message)
			if tt.thrown == nil {
				assert.NoError(t, result.Thrown)
			} else {
				require.Error(t, result.Thrown)
				assert.Equal(t, tt.thrown.Error(), result.Thrown.Error())
			}
			assert.Len(t, result.Expectations, tt.expectations)
		})
	}
}

func TestRunOne_OnFailureContinuesWithZeroSubject(t *testing.T) {
	result := NewRunner(nil).RunOne(runnable(specWithExceptionInOn()))

	assert.Equal(t, 0, result.Subject)
	assert.Equal(t, 1, result.Result)
	assert.Nil(t, result.On)
	require.Len(t, result.Expectations, 1)
	assert.True(t, result.Expectations[0].Passed)
	assert.True(t, result.Passed)
	assert.Equal(t, MessageOnFailed, result.Message)
}

func TestRunOne_OnFailureWithFailingExpectation(t *testing.T) {
	s := &spec.ActionSpec[int]{
		On:   func() (int, error) { return 0, errors.New("no factory") },
		When: increment(),
		Expect: []expect.Predicate[int]{
			expect.That(func(x expect.Term[int]) expect.Cond { return expect.Eq(x, expect.Lit(2)) }),
		},
	}
	result := NewRunner(nil).RunOne(runnable(s))

	assert.False(t, result.Passed)
	assert.Equal(t, MessageOnFailed, result.Message)
	require.Len(t, result.Expectations, 1)
	assert.Equal(t, "1 == 2", result.Expectations[0].Text)
}

func TestRunOne_FailedUnit(t *testing.T) {
	errCreate := errors.New("boom")
	member := spec.Member{Type: "Broken", Name: "throws_on_create"}
	unit := spec.NewFailed("Exception when creating specification", errCreate, member)

	result := NewRunner(nil).RunOne(unit)

	assert.False(t, result.Passed)
	assert.Equal(t, "Exception when creating specification", result.Message)
	assert.Same(t, errCreate, result.Thrown)
	assert.Empty(t, result.Expectations)
	assert.Equal(t, member, result.Member)
	assert.Equal(t, "throws on create", result.Name)
}

func TestRunOne_Panics(t *testing.T) {
	t.Run("before", func(t *testing.T) {
		s := &spec.ActionSpec[int]{Before: func() error { panic(errors.New("test")) }}
		result := NewRunner(nil).RunOne(runnable(s))

		assert.Equal(t, MessageBeforeFailed, result.Message)
		var pe *spec.PanicError
		require.ErrorAs(t, result.Thrown, &pe)
		assert.NotEmpty(t, pe.Stack)
		assert.Equal(t, "test", errors.Unwrap(pe).Error())
	})

	t.Run("when", func(t *testing.T) {
		s := &spec.ActionSpec[int]{
			On:   three,
			When: spec.Map(func(int) int { panic("kaboom") }),
		}
		result := NewRunner(nil).RunOne(runnable(s))

		assert.Equal(t, MessageWhenFailed, result.Message)
		assert.EqualError(t, result.Thrown, "panic: kaboom")
	})

	t.Run("predicate is isolated", func(t *testing.T) {
		s := &spec.ActionSpec[int]{
			On:   three,
			When: increment(),
			Expect: []expect.Predicate[int]{
				expect.That(func(x expect.Term[int]) expect.Cond {
					return expect.Satisfies(x, "explodes", func(int) bool { panic("predicate") })
				}),
				alwaysTrue(),
			},
		}
		result := NewRunner(nil).RunOne(runnable(s))

		assert.False(t, result.Passed)
		require.Len(t, result.Expectations, 2)
		assert.False(t, result.Expectations[0].Passed)
		assert.Equal(t, "explodes(4)", result.Expectations[0].Text)
		assert.IsType(t, &spec.PanicError{}, result.Expectations[0].Err)
		assert.True(t, result.Expectations[1].Passed)
	})
}

func TestRunOne_Unbound(t *testing.T) {
	tests := []struct {
		name string
		unit spec.Unit
	}{
		{"nil specification", spec.NewRunnable(nil, testMember)},
		{"bind panics", runnable(brokenSpec{panics: true})},
		{"bind returns nil", runnable(brokenSpec{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result *RunResult
			require.NotPanics(t, func() { result = NewRunner(nil).RunOne(tt.unit) })

			assert.False(t, result.Passed)
			assert.Equal(t, MessageUnbound, result.Message)
			assert.Error(t, result.Thrown)
			assert.Empty(t, result.Expectations)
		})
	}
}

func TestRunOne_VoidWhenYieldsSubject(t *testing.T) {
	var seen int
	s := &spec.ActionSpec[int]{
		On:     three,
		When:   spec.Effect(func(x int) error { seen = x; return nil }),
		Expect: []expect.Predicate[int]{equalsThree()},
	}

	result := NewRunner(nil).RunOne(runnable(s))

	assert.True(t, result.Passed)
	assert.Equal(t, 3, seen)
	assert.Equal(t, 3, result.Result)
}

func TestRunOne_QuerySpec(t *testing.T) {
	s := &spec.QuerySpec[[]string, int]{
		Title: "counting words",
		On:    func() ([]string, error) { return []string{"a", "b"}, nil },
		When:  spec.Map(func(xs []string) int { return len(xs) }),
		Expect: []expect.Predicate[int]{
			expect.That(func(n expect.Term[int]) expect.Cond { return expect.Eq(n, expect.Lit(2)) }),
			expect.That(func(n expect.Term[int]) expect.Cond { return expect.Gt(n, expect.Lit(5)) }),
		},
	}

	result := NewRunner(nil).RunOne(runnable(s))

	assert.Equal(t, "counting words", result.Name)
	assert.False(t, result.Passed)
	assert.Empty(t, result.Message)
	require.Len(t, result.Expectations, 2)
	assert.True(t, result.Expectations[0].Passed)
	assert.False(t, result.Expectations[1].Passed)
	assert.Equal(t, "2 > 5", result.Expectations[1].Text)
	var failure *expect.Failure
	assert.ErrorAs(t, result.Expectations[1].Err, &failure)
	assert.Equal(t, 1, result.FailedExpectations())
	assert.Equal(t, "failed", result.Outcome())
}

func TestRunOne_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRunner(&Config{}, WithLogger(zap.New(core)))

	r.RunOne(runnable(specWithExceptionInWhen()))

	entries := logs.FilterMessage("specification finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, MessageWhenFailed, fields["message"])
	assert.Equal(t, "TestSpecs.spec_under_test", fields["member"])
	assert.Equal(t, false, fields["passed"])
}

func TestUnitName(t *testing.T) {
	assert.Equal(t, "spec under test", UnitName(runnable(specWithNoWhen())))
	assert.Equal(t, "named", UnitName(runnable(&spec.ActionSpec[int]{Title: "named"})))
	assert.Equal(t, "broken", UnitName(runnable(brokenSpec{})))
	assert.Equal(t, "spec under test", UnitName(spec.NewFailed("x", nil, testMember)))
}
