package runner

import (
	"strings"
	"time"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

// Phase failure messages.
const (
	MessageBeforeFailed  = "Before Failed"
	MessageOnFailed      = "On Failed"
	MessageNoWhen        = "No when on specification"
	MessageWhenFailed    = "When Failed"
	MessageFinallyFailed = "Finally failed"
	MessageUnbound       = "Specification could not be bound"
)

// RunResult is the outcome of one unit. It is not modified after RunOne
// returns.
type RunResult struct {
	Name   string
	Passed bool
	// On is the subject factory, set when it ran successfully
	On      any
	Subject any
	// Result is the output of When, or the subject when When is void
	Result any
	// Message labels the phase that failed, empty otherwise
	Message      string
	Thrown       error
	Expectations []*ExpectationResult
	Member       spec.Member
	Duration     time.Duration
}

// ExpectationResult is the outcome of one predicate.
type ExpectationResult struct {
	Passed   bool
	Text     string
	Original expect.Expr
	// Err is set when the predicate did not hold or could not be evaluated
	Err error
}

// FailedExpectations counts the expectations that did not pass.
func (r *RunResult) FailedExpectations() int {
	n := 0
	for _, e := range r.Expectations {
		if !e.Passed {
			n++
		}
	}
	return n
}

// Outcome is a short label for metrics: the failure message, or "passed" /
// "failed" when only expectations decided the result.
func (r *RunResult) Outcome() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.Passed:
		return "passed"
	default:
		return "failed"
	}
}

// UnitName is the display name of a unit: the specification name, falling
// back to the member name with underscores as spaces.
func UnitName(u spec.Unit) string {
	if s := u.Specification(); s != nil {
		var name string
		if err := spec.Guard(func() error { name = s.Name(); return nil }); err == nil && name != "" {
			return name
		}
	}
	return strings.ReplaceAll(u.Member().Name, "_", " ")
}
