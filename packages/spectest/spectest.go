// Package spectest runs specifications under go test.
//
//	func TestAccounts(t *testing.T) {
//		spectest.RunUniverse(t, specs.Universe())
//	}
//
// Each unit becomes a subtest named after the specification. Failures are
// reported with t.Errorf, one line per failed phase or expectation.
package spectest

import (
	"iter"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
)

// Run executes every unit in a subtest of t. Runner debug logs go to the test
// log; opts may replace the logger.
func Run(t *testing.T, units iter.Seq[spec.Unit], opts ...runner.Option) {
	t.Helper()

	opts = append([]runner.Option{runner.WithLogger(zaptest.NewLogger(t))}, opts...)
	r := runner.NewRunner(nil, opts...)

	ran := 0
	for unit := range units {
		ran++
		t.Run(runner.UnitName(unit), func(t *testing.T) {
			t.Helper()
			Report(t, r.RunOne(unit))
		})
	}
	if ran == 0 {
		t.Log("no specifications found")
	}
}

// RunUniverse runs every specification registered in u.
func RunUniverse(t *testing.T, u *discovery.Universe, opts ...runner.Option) {
	t.Helper()
	Run(t, discovery.ScanUniverse(u), opts...)
}

// Report fails t with the details of result unless it passed.
func Report(t testing.TB, result *runner.RunResult) bool {
	t.Helper()
	if result.Passed {
		return true
	}

	reported := false
	if result.Message != "" {
		t.Errorf("%s: %s: %v", result.Member, result.Message, result.Thrown)
		reported = true
	}
	for _, e := range result.Expectations {
		if !e.Passed {
			t.Errorf("%s: %v", result.Member, e.Err)
			reported = true
		}
	}
	if !reported {
		t.Errorf("%s: specification failed", result.Member)
	}
	return false
}
