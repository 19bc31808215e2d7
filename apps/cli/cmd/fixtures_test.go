package cmd

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/discovery"
	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
)

func balanceIs(want int) expect.Predicate[int] {
	return expect.Named("balance", func(b expect.Term[int]) expect.Cond {
		return expect.Eq(b, expect.Lit(want))
	})
}

type accountSpecs struct{}

func (accountSpecs) Depositing() spec.Specification {
	return &spec.ActionSpec[int]{
		Title:  "when depositing five",
		On:     func() (int, error) { return 10, nil },
		When:   spec.Map(func(b int) int { return b + 5 }),
		Expect: []expect.Predicate[int]{balanceIs(15)},
	}
}

type ledgerSpecs struct{}

func (ledgerSpecs) Overdrawing() spec.Specification {
	return &spec.ActionSpec[int]{
		Title:  "when overdrawing",
		On:     func() (int, error) { return 10, nil },
		When:   spec.Map(func(b int) int { return b - 20 }),
		Expect: []expect.Predicate[int]{balanceIs(0)},
	}
}

func (ledgerSpecs) Missing() spec.Specification { return nil }

func testUniverse() *discovery.Universe {
	return discovery.NewUniverse().
		MustRegister("AccountSpecs", accountSpecs{}).
		MustRegister("LedgerSpecs", ledgerSpecs{})
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, u *discovery.Universe, args ...string) result {
	t.Helper()

	c := newCLI(u, "v1.2.3", "2026-10-01")
	c.buildLogger = func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), c, args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
