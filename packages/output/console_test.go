package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestConsoleFormatter_FormatBatch(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatBatch(fixtureBatch())

	newGoldie(t).Assert(t, "console", buf.Bytes())
}

func TestConsoleFormatter_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatBatch(&runner.BatchResult{})

	assert.Contains(t, buf.String(), "Ran 0 specifications 0 failures. 0 total assertions 0 failures.\n")
	assert.NotContains(t, buf.String(), "Skipped")
}

func TestConsoleFormatter_ErrorResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatBatch(&runner.BatchResult{
		Results: []*runner.RunResult{{
			Name:    "when the action returns an error",
			Passed:  true,
			Result:  errors.New("not found"),
			Message: "",
		}},
		Passed: 1,
	})

	assert.Contains(t, buf.String(), "Results with:\n\t*errors.errorString\n\tnot found\n")
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    bool
	}{
		{"verbose prints timing", true, true},
		{"quiet omits timing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true), WithVerbose(tt.verbose))

			batch := fixtureBatch()
			batch.Timing = fixtureTiming()
			f.FormatBatch(batch)

			out := buf.String()
			if !tt.want {
				assert.NotContains(t, out, "Timing:")
				return
			}
			assert.Contains(t, out, "Timing: 6ms\n")
			assert.Contains(t, out, "p50=2ms p95=3ms p99=3ms min=1ms max=3ms mean=2ms")
			assert.Contains(t, out, runner.MessageBeforeFailed)
		})
	}
}

func TestConsoleFormatter_FormatError(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatError(errors.New("no specifications found"))

	assert.Equal(t, "Error: no specifications found\n", buf.String())
}

func TestConsoleFormatter_FormatHeader(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHeader("v0.3.0")

	assert.Equal(t, "specrun v0.3.0\n", buf.String())
}
