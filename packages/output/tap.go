package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
)

// TAPFormatter formats batch results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	skipped   int
	results   []tapResult
}

type tapResult struct {
	number   int
	name     string
	passed   bool
	message  string
	error    string
	failures []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatBatch(batch *runner.BatchResult) {
	f.skipped += batch.Skipped

	for _, r := range batch.Results {
		f.testCount++
		tr := tapResult{
			number:  f.testCount,
			name:    r.Name,
			passed:  r.Passed,
			message: r.Message,
		}
		if r.Thrown != nil {
			tr.error = r.Thrown.Error()
		}
		for _, e := range r.Expectations {
			if !e.Passed {
				tr.failures = append(tr.failures, expectationError(e))
			}
		}
		f.results = append(f.results, tr)
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual test results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		if r.message == "" && r.error == "" && len(r.failures) == 0 {
			continue
		}
		fmt.Fprintf(f.writer, "  ---\n")
		if r.message != "" {
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
			fmt.Fprintf(f.writer, "  severity: error\n")
		}
		if r.error != "" {
			fmt.Fprintf(f.writer, "  error: %s\n", escapeYAML(r.error))
		}
		if len(r.failures) > 0 {
			fmt.Fprintf(f.writer, "  failures:\n")
			for _, failure := range r.failures {
				fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(failure))
			}
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	if f.skipped > 0 {
		fmt.Fprintf(f.writer, "# skipped %d\n", f.skipped)
	}
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
