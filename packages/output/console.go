package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
	"github.com/abdul-hamid-achik/specrun/packages/metrics"
)

var (
	separator = strings.Repeat("-", 80)
	footer    = strings.Repeat("*", 80)
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose appends the timing summary to every report.
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatBatch(batch *runner.BatchResult) {
	fmt.Fprintf(f.writer, "\nRunning all specifications\n\n")
	fmt.Fprintln(f.writer, separator)

	for _, r := range batch.Results {
		f.formatSpec(r)
	}

	fmt.Fprintf(f.writer, "\nRan %d specifications %d failures. %d total assertions %d failures.\n",
		len(batch.Results), batch.Failed, batch.Assertions, batch.FailedAssertions)
	if batch.Skipped > 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintln(f.writer, yellow(fmt.Sprintf("Skipped %d specifications.", batch.Skipped)))
	}
	fmt.Fprintln(f.writer, footer)

	if f.verbose && batch.Timing != nil {
		f.formatTiming(batch.Timing)
	}
}

func (f *ConsoleFormatter) formatSpec(r *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	status := green("PASSED")
	if !r.Passed {
		status = red("FAILED")
	}
	fmt.Fprintf(f.writer, "%s - %s\n", r.Name, status)

	if r.On != nil {
		fmt.Fprintf(f.writer, "\nOn:\n\t%T\n\n", r.On)
	}

	if r.Result != nil {
		fmt.Fprintf(f.writer, "\nResults with:\n")
		if err, ok := r.Result.(error); ok {
			fmt.Fprintf(f.writer, "\t%T\n\t%s\n", err, err.Error())
		} else {
			fmt.Fprintf(f.writer, "\t%s\n", expect.FormatValue(r.Result))
		}
		fmt.Fprintln(f.writer)
	}

	fmt.Fprintln(f.writer, "Expectations:")
	for _, e := range r.Expectations {
		if e.Passed {
			fmt.Fprintf(f.writer, "\t%s - %s\n", e.Text, green("PASSED"))
			continue
		}
		fmt.Fprintf(f.writer, "\t%s\n", red(expectationError(e)))
	}

	if r.Thrown != nil {
		fmt.Fprintf(f.writer, "%s %s\n\n%v\n", red("Specification failed:"), r.Message, r.Thrown)
	}
	fmt.Fprintln(f.writer, separator)
}

func (f *ConsoleFormatter) formatTiming(s *metrics.Summary) {
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", cyan("Timing:"), s.Duration)
	fmt.Fprintf(f.writer, "  p50=%s p95=%s p99=%s min=%s max=%s mean=%s\n",
		s.P50, s.P95, s.P99, s.Min, s.Max, s.Mean)
	for _, o := range s.Outcomes {
		fmt.Fprintf(f.writer, "  %-26s %4d  p50=%s p95=%s\n", o.Label, o.Count, o.P50, o.P95)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("specrun"), version)
}

func expectationError(e *runner.ExpectationResult) string {
	if e.Err == nil {
		return e.Text + " - FAILED"
	}
	return e.Err.Error()
}
