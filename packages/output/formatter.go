package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
)

// Formatter renders batch results.
type Formatter interface {
	FormatBatch(batch *runner.BatchResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write everything at the end.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatJUnit   = "junit"
	FormatTAP     = "tap"
)

// New returns the formatter for format writing to w. Verbose and noColor only
// affect the console formatter.
func New(format string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case FormatJUnit:
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case FormatTAP:
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case FormatConsole, "":
		return NewConsoleFormatter(
			WithWriter(w),
			WithVerbose(verbose),
			WithNoColor(noColor),
		), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
