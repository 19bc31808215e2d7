package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the specifications of one declaring type
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single specification
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure reports expectations that did not hold
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError reports a phase that failed
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats batch results as JUnit XML
type JUnitFormatter struct {
	writer  io.Writer
	suites  []*JUnitTestSuite
	index   map[string]*JUnitTestSuite
	skipped int
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		suites: make([]*JUnitTestSuite, 0),
		index:  make(map[string]*JUnitTestSuite),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatBatch(batch *runner.BatchResult) {
	f.skipped += batch.Skipped

	for _, r := range batch.Results {
		suite := f.suite(r.Member.Type)
		tc := JUnitTestCase{
			Name:      r.Name,
			ClassName: suite.Name,
			Time:      r.Duration.Seconds(),
		}

		switch {
		case r.Thrown != nil:
			suite.Errors++
			tc.Error = &JUnitError{
				Message: r.Message,
				Type:    fmt.Sprintf("%T", r.Thrown),
				Content: r.Thrown.Error(),
			}
		case !r.Passed:
			suite.Failures++
			var failureMsg strings.Builder
			for _, e := range r.Expectations {
				if !e.Passed {
					failureMsg.WriteString(expectationError(e))
					failureMsg.WriteString("\n")
				}
			}
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%d of %d expectations failed", r.FailedExpectations(), len(r.Expectations)),
				Type:    "ExpectationFailure",
				Content: failureMsg.String(),
			}
		}

		suite.Tests++
		suite.Time += r.Duration.Seconds()
		suite.TestCases = append(suite.TestCases, tc)
	}
}

func (f *JUnitFormatter) suite(typeName string) *JUnitTestSuite {
	if typeName == "" {
		typeName = "specrun"
	}
	if s, ok := f.index[typeName]; ok {
		return s
	}
	s := &JUnitTestSuite{Name: typeName}
	f.index[typeName] = s
	f.suites = append(f.suites, s)
	return s
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	suites := JUnitTestSuites{
		Name:       "specrun",
		Skipped:    f.skipped,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: make([]JUnitTestSuite, 0, len(f.suites)),
	}
	for _, s := range f.suites {
		suites.Tests += s.Tests
		suites.Failures += s.Failures
		suites.Errors += s.Errors
		suites.TestSuites = append(suites.TestSuites, *s)
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
