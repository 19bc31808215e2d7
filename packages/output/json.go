package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/specrun/packages/core/runner"
	"github.com/abdul-hamid-achik/specrun/packages/expect"
	"github.com/abdul-hamid-achik/specrun/packages/metrics"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunIDs         []string      `json:"runIds"`
	Summary        JSONSummary   `json:"summary"`
	Specifications []JSONSpec    `json:"specifications"`
	Timing         []*JSONTiming `json:"timing,omitempty"`
	Duration       float64       `json:"duration"`
	Time           string        `json:"time"`
}

// JSONSummary represents the batch summary
type JSONSummary struct {
	Total            int `json:"total"`
	Passed           int `json:"passed"`
	Failed           int `json:"failed"`
	Skipped          int `json:"skipped"`
	Assertions       int `json:"assertions"`
	FailedAssertions int `json:"failedAssertions"`
}

// JSONSpec represents a single specification result
type JSONSpec struct {
	RunID        string            `json:"runId"`
	Name         string            `json:"name"`
	Member       string            `json:"member"`
	Kind         string            `json:"kind"`
	Passed       bool              `json:"passed"`
	Message      string            `json:"message,omitempty"`
	Error        string            `json:"error,omitempty"`
	On           string            `json:"on,omitempty"`
	Result       string            `json:"result,omitempty"`
	Duration     float64           `json:"duration"`
	Expectations []JSONExpectation `json:"expectations,omitempty"`
}

// JSONExpectation represents one bound predicate
type JSONExpectation struct {
	Text   string `json:"text"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

// JSONTiming is the duration summary of one batch, in milliseconds
type JSONTiming struct {
	RunID    string           `json:"runId"`
	P50      float64          `json:"p50"`
	P95      float64          `json:"p95"`
	P99      float64          `json:"p99"`
	Min      float64          `json:"min"`
	Max      float64          `json:"max"`
	Mean     float64          `json:"mean"`
	Outcomes map[string]int64 `json:"outcomes,omitempty"`
}

// JSONFormatter formats batch results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runIDs  []string
	summary JSONSummary
	specs   []JSONSpec
	timing  []*JSONTiming
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		runIDs: make([]string, 0),
		specs:  make([]JSONSpec, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatBatch(batch *runner.BatchResult) {
	f.runIDs = append(f.runIDs, batch.RunID)
	f.summary.Total += len(batch.Results)
	f.summary.Passed += batch.Passed
	f.summary.Failed += batch.Failed
	f.summary.Skipped += batch.Skipped
	f.summary.Assertions += batch.Assertions
	f.summary.FailedAssertions += batch.FailedAssertions

	for _, r := range batch.Results {
		s := JSONSpec{
			RunID:    batch.RunID,
			Name:     r.Name,
			Member:   r.Member.String(),
			Kind:     r.Member.Kind.String(),
			Passed:   r.Passed,
			Message:  r.Message,
			Duration: millis(r.Duration),
		}
		if r.Thrown != nil {
			s.Error = r.Thrown.Error()
		}
		if r.On != nil {
			s.On = fmt.Sprintf("%T", r.On)
		}
		if r.Result != nil {
			s.Result = expect.FormatValue(r.Result)
		}

		for _, e := range r.Expectations {
			je := JSONExpectation{Text: e.Text, Passed: e.Passed}
			if e.Err != nil {
				je.Error = e.Err.Error()
			}
			s.Expectations = append(s.Expectations, je)
		}
		f.specs = append(f.specs, s)
	}

	if batch.Timing != nil && batch.Timing.Total > 0 {
		f.timing = append(f.timing, jsonTiming(batch.RunID, batch.Timing))
	}
}

func jsonTiming(runID string, s *metrics.Summary) *JSONTiming {
	t := &JSONTiming{
		RunID:    runID,
		P50:      millis(s.P50),
		P95:      millis(s.P95),
		P99:      millis(s.P99),
		Min:      millis(s.Min),
		Max:      millis(s.Max),
		Mean:     millis(s.Mean),
		Outcomes: make(map[string]int64, len(s.Outcomes)),
	}
	for _, o := range s.Outcomes {
		t.Outcomes[o.Label] = o.Count
	}
	return t
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual specification results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		RunIDs:         f.runIDs,
		Summary:        f.summary,
		Specifications: f.specs,
		Timing:         f.timing,
		Duration:       millis(totalDuration),
		Time:           time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
