package metrics

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Histogram range: 1us to 60s, 3 significant digits
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
	sigFigs      = 3
)

// Metrics collects specification durations for one batch. It is not safe for
// concurrent use.
type Metrics struct {
	total  int64
	passed int64
	failed int64

	histogram *hdrhistogram.Histogram
	outcomes  map[string]*outcome
	order     []string

	startTime time.Time
	endTime   time.Time
}

type outcome struct {
	count     int64
	histogram *hdrhistogram.Histogram
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs),
		outcomes:  make(map[string]*outcome),
	}
}

// Start marks the beginning of the batch
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the batch
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record adds one specification run under the given outcome label.
func (m *Metrics) Record(label string, duration time.Duration, passed bool) {
	m.total++
	if passed {
		m.passed++
	} else {
		m.failed++
	}

	us := clamp(duration.Microseconds())
	_ = m.histogram.RecordValue(us)

	o, ok := m.outcomes[label]
	if !ok {
		o = &outcome{histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, sigFigs)}
		m.outcomes[label] = o
		m.order = append(m.order, label)
	}
	o.count++
	_ = o.histogram.RecordValue(us)
}

func clamp(us int64) int64 {
	if us < minLatencyUs {
		return minLatencyUs
	}
	if us > maxLatencyUs {
		return maxLatencyUs
	}
	return us
}

// Summary is the aggregate view of a batch.
type Summary struct {
	Duration time.Duration
	Total    int64
	Passed   int64
	Failed   int64

	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration

	// Outcomes in the order they were first seen
	Outcomes []*OutcomeSummary
}

// OutcomeSummary holds the breakdown for one outcome label.
type OutcomeSummary struct {
	Label string
	Count int64
	P50   time.Duration
	P95   time.Duration
	Mean  time.Duration
}

// GetSummary returns the metrics summary. An empty collector yields zero
// percentiles.
func (m *Metrics) GetSummary() *Summary {
	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}
	if m.startTime.IsZero() {
		duration = 0
	}

	summary := &Summary{
		Duration: duration,
		Total:    m.total,
		Passed:   m.passed,
		Failed:   m.failed,
	}
	if m.total == 0 {
		return summary
	}

	summary.P50 = us(m.histogram.ValueAtQuantile(50))
	summary.P95 = us(m.histogram.ValueAtQuantile(95))
	summary.P99 = us(m.histogram.ValueAtQuantile(99))
	summary.Min = us(m.histogram.Min())
	summary.Max = us(m.histogram.Max())
	summary.Mean = us(int64(m.histogram.Mean()))
	summary.StdDev = us(int64(m.histogram.StdDev()))

	for _, label := range m.order {
		o := m.outcomes[label]
		summary.Outcomes = append(summary.Outcomes, &OutcomeSummary{
			Label: label,
			Count: o.count,
			P50:   us(o.histogram.ValueAtQuantile(50)),
			P95:   us(o.histogram.ValueAtQuantile(95)),
			Mean:  us(int64(o.histogram.Mean())),
		})
	}
	return summary
}

// Labels returns the recorded outcome labels sorted by count, most frequent
// first.
func (s *Summary) Labels() []string {
	outcomes := make([]*OutcomeSummary, len(s.Outcomes))
	copy(outcomes, s.Outcomes)
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Count > outcomes[j].Count
	})

	labels := make([]string, len(outcomes))
	for i, o := range outcomes {
		labels[i] = o.Label
	}
	return labels
}

func us(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
