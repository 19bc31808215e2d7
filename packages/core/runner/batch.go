package runner

import (
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/metrics"
)

// BatchResult aggregates the results of one RunAll call.
type BatchResult struct {
	RunID   string
	Results []*RunResult
	Passed  int
	Failed  int
	// Skipped counts units removed by the name filter or left over after bail
	Skipped          int
	Assertions       int
	FailedAssertions int
	Duration         time.Duration
	Timing           *metrics.Summary
}

// Success reports whether every executed specification passed.
func (b *BatchResult) Success() bool {
	return b.Failed == 0
}

// RunAll executes units one at a time, in order.
func (r *Runner) RunAll(units iter.Seq[spec.Unit]) *BatchResult {
	m := r.metrics
	if m == nil {
		m = metrics.NewMetrics()
	}

	batch := &BatchResult{RunID: uuid.NewString()}
	logger := r.logger.With(zap.String("run_id", batch.RunID))
	logger.Debug("starting batch", zap.String("name_filter", r.config.NameFilter), zap.Bool("bail", r.config.Bail))

	start := time.Now()
	m.Start()

	bailed := false
	for unit := range units {
		if bailed {
			batch.Skipped++
			continue
		}
		if !r.shouldRun(unit) {
			batch.Skipped++
			continue
		}

		result := r.RunOne(unit)
		batch.Results = append(batch.Results, result)
		batch.Assertions += len(result.Expectations)
		batch.FailedAssertions += result.FailedExpectations()
		m.Record(result.Outcome(), result.Duration, result.Passed)

		if result.Passed {
			batch.Passed++
			continue
		}
		batch.Failed++
		if r.config.Bail {
			logger.Debug("bailing after failure", zap.String("name", result.Name))
			bailed = true
		}
	}

	m.Stop()
	batch.Duration = time.Since(start)
	batch.Timing = m.GetSummary()

	logger.Debug("batch finished",
		zap.Int("passed", batch.Passed),
		zap.Int("failed", batch.Failed),
		zap.Int("skipped", batch.Skipped),
		zap.Duration("duration", batch.Duration),
	)
	return batch
}

func (r *Runner) shouldRun(unit spec.Unit) bool {
	if r.config.NameFilter == "" {
		return true
	}
	return matchesPattern(UnitName(unit), r.config.NameFilter)
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if pattern == "*" {
		return true
	}

	if len(pattern) > 1 && pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}
