package runner

import (
	"iter"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/specrun/packages/core/spec"
	"github.com/abdul-hamid-achik/specrun/packages/metrics"
)

func named(title string, s *spec.ActionSpec[int]) spec.Unit {
	s.Title = title
	return runnable(s)
}

func batchUnits() iter.Seq[spec.Unit] {
	return slices.Values([]spec.Unit{
		named("when passing", specWithSinglePassingExpectation()),
		named("when before fails", specWithExceptionInBefore()),
		named("when finally fails", specWithExceptionInFinally()),
		named("another passing", specWithSinglePassingExpectation()),
	})
}

func TestRunAll(t *testing.T) {
	batch := NewRunner(nil).RunAll(batchUnits())

	_, err := uuid.Parse(batch.RunID)
	require.NoError(t, err)

	require.Len(t, batch.Results, 4)
	assert.Equal(t, "when passing", batch.Results[0].Name)
	assert.Equal(t, "another passing", batch.Results[3].Name)
	assert.Equal(t, 2, batch.Passed)
	assert.Equal(t, 2, batch.Failed)
	assert.Equal(t, 0, batch.Skipped)
	assert.Equal(t, 3, batch.Assertions)
	assert.Equal(t, 1, batch.FailedAssertions)
	assert.False(t, batch.Success())

	require.NotNil(t, batch.Timing)
	assert.Equal(t, int64(4), batch.Timing.Total)
	assert.Equal(t, []string{"passed", MessageBeforeFailed, MessageFinallyFailed}, outcomeLabels(batch.Timing))
}

func TestRunAll_NameFilter(t *testing.T) {
	batch := NewRunner(&Config{NameFilter: "when*"}).RunAll(batchUnits())

	require.Len(t, batch.Results, 3)
	assert.Equal(t, 1, batch.Skipped)
	for _, r := range batch.Results {
		assert.NotEqual(t, "another passing", r.Name)
	}
}

func TestRunAll_Bail(t *testing.T) {
	batch := NewRunner(&Config{Bail: true}).RunAll(batchUnits())

	require.Len(t, batch.Results, 2)
	assert.Equal(t, 1, batch.Passed)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, 2, batch.Skipped)
}

func TestRunAll_SharedMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	r := NewRunner(nil, WithMetrics(m))

	r.RunAll(batchUnits())
	batch := r.RunAll(batchUnits())

	assert.Equal(t, int64(8), batch.Timing.Total)
	assert.Equal(t, int64(4), batch.Timing.Passed)
}

func TestRunAll_Empty(t *testing.T) {
	batch := NewRunner(nil).RunAll(slices.Values([]spec.Unit(nil)))

	assert.Empty(t, batch.Results)
	assert.True(t, batch.Success())
	assert.Equal(t, int64(0), batch.Timing.Total)
}

func outcomeLabels(s *metrics.Summary) []string {
	labels := make([]string, len(s.Outcomes))
	for i, o := range s.Outcomes {
		labels[i] = o.Label
	}
	return labels
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"when running spec", "", true},
		{"when running spec", "*", true},
		{"when running spec", "when running spec", true},
		{"when running spec", "when*", true},
		{"when running spec", "*spec", true},
		{"when running spec", "*running*", true},
		{"when running spec", "*walking*", false},
		{"when running spec", "then*", false},
		{"when running spec", "*test", false},
		{"when running spec", "when", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPattern(tt.name, tt.pattern))
		})
	}
}
