// Package metrics aggregates specification timings.
//
// Durations are recorded into an HDR histogram in microseconds, overall and
// per outcome ("passed", "When Failed", ...), so reporters can show
// percentiles for a batch.
package metrics
