// Package output renders batch results.
//
// Supported output formats:
//   - Console: human-readable report, colored when the terminal allows it
//   - JSON: machine-readable JSON output
//   - JUnit: JUnit XML, one testsuite per declaring type
//   - TAP: Test Anything Protocol version 13
//
// Each formatter implements the Formatter interface. Formats that accumulate
// results before writing also implement Flushable.
package output
