// Package runner executes specifications and collects their results.
//
// RunOne drives a single unit through the five phases:
//   - Before: a failure stops the run with "Before Failed"
//   - On: a failure is recorded as "On Failed" but the run continues with a
//     zero subject
//   - When: a missing When yields "No when on specification", a failure
//     stops the run with "When Failed"
//   - Expect: every predicate is checked independently
//   - Finally: always runs after the predicates, "Finally failed" on error
//
// RunOne never panics. Panics raised by specification code are captured as
// *spec.PanicError values on the result.
//
// RunAll runs a sequence of units one at a time, in order, applying the name
// filter and bail settings from Config.
package runner
