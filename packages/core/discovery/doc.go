// Package discovery finds members that produce specifications and turns
// them into units for the runner.
//
// Two entry points share one classification policy:
//   - ScanType scans the exported methods (in name order) and then the
//     exported fields (in declaration order) of a single type
//   - ScanNamedMembers resolves "Type.Member" names against a Universe
//
// A member qualifies when it takes no arguments and returns a
// spec.Specification, a slice of them, or an iter.Seq of them, optionally
// followed by an error. Other members are skipped.
//
// Materialisation never aborts a scan. A member whose call panics or
// returns an error becomes a failed unit and scanning moves on to the next
// member.
package discovery
