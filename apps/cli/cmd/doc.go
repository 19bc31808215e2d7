// Package cmd implements the specrun CLI commands using Cobra.
//
// Available commands:
//   - run: Execute specifications, all of them or the named Type.Member ones
//   - list: Display the discovered specifications without running them
//   - version: Show version information
//
// The commands operate on a discovery.Universe that the calling binary fills
// at startup. Flags cover filtering, output formatting, bail-out and watch
// mode; each has a SPECRUN_* environment variable default.
package cmd
