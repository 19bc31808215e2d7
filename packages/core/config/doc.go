// Package config handles configuration loading for specrun.
//
// It provides functionality for:
//   - Loading configuration from .specrun.json, specrun.json, .specrun.yaml
//     or .specrun.yml
//   - Default configuration values
//   - Merging command-line overrides over file settings
package config
