package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the specrun configuration
type Config struct {
	Output     string   `json:"output,omitempty" yaml:"output,omitempty"`         // Output format
	OutputFile string   `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // Write the report here instead of stdout
	NameFilter string   `json:"name,omitempty" yaml:"name,omitempty"`
	NilPolicy  string   `json:"nilPolicy,omitempty" yaml:"nilPolicy,omitempty"` // drop or fail
	Members    []string `json:"members,omitempty" yaml:"members,omitempty"`     // Type.Member names run by default
	Watch      []string `json:"watch,omitempty" yaml:"watch,omitempty"`         // Paths that trigger a re-run
	Bail       *bool    `json:"bail,omitempty" yaml:"bail,omitempty"`
	Verbose    *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor    *bool    `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// OutputFormats lists the accepted values of Output
var OutputFormats = []string{"console", "json", "junit", "tap"}

// NilPolicies lists the accepted values of NilPolicy
var NilPolicies = []string{"drop", "fail"}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".specrun.json",
	"specrun.json",
	".specrun.yaml",
	".specrun.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file, picking the
// decoder from the extension
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if c.Output != "" && !slices.Contains(OutputFormats, c.Output) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}
	if c.NilPolicy != "" && !slices.Contains(NilPolicies, strings.ToLower(c.NilPolicy)) {
		return fmt.Errorf("unknown nil policy %q (expected one of %s)", c.NilPolicy, strings.Join(NilPolicies, ", "))
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.NameFilter != "" {
		result.NameFilter = other.NameFilter
	}
	if other.NilPolicy != "" {
		result.NilPolicy = other.NilPolicy
	}
	if len(other.Members) > 0 {
		result.Members = other.Members
	}
	if len(other.Watch) > 0 {
		result.Watch = other.Watch
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file, as YAML when the extension
// asks for it
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
