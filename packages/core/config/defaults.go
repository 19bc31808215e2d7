package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Output:    "console",
		NilPolicy: "drop",
		Bail:      BoolPtr(false),
		Verbose:   BoolPtr(false),
		NoColor:   BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Output == defaults.Output &&
		c.OutputFile == defaults.OutputFile &&
		c.NameFilter == defaults.NameFilter &&
		c.NilPolicy == defaults.NilPolicy &&
		len(c.Members) == 0 &&
		len(c.Watch) == 0 &&
		c.GetBail() == defaults.GetBail() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
