package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, or "" when defaults and
	// environment were used alone
	File string `mapstructure:"-"`
}

// APIConfig holds speedrun.com API connection details
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// Concurrency bounds parallel player lookups
	Concurrency int `mapstructure:"concurrency"`
}

// FilterConfig contains named run filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// OutputConfig controls how commands print results
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
