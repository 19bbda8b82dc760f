package config

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// Default values.
const (
	DefaultRoot            = "~/.pile"
	DefaultLogLevel        = "warn"
	DefaultLogFormat       = "text"
	DefaultEditor          = true
	DefaultWatchDebounceMs = 150
)

// Config holds the full configuration for pile.
type Config struct {
	// Root is the directory holding the stack file and item records.
	Root string `toml:"root"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogFile       string `toml:"log_file"`
	LogTimestamps bool   `toml:"log_timestamps"`

	// Editor enables the interactive editor for push on a terminal.
	Editor bool `toml:"editor"`

	// WatchDebounceMs delays redraws in list --watch.
	WatchDebounceMs int `toml:"watch_debounce_ms"`

	// Files that were loaded, in order. Not read from TOML.
	Files []string `toml:"-"`

	// Sources maps TOML field names to where their value came from.
	Sources map[string]ConfigSource `toml:"-"`
}

// configFields returns the configurable field names for source tracking.
func configFields() []string {
	return []string{
		"root",
		"log_level",
		"log_format",
		"log_file",
		"log_timestamps",
		"editor",
		"watch_debounce_ms",
	}
}

// Value returns the string form of a field by TOML name.
func (c *Config) Value(field string) string {
	switch field {
	case "root":
		return c.Root
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_file":
		return c.LogFile
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "editor":
		return fmt.Sprint(c.Editor)
	case "watch_debounce_ms":
		return fmt.Sprint(c.WatchDebounceMs)
	default:
		return ""
	}
}

// Describe renders the effective configuration with the source of each value.
func (c *Config) Describe() string {
	fields := configFields()
	sort.Strings(fields)

	var b strings.Builder
	for _, f := range fields {
		src := c.Sources[f]
		if src == "" {
			src = SourceDefault
		}
		fmt.Fprintf(&b, "%-18s = %-30q # %s\n", f, c.Value(f), src)
	}
	for _, f := range c.Files {
		fmt.Fprintf(&b, "# loaded %s\n", f)
	}
	return b.String()
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("invalid watch_debounce_ms %d, must not be negative", c.WatchDebounceMs)
	}
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root must not be empty")
	}
	return nil
}
