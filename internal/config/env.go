package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from PILE_* environment variables.
func loadFromEnv(cfg *Config) error {
	setEnv := func(field string) {
		cfg.Sources[field] = SourceEnv
	}

	if v := os.Getenv("PILE_ROOT"); v != "" {
		cfg.Root = v
		setEnv("root")
	}
	if v := os.Getenv("PILE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		setEnv("log_level")
	}
	if v := os.Getenv("PILE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		setEnv("log_format")
	}
	if v := os.Getenv("PILE_LOG_FILE"); v != "" {
		cfg.LogFile = v
		setEnv("log_file")
	}
	if v := os.Getenv("PILE_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("PILE_EDITOR"); v != "" {
		cfg.Editor = boolFromString(v)
		setEnv("editor")
	}
	if v := os.Getenv("PILE_WATCH_DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PILE_WATCH_DEBOUNCE_MS: %w", err)
		}
		cfg.WatchDebounceMs = ms
		setEnv("watch_debounce_ms")
	}
	return nil
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
