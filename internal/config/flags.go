package config

import (
	"flag"
)

// flagFields maps flag names to TOML field names for source tracking.
var flagFields = map[string]string{
	"root":              "root",
	"log-level":         "log_level",
	"log-format":        "log_format",
	"log-file":          "log_file",
	"log-timestamps":    "log_timestamps",
	"editor":            "editor",
	"watch-debounce-ms": "watch_debounce_ms",
}

// parseFlags defines the global flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("pile", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Root, "root", cfg.Root, "Directory holding the stack and item records")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also append JSON logs to this file")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in console logs")
	fs.BoolVar(&cfg.Editor, "editor", cfg.Editor, "Use the interactive editor for push on a terminal")
	fs.IntVar(&cfg.WatchDebounceMs, "watch-debounce-ms", cfg.WatchDebounceMs, "Redraw delay for list --watch")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok {
			cfg.Sources[field] = SourceFlag
		}
	})
	return nil
}
