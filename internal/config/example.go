package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# pile configuration file
# Values can be overridden by PILE_* environment variables or CLI flags.

# Directory holding the stack file ("list") and one file per item
root = "~/.pile"

# Console logging: debug, info, warn, error
log_level = "warn"

# Console log format: text, json, logfmt
log_format = "text"

# Also append JSON logs to this file (empty disables)
# log_file = "~/.local/state/pile/pile.log"

# Show timestamps in console logs
log_timestamps = false

# Use the interactive editor for push when stdin is a terminal
editor = true

# Redraw delay for list --watch, in milliseconds
watch_debounce_ms = 150
`
}
