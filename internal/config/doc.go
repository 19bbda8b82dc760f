// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.pile/pile.toml or OS-specific config directory)
// 3. Project config file ($PILE_CONFIG, else pile.toml or .pile.toml in the working directory)
// 4. Environment variables (PILE_*), including any set by a .env file
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.pile/pile.toml (preferred)
// - Windows: %APPDATA%\pile\pile.toml
// - macOS: ~/Library/Application Support/pile/pile.toml
// - Linux/BSD: $XDG_CONFIG_HOME/pile/pile.toml or ~/.config/pile/pile.toml
//
// A .env file in the working directory is read before the environment layer.
// Variables already present in the environment are not overridden by it.
package config
