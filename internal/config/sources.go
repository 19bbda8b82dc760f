package config

import (
	"os"
	"path/filepath"
)

const configFileName = "pile.toml"

// findProjectConfigFile returns $PILE_CONFIG if set, else pile.toml or
// .pile.toml in the working directory.
func findProjectConfigFile() string {
	if v := os.Getenv("PILE_CONFIG"); v != "" {
		return expandPath(v)
	}
	return firstExisting(configFileName, "."+configFileName)
}

// findUserConfigFile returns the first user-level config file found.
func findUserConfigFile() string {
	return firstExisting(userConfigCandidates()...)
}

// userConfigCandidates lists ~/.pile/pile.toml, then pile/pile.toml under
// the OS config directory (XDG_CONFIG_HOME, Application Support, APPDATA).
func userConfigCandidates() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".pile", configFileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "pile", configFileName))
	}
	return paths
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
