package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p. On Windows
// %VAR% references are expanded too.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandWindowsEnv(expanded)
	}

	if expanded == "~" || strings.HasPrefix(expanded, "~/") ||
		(runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		if expanded == "~" {
			return home
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

// expandWindowsEnv replaces %VAR% with its value, leaving unknown names as-is.
func expandWindowsEnv(p string) string {
	parts := strings.Split(p, "%")
	if len(parts) < 3 {
		return p
	}

	var b strings.Builder
	b.WriteString(parts[0])
	i := 1
	for ; i < len(parts)-1; i++ {
		if val, ok := os.LookupEnv(parts[i]); ok && parts[i] != "" {
			b.WriteString(val)
			b.WriteString(parts[i+1])
			i++
			continue
		}
		b.WriteString("%" + parts[i])
	}
	if i == len(parts)-1 {
		b.WriteString("%" + parts[i])
	}
	return b.String()
}
