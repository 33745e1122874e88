// Package paths resolves the files a session reads and writes.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appName        = "diagrammer"
	localDir       = "." + appName
	configFile     = "config.yaml"
	propertiesFile = "session.properties"
)

// LocalConfigDir is the project-local configuration directory.
func LocalConfigDir() string { return localDir }

// UserConfigDir returns ~/.config/diagrammer, or "" when the home directory
// is unknown.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigDir returns the directory configuration is read from: the local
// .diagrammer directory when it exists, otherwise the user directory.
func ConfigDir() string {
	if info, err := os.Stat(localDir); err == nil && info.IsDir() {
		return localDir
	}
	return UserConfigDir()
}

// ResolveConfigFile normalizes a user supplied config location. A directory
// resolves to the config.yaml inside it; "" resolves to the default lookup.
func ResolveConfigFile(path string) string {
	if path == "" {
		return filepath.Join(ConfigDir(), configFile)
	}
	path = filepath.Clean(Expand(path))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, configFile)
	}
	return path
}

// DefaultPropertiesPath is where session properties live next to config.
func DefaultPropertiesPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), propertiesFile)
}

// DefaultTracesPath returns ~/.config/diagrammer/traces/traces.jsonl.
func DefaultTracesPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Expand replaces a leading ~ with the home directory.
func Expand(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ExpandAll expands every path, resolving relative ones against base.
func ExpandAll(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = Expand(p)
		if base != "" && !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}
