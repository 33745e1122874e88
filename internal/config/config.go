// Package config provides configuration types and defaults for diagrammer.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/zjrosen/diagrammer/internal/flags"
	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/tracing"
)

// Config holds all configuration options for diagrammer.
type Config struct {
	// Fragments are UI configuration files merged after the built-in UI, in
	// order. Relative paths resolve against the config directory.
	Fragments []string `mapstructure:"fragments"`

	// Resources are string bundles stacked over the built-in strings.
	Resources []string `mapstructure:"resources"`

	// PropertiesFile stores session state between runs.
	// Default: session.properties next to the config file.
	PropertiesFile string `mapstructure:"properties_file"`

	// LogLevel is the lowest level written to debug.log under --debug.
	LogLevel string `mapstructure:"log_level"`

	RestoreDocuments bool          `mapstructure:"restore_documents"`
	WatchResources   bool          `mapstructure:"watch_resources"`
	Plugins          PluginsConfig `mapstructure:"plugins"`
	UI               UIConfig      `mapstructure:"ui"`
	Tracing          TracingConfig `mapstructure:"tracing"`

	// Flags toggles features that are still settling in.
	Flags map[string]bool `mapstructure:"flags"`
}

// PluginsConfig selects the plugins loaded at startup.
type PluginsConfig struct {
	Enabled []string `mapstructure:"enabled"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	ShowLibrary   bool   `mapstructure:"show_library"`
	Mouse         bool   `mapstructure:"mouse"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default), "light" or "auto"
}

// TracingConfig holds tracing configuration.
type TracingConfig = tracing.Config

// DefaultPlugins lists the plugins enabled out of the box.
var DefaultPlugins = []string{"graphviz", "recent"}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		LogLevel:         "debug",
		RestoreDocuments: true,
		WatchResources:   true,
		Plugins:          PluginsConfig{Enabled: slices.Clone(DefaultPlugins)},
		UI: UIConfig{
			ShowStatusBar: true,
			ShowLibrary:   true,
			Mouse:         true,
			MarkdownStyle: "dark",
		},
		Tracing: tracing.DefaultConfig(),
		Flags:   maps.Clone(flags.Defaults),
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if err := ValidatePlugins(c.Plugins); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidatePlugins rejects blank and duplicate plugin names.
func ValidatePlugins(p PluginsConfig) error {
	seen := make(map[string]bool, len(p.Enabled))
	for i, name := range p.Enabled {
		if name == "" {
			return fmt.Errorf("plugins.enabled[%d]: name is empty", i)
		}
		if seen[name] {
			return fmt.Errorf("plugins.enabled: %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateUI checks user interface options.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light", "auto":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\", \"light\" or \"auto\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc TracingConfig) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}
	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}
	if tc.Enabled && tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// PluginEnabled reports whether name is enabled.
func (c Config) PluginEnabled(name string) bool {
	return slices.Contains(c.Plugins.Enabled, name)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Diagrammer Configuration

# UI configuration fragments merged over the built-in menus, toolbar,
# toolbox and popup, in order. Relative paths resolve against this directory.
# fragments:
#   - ui.yaml

# String bundles stacked over the built-in labels, tooltips and shortcuts.
# resources:
#   - strings.yaml

# Lowest level written to debug.log when run with --debug
# (debug, info, warn, error)
log_level: debug

# Reopen the diagrams that were open at the last exit
restore_documents: true

# Reload resources and rebuild the UI when fragment or resource files change
watch_resources: true

# Session state (open diagrams, recent files, last search)
# properties_file: ~/.config/diagrammer/session.properties

plugins:
  # Plugins loaded at startup (run 'diagrammer plugins' to list them)
  enabled:
    - graphviz
    - recent

ui:
  show_status_bar: true
  show_library: true
  mouse: true
  # markdown_style: dark  # "dark" (default), "light" or "auto"

# Feature flags
# flags:
#   action-palette: true   # ctrl+p opens the searchable action list

# Tracing of command dispatch, configuration merge and UI builds
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/diagrammer/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
