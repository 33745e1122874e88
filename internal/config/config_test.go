package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/diagrammer/internal/flags"
)

func TestDefaults_Valid(t *testing.T) {
	d := Defaults()
	require.NoError(t, d.Validate())
	require.Equal(t, []string{"graphviz", "recent"}, d.Plugins.Enabled)
	require.True(t, d.PluginEnabled("recent"))
	require.False(t, d.Tracing.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"blank plugin", func(c *Config) { c.Plugins.Enabled = []string{""} }, "plugins.enabled[0]"},
		{"duplicate plugin", func(c *Config) { c.Plugins.Enabled = []string{"recent", "recent"} }, "listed twice"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"markdown style", func(c *Config) { c.UI.MarkdownStyle = "neon" }, "ui.markdown_style"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "kafka" }, "tracing.exporter"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, "otlp_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			require.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}

func TestDefaultTemplateDecodesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	d := Defaults()
	require.Equal(t, d.Plugins, cfg.Plugins)
	require.Equal(t, d.UI, cfg.UI)
	require.Equal(t, d.RestoreDocuments, cfg.RestoreDocuments)
	require.Equal(t, d.Flags, cfg.Flags)
	require.Equal(t, d.LogLevel, cfg.LogLevel)
	require.Equal(t, filepath.Join(filepath.Dir(path), "session.properties"), cfg.PropertiesFile)
}

func TestLoad_FlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flags:\n  action-palette: false\n"), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{flags.FlagActionPalette: false}, cfg.Flags)
}

func TestLoad_WritesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	_, err := Load(viper.New(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestLoad_ResolvesPathsAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fragments:
  - ui.yaml
  - /opt/extra.yaml
resources: [strings.yaml]
properties_file: state/session.properties
plugins:
  enabled: []
ui:
  markdown_style: light
`), 0o600))
	t.Setenv("DIAGRAMMER_UI_MOUSE", "false")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "ui.yaml"), "/opt/extra.yaml"}, cfg.Fragments)
	require.Equal(t, []string{filepath.Join(dir, "strings.yaml")}, cfg.Resources)
	require.Equal(t, filepath.Join(dir, "state", "session.properties"), cfg.PropertiesFile)
	require.Empty(t, cfg.Plugins.Enabled)
	require.Equal(t, "light", cfg.UI.MarkdownStyle)
	require.False(t, cfg.UI.Mouse)
	require.True(t, cfg.UI.ShowStatusBar, "unset keys keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("ui: [\n"), 0o600))
	_, err := Load(viper.New(), bad)
	require.ErrorContains(t, err, "reading config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("tracing:\n  exporter: kafka\n"), 0o600))
	_, err = Load(viper.New(), invalid)
	require.ErrorContains(t, err, "invalid config")
}
