package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/diagrammer/internal/log"
	"github.com/zjrosen/diagrammer/internal/paths"
)

// EnvPrefix prefixes environment overrides, e.g. DIAGRAMMER_UI_MOUSE=false.
const EnvPrefix = "DIAGRAMMER"

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("restore_documents", d.RestoreDocuments)
	v.SetDefault("watch_resources", d.WatchResources)
	v.SetDefault("plugins.enabled", d.Plugins.Enabled)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.show_library", d.UI.ShowLibrary)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("flags", d.Flags)
}

// Load reads the config file at path into v, writing the default template
// first when the file does not exist. Paths in the result are expanded and
// resolved against the config directory.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if werr := WriteDefaultConfig(path); werr != nil {
			log.Warn(log.CatConfig, "Running with defaults", "error", werr)
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.Fragments = paths.ExpandAll(base, cfg.Fragments)
	cfg.Resources = paths.ExpandAll(base, cfg.Resources)
	if cfg.PropertiesFile == "" {
		cfg.PropertiesFile = paths.DefaultPropertiesPath(path)
	} else {
		cfg.PropertiesFile = paths.ExpandAll(base, []string{cfg.PropertiesFile})[0]
	}
	if cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = paths.DefaultTracesPath()
	} else {
		cfg.Tracing.FilePath = paths.Expand(cfg.Tracing.FilePath)
	}
	log.Debug(log.CatConfig, "Config loaded", "path", v.ConfigFileUsed(),
		"fragments", len(cfg.Fragments), "resources", len(cfg.Resources))
	return cfg, nil
}
