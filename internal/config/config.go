package config

import (
	"strings"

	"gofacets/internal/errors"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Render  RenderConfig
	Stats   StatsConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// RenderConfig holds HTML rendering and display settings
type RenderConfig struct {
	// TemplatePath overrides the embedded stats.html when set
	TemplatePath string
	// TempDir is where browser documents are written; empty means the OS default
	TempDir string
}

// StatsConfig holds feature statistics generation settings
type StatsConfig struct {
	HistogramBuckets     int
	MaxCategoricalLevels int
}

// ServerConfig holds the local preview server settings
type ServerConfig struct {
	Addr string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from FACETS_* environment variables and an optional
// facets.{yaml,toml,json} in the working directory, then validates it
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith loads configuration using a caller-supplied viper instance
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("FACETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("facets")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read configuration file")
		}
	}

	config := &Config{
		Render: RenderConfig{
			TemplatePath: v.GetString("template_path"),
			TempDir:      v.GetString("temp_dir"),
		},
		Stats: StatsConfig{
			HistogramBuckets:     v.GetInt("histogram_buckets"),
			MaxCategoricalLevels: v.GetInt("max_categorical_levels"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server_addr"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("log_level"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("template_path", "")
	v.SetDefault("temp_dir", "")
	v.SetDefault("histogram_buckets", 10)
	v.SetDefault("max_categorical_levels", 0)
	v.SetDefault("server_addr", "127.0.0.1:8090")
	v.SetDefault("log_level", "INFO")
}

func validateConfig(config *Config) error {
	if config.Stats.HistogramBuckets <= 0 {
		return errors.ConfigInvalid("histogram_buckets must be positive")
	}
	if config.Stats.MaxCategoricalLevels < 0 {
		return errors.ConfigInvalid("max_categorical_levels cannot be negative")
	}
	if config.Server.Addr == "" {
		return errors.ConfigInvalid("server_addr is required")
	}
	return nil
}
