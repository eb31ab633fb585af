// Package config loads and validates the psychro configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/psychro/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Output formats understood by the rendering sinks.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatBoth = "both"
)

// Config is the fully resolved application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Output  OutputConfig  `mapstructure:"output"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig describes how to reach the chart service.
type ServerConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// OutputConfig controls where rendered charts are written.
type OutputConfig struct {
	Dir    string `mapstructure:"dir" validate:"required"`
	Format string `mapstructure:"format" validate:"oneof=html json both"`
}

// ChartConfig names the container the chart is rendered into.
type ChartConfig struct {
	Container string `mapstructure:"container" validate:"required,alphanum"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.timeout", time.Duration(0))
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", FormatHTML)
	v.SetDefault("chart.container", "chartContainer")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// Load decodes v into a Config, expands paths and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	cfg.Output.Dir = ExpandPath(cfg.Output.Dir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, fmt.Errorf("%w: %s failed %q", common.ErrInvalidConfig, fe.Namespace(), fe.Tag())
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ExpandPath expands a leading ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
