package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Log file formats understood by the analyzer.
const (
	FormatGalactic = "galactic"
	FormatAzEl     = "azel"
	FormatNPoint   = "npoint"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for the analyzer
type Config struct {
	DataDir  string
	File     string
	Format   string
	PDFPath  string
	MaxPlots int
	LogLevel string
}

// Load reads configuration from an optional config file and HLINE_*
// environment variables. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", ".")
	v.SetDefault("file", "")
	v.SetDefault("format", FormatGalactic)
	v.SetDefault("pdf", "")
	v.SetDefault("max_plots", 12)
	v.SetDefault("log_level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix("HLINE")
	v.AutomaticEnv()

	cfg := &Config{
		DataDir:  v.GetString("data_dir"),
		File:     v.GetString("file"),
		Format:   strings.ToLower(v.GetString("format")),
		PDFPath:  v.GetString("pdf"),
		MaxPlots: v.GetInt("max_plots"),
		LogLevel: v.GetString("log_level"),
	}
	return cfg, nil
}

// Validate checks that the config names a file and a known format.
func (c *Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("%w: no log file given", ErrInvalidConfig)
	}
	switch c.Format {
	case FormatGalactic, FormatAzEl, FormatNPoint:
	default:
		return fmt.Errorf("%w: unknown format %q, pick one of: %s, %s, %s",
			ErrInvalidConfig, c.Format, FormatGalactic, FormatAzEl, FormatNPoint)
	}
	if c.MaxPlots < 0 {
		return fmt.Errorf("%w: max_plots must not be negative", ErrInvalidConfig)
	}
	return nil
}
