package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
	DefaultForce     = false
	DefaultDebug     = false
	DefaultVerbose   = false
)

// Holds the runtime options for apc
type Config struct {
	// Asset registry files, loaded in order
	ConfigFiles []string

	// Active theme for themed targets
	Theme string

	// Directory for the compiled-output cache used by nested targets
	TmpPath string

	// Rebuild targets even when they are fresh
	Force bool

	// Skip output filters (minification) when compiling
	Debug bool

	// Enable verbose output
	Verbose bool

	// Log output format, text or json
	LogFormat string

	// Minimum log level
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		ConfigFiles: viper.GetStringSlice("config"),
		Theme:       viper.GetString("theme"),
		TmpPath:     viper.GetString("tmp_path"),
		Force:       viper.GetBool("force"),
		Debug:       viper.GetBool("debug"),
		Verbose:     viper.GetBool("verbose"),
		LogFormat:   viper.GetString("log_format"),
		LogLevel:    viper.GetString("log_level"),
	}

	// Apply defaults if not set
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	files := make([]string, 0, len(c.ConfigFiles))
	for _, file := range c.ConfigFiles {
		if file == "" {
			continue
		}

		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("invalid config file path: %v", err)
		}

		files = append(files, abs)
	}

	if len(files) == 0 {
		return fmt.Errorf("no asset config file specified")
	}

	c.ConfigFiles = files

	if c.TmpPath != "" {
		abs, err := filepath.Abs(c.TmpPath)
		if err != nil {
			return fmt.Errorf("invalid tmp path: %v", err)
		}

		c.TmpPath = abs
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
		c.LogFormat = strings.ToLower(c.LogFormat)
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}

	return nil
}
