package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupViper  func()
		wantConfig  *Config
		wantErr     bool
		errContains string
	}{
		{
			name: "load with defaults",
			setupViper: func() {
				viper.Reset()
				viper.Set("config", []string{"assets.yml"})
			},
			wantConfig: &Config{
				ConfigFiles: func() []string {
					abs, _ := filepath.Abs("assets.yml")
					return []string{abs}
				}(),
				LogFormat: DefaultLogFormat,
				LogLevel:  DefaultLogLevel,
			},
		},
		{
			name: "load with custom values",
			setupViper: func() {
				viper.Reset()
				viper.Set("config", []string{"base.yml", "site.yml"})
				viper.Set("theme", "red")
				viper.Set("tmp_path", "tmp/assets")
				viper.Set("force", true)
				viper.Set("debug", true)
				viper.Set("log_format", "JSON")
				viper.Set("log_level", "warn")
			},
			wantConfig: &Config{
				ConfigFiles: func() []string {
					a, _ := filepath.Abs("base.yml")
					b, _ := filepath.Abs("site.yml")
					return []string{a, b}
				}(),
				Theme: "red",
				TmpPath: func() string {
					abs, _ := filepath.Abs("tmp/assets")
					return abs
				}(),
				Force:     true,
				Debug:     true,
				LogFormat: "json",
				LogLevel:  "warn",
			},
		},
		{
			name: "verbose forces debug level",
			setupViper: func() {
				viper.Reset()
				viper.Set("config", []string{"assets.yml"})
				viper.Set("verbose", true)
				viper.Set("log_level", "error")
			},
			wantConfig: &Config{
				ConfigFiles: func() []string {
					abs, _ := filepath.Abs("assets.yml")
					return []string{abs}
				}(),
				Verbose:   true,
				LogFormat: DefaultLogFormat,
				LogLevel:  "debug",
			},
		},
		{
			name: "missing config file",
			setupViper: func() {
				viper.Reset()
			},
			wantErr:     true,
			errContains: "no asset config file specified",
		},
		{
			name: "invalid log format",
			setupViper: func() {
				viper.Reset()
				viper.Set("config", []string{"assets.yml"})
				viper.Set("log_format", "xml")
			},
			wantErr:     true,
			errContains: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupViper()
			defer viper.Reset()

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		errContains string
		checkFields func(*testing.T, *Config)
	}{
		{
			name: "relative paths are resolved",
			config: &Config{
				ConfigFiles: []string{"assets.yml"},
				TmpPath:     "tmp",
				LogFormat:   "text",
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.ConfigFiles[0]))
				assert.True(t, filepath.IsAbs(cfg.TmpPath))
			},
		},
		{
			name: "empty config files are skipped",
			config: &Config{
				ConfigFiles: []string{"", "assets.yml", ""},
				LogFormat:   "text",
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.ConfigFiles, 1)
			},
		},
		{
			name: "empty tmp path stays empty",
			config: &Config{
				ConfigFiles: []string{"assets.yml"},
				LogFormat:   "json",
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.TmpPath)
			},
		},
		{
			name: "only empty config files",
			config: &Config{
				ConfigFiles: []string{""},
				LogFormat:   "text",
			},
			wantErr:     true,
			errContains: "no asset config file specified",
		},
		{
			name: "unknown log format",
			config: &Config{
				ConfigFiles: []string{"assets.yml"},
				LogFormat:   "logfmt",
			},
			wantErr:     true,
			errContains: "invalid log format: logfmt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			if tt.checkFields != nil {
				tt.checkFields(t, tt.config)
			}
		})
	}
}
