package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources
type Loader struct {
	userConfigDir func() (string, error)
	workingDir    func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		userConfigDir: os.UserConfigDir,
		workingDir:    os.Getwd,
	}
}

// LoadForCommand loads configuration for a command run
func (l *Loader) LoadForCommand(cmd *cobra.Command) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig()
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("log_format", DefaultLogFormat)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("force", DefaultForce)
	viper.SetDefault("debug", DefaultDebug)
	viper.SetDefault("verbose", DefaultVerbose)
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() {
	base, err := l.userConfigDir()
	if err != nil || base == "" {
		return
	}

	globalDir := filepath.Join(base, "apc")

	for _, ext := range ConfigExts {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}
}

// loadLocalConfig loads the project config found from the working directory.
// The same file doubles as the default asset registry.
func (l *Loader) loadLocalConfig() {
	dir, err := l.workingDir()
	if err != nil {
		return // silently ignore, config.Load() will handle validation
	}

	localPath := FindLocalConfig(dir)
	if localPath == "" {
		return
	}

	viper.SetConfigFile(localPath)
	if err := viper.MergeInConfig(); err != nil {
		return
	}

	viper.SetDefault("config", []string{localPath})
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	for key, flag := range map[string]string{
		"config":     "config",
		"theme":      "theme",
		"tmp_path":   "tmp-path",
		"force":      "force",
		"debug":      "debug",
		"verbose":    "verbose",
		"log_format": "log-format",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
