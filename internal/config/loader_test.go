package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(configDir, workDir string) *Loader {
	return &Loader{
		userConfigDir: func() (string, error) { return configDir, nil },
		workingDir:    func() (string, error) { return workDir, nil },
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_SetupViperDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	loader := NewLoader()
	loader.setupViperDefaults()

	assert.Equal(t, "text", viper.GetString("log_format"))
	assert.Equal(t, "info", viper.GetString("log_level"))
	assert.False(t, viper.GetBool("force"))
	assert.False(t, viper.GetBool("debug"))
	assert.False(t, viper.GetBool("verbose"))
}

func TestLoader_LoadGlobalConfig(t *testing.T) {
	tempDir := t.TempDir()
	apcDir := filepath.Join(tempDir, "apc")
	require.NoError(t, os.Mkdir(apcDir, 0o755))

	t.Run("loads yaml config", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		configPath := filepath.Join(apcDir, "config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("theme: blue\nverbose: true\n"), 0o644))
		defer os.Remove(configPath)

		newTestLoader(tempDir, tempDir).loadGlobalConfig()

		assert.Equal(t, "blue", viper.GetString("theme"))
		assert.True(t, viper.GetBool("verbose"))
	})

	t.Run("loads json config", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		configPath := filepath.Join(apcDir, "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"theme": "green", "log_format": "json"}`), 0o644))
		defer os.Remove(configPath)

		newTestLoader(tempDir, tempDir).loadGlobalConfig()

		assert.Equal(t, "green", viper.GetString("theme"))
		assert.Equal(t, "json", viper.GetString("log_format"))
	})

	t.Run("handles missing config dir gracefully", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		loader := &Loader{
			userConfigDir: func() (string, error) { return "", errors.New("no home") },
			workingDir:    os.Getwd,
		}

		assert.NotPanics(t, func() {
			loader.loadGlobalConfig()
		})
		assert.Empty(t, viper.GetString("theme"))
	})
}

func TestLoader_LoadLocalConfig(t *testing.T) {
	t.Run("loads local config and uses it as registry", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, ".apc.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("theme: red\n"), 0o644))

		newTestLoader(t.TempDir(), tempDir).loadLocalConfig()

		assert.Equal(t, "red", viper.GetString("theme"))
		assert.Equal(t, []string{configPath}, viper.GetStringSlice("config"))
	})

	t.Run("walks up directory tree to find config", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		tempDir := t.TempDir()
		subDir := filepath.Join(tempDir, "web", "assets")
		require.NoError(t, os.MkdirAll(subDir, 0o755))

		configPath := filepath.Join(tempDir, ".apc.yml")
		require.NoError(t, os.WriteFile(configPath, []byte("force: true\n"), 0o644))

		newTestLoader(t.TempDir(), subDir).loadLocalConfig()

		assert.True(t, viper.GetBool("force"))
	})

	t.Run("handles working dir error", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		loader := &Loader{
			userConfigDir: os.UserConfigDir,
			workingDir:    func() (string, error) { return "", errors.New("gone") },
		}

		assert.NotPanics(t, func() {
			loader.loadLocalConfig()
		})
		assert.Empty(t, viper.GetStringSlice("config"))
	})
}

func TestLoader_BindCommandFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cmd := &cobra.Command{}
	cmd.Flags().StringSliceP("config", "c", nil, "Asset config files")
	cmd.Flags().StringP("theme", "t", "", "Theme")
	cmd.Flags().BoolP("force", "f", false, "Force")
	cmd.Flags().String("tmp-path", "", "Tmp path")

	require.NoError(t, cmd.Flags().Set("config", "a.yml,b.yml"))
	require.NoError(t, cmd.Flags().Set("theme", "red"))
	require.NoError(t, cmd.Flags().Set("force", "true"))
	require.NoError(t, cmd.Flags().Set("tmp-path", "/tmp/apc"))

	NewLoader().bindCommandFlags(cmd)

	assert.Equal(t, []string{"a.yml", "b.yml"}, viper.GetStringSlice("config"))
	assert.Equal(t, "red", viper.GetString("theme"))
	assert.True(t, viper.GetBool("force"))
	assert.Equal(t, "/tmp/apc", viper.GetString("tmp_path"))

	// Flags not defined on the command are left alone
	assert.False(t, viper.IsSet("debug"))
}

func TestLoader_LoadForCommand_Integration(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	globalDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(globalDir, "apc"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(globalDir, "apc", "config.yml"),
		[]byte("theme: global\nlog_format: json\nverbose: false\n"),
		0o644,
	))

	localDir := t.TempDir()
	localConfig := filepath.Join(localDir, ".apc.yml")
	require.NoError(t, os.WriteFile(localConfig, []byte("theme: local\nverbose: true\n"), 0o644))

	cmd := &cobra.Command{}
	cmd.Flags().StringP("theme", "t", "", "Theme")
	cmd.Flags().BoolP("verbose", "v", false, "Verbose")
	require.NoError(t, cmd.Flags().Set("theme", "flag"))

	cfg, err := newTestLoader(globalDir, localDir).LoadForCommand(cmd)
	require.NoError(t, err)

	// Flag value wins
	assert.Equal(t, "flag", cfg.Theme)

	// Local overrides global
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Global still provides the base
	assert.Equal(t, "json", cfg.LogFormat)

	// Local config doubles as the registry
	assert.Equal(t, []string{localConfig}, cfg.ConfigFiles)
}
