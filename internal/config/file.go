package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
)

// keyDelimiter keeps dotted target names such as "libs.js" intact
const keyDelimiter = "::"

// fileConfig is the on-disk layout of an asset registry file
type fileConfig struct {
	General    generalConfig              `mapstructure:"general"`
	Constants  map[string]string          `mapstructure:"constants"`
	Extensions map[string]extensionConfig `mapstructure:"extensions"`
	Filters    map[string]map[string]any  `mapstructure:"filters"`
	Targets    []targetConfig             `mapstructure:"targets"`
}

type generalConfig struct {
	TimestampPath string `mapstructure:"timestamp_path"`
	Theme         string `mapstructure:"theme"`
}

type extensionConfig struct {
	Paths     []string `mapstructure:"paths"`
	CachePath string   `mapstructure:"cache_path"`
	Filters   []string `mapstructure:"filters"`
	Timestamp *bool    `mapstructure:"timestamp"`
}

type targetConfig struct {
	Name    string   `mapstructure:"name"`
	Files   []string `mapstructure:"files"`
	Filters []string `mapstructure:"filters"`
	Paths   []string `mapstructure:"paths"`
	Theme   bool     `mapstructure:"theme"`
	Extend  string   `mapstructure:"extend"`
	Require []string `mapstructure:"require"`
}

// LoadRegistry builds a registry from the given files, in order
func LoadRegistry(paths ...string) (*Registry, error) {
	r := NewRegistry()

	for _, path := range paths {
		if err := r.Load(path, ""); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Load reads one registry file into r, prefixing its target names with prefix.
// Extends are resolved after the file is applied.
func (r *Registry) Load(path, prefix string) error {
	info, err := os.Stat(path)
	if err != nil {
		return apperrors.Config("", fmt.Sprintf("configuration file %q was not found", path), err)
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return apperrors.Config("", fmt.Sprintf("failed to read configuration file %q", path), err)
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return apperrors.Config("", fmt.Sprintf("failed to decode configuration file %q", path), err)
	}

	r.Touch(info.ModTime())

	r.AddConstants(fc.Constants)

	if err := r.apply(fc, prefix); err != nil {
		return err
	}

	return r.ResolveExtends()
}

func (r *Registry) apply(fc fileConfig, prefix string) error {
	for ext, ec := range fc.Extensions {
		def, _ := r.Extension(ext)

		// keys present in the file override the defaults
		if ec.Paths != nil {
			def.Paths = ec.Paths
		}

		if ec.CachePath != "" {
			def.CachePath = ec.CachePath
		}

		if ec.Filters != nil {
			def.Filters = ec.Filters
		}

		if ec.Timestamp != nil {
			def.Timestamp = *ec.Timestamp
		}

		r.AddExtension(ext, def)
	}

	if fc.General.TimestampPath != "" {
		r.SetTimestampPath(fc.General.TimestampPath)
	}

	if fc.General.Theme != "" {
		r.SetTheme(fc.General.Theme)
	}

	for name, settings := range fc.Filters {
		r.SetFilterConfig(name, settings)
	}

	for i, tc := range fc.Targets {
		if tc.Name == "" {
			return apperrors.Config("", fmt.Sprintf("target #%d has no name", i+1), nil)
		}

		err := r.AddTarget(prefix+tc.Name, TargetConfig{
			Files:   tc.Files,
			Filters: tc.Filters,
			Paths:   tc.Paths,
			Theme:   tc.Theme,
			Extend:  tc.Extend,
			Require: tc.Require,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
