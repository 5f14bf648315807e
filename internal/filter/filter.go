// Package filter implements the content transforms applied to asset sources
// and to the concatenated output of a target.
package filter

import (
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"

	"github.com/Norgate-AV/apc/internal/asset"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/logging"
	"github.com/Norgate-AV/apc/internal/process"
)

// Filter is a named, configurable transform.
//
// Input runs once per source file, Output once on the concatenated result.
// Settings merges the given settings when non-empty and returns a copy of the
// current ones. Clone returns an independent copy whose settings can be
// changed without affecting the original.
type Filter interface {
	Name() string
	Input(filename, content string) (string, error)
	Output(target, content string) (string, error)
	Settings(settings map[string]any) map[string]any
	HasDependencies() bool
	Dependencies(t *asset.Target) ([]asset.Source, error)
	Clone() Filter
}

// Base provides settings storage and pass-through transforms.
// Concrete filters embed it and override what they need.
type Base struct {
	name     string
	settings map[string]any
	runner   *process.Runner
	logger   logging.Logger
}

// NewBase creates a base with the given name and default settings
func NewBase(name string, defaults map[string]any) Base {
	return Base{
		name:     name,
		settings: copySettings(defaults),
		runner:   process.NewRunner(),
		logger:   logging.Discard(),
	}
}

// Name returns the registered filter name
func (b *Base) Name() string {
	return b.name
}

// Settings merges settings over the current ones and returns a copy
func (b *Base) Settings(settings map[string]any) map[string]any {
	if b.settings == nil {
		b.settings = make(map[string]any)
	}

	for k, v := range copySettings(settings) {
		b.settings[k] = v
	}

	return copySettings(b.settings)
}

// Input returns content unchanged
func (b *Base) Input(_, content string) (string, error) {
	return content, nil
}

// Output returns content unchanged
func (b *Base) Output(_, content string) (string, error) {
	return content, nil
}

// HasDependencies reports whether Dependencies returns anything useful
func (b *Base) HasDependencies() bool {
	return false
}

// Dependencies returns no dependencies
func (b *Base) Dependencies(_ *asset.Target) ([]asset.Source, error) {
	return nil, nil
}

// Use sets the process runner and logger used by the filter
func (b *Base) Use(runner *process.Runner, logger logging.Logger) {
	if runner != nil {
		b.runner = runner
	}

	if logger != nil {
		b.logger = logger
	}
}

// clone returns a copy of the base with its own settings map
func (b *Base) clone() Base {
	c := *b
	c.settings = copySettings(b.settings)

	return c
}

func (b *Base) get(key string) any {
	return b.settings[key]
}

// String returns a setting as a string. Boolean false reads as empty.
func (b *Base) String(key string) string {
	v := b.get(key)
	if flag, ok := v.(bool); ok && !flag {
		return ""
	}

	return cast.ToString(v)
}

// Bool returns a setting as a bool
func (b *Base) Bool(key string) bool {
	return cast.ToBool(b.get(key))
}

// Int returns a setting as an int
func (b *Base) Int(key string) int {
	return cast.ToInt(b.get(key))
}

// Strings returns a setting as a string slice
func (b *Base) Strings(key string) []string {
	return cast.ToStringSlice(b.get(key))
}

// matchesExt reports whether filename carries the configured "ext" setting
func (b *Base) matchesExt(filename string) bool {
	return strings.HasSuffix(filename, b.String("ext"))
}

// run executes cmd and returns its stdout. Failures become filter errors
// carrying the captured stderr.
func (b *Base) run(path string, cmd process.Command) (string, error) {
	b.logger.Debug("running filter command", "filter", b.name, "command", cmd.String())

	result, err := b.runner.Run(cmd)
	if err != nil {
		return "", apperrors.Filter(b.name, path, err)
	}

	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		b.logger.Warn(nil, "filter command wrote to stderr", "filter", b.name, "path", path, "stderr", stderr)
	}

	return result.Stdout, nil
}

// pathEnv builds the PATH override from the "path" setting
func (b *Base) pathEnv() map[string]string {
	if p := b.String("path"); p != "" {
		return map[string]string{"PATH": p}
	}

	return nil
}

// nodeEnv builds the NODE_PATH override from the "node_path" setting
func (b *Base) nodeEnv() map[string]string {
	if p := b.String("node_path"); p != "" {
		return map[string]string{"NODE_PATH": p}
	}

	return nil
}

func copySettings(settings map[string]any) map[string]any {
	result := make(map[string]any, len(settings))
	for k, v := range settings {
		result[k] = copyValue(v)
	}

	return result
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copySettings(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case map[string]string:
		return maps.Clone(val)
	default:
		return v
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirOf(filename string) string {
	return filepath.Dir(filename) + string(filepath.Separator)
}
