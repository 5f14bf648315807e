package config

import (
	"maps"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/utils"
)

// Extension holds the defaults shared by every target of one extension class
type Extension struct {
	// Search paths, may contain glob patterns
	Paths []string

	// Directory built targets are written into
	CachePath string

	// Filters applied before any target specific filter
	Filters []string

	// Embed a version timestamp in output file names
	Timestamp bool
}

// TargetConfig is the raw declaration of one build target
type TargetConfig struct {
	Files   []string
	Filters []string
	Paths   []string
	Theme   bool
	Extend  string
	Require []string
}

// Registry holds extension defaults, target declarations and filter settings.
// Extends are merged by ResolveExtends once every target is loaded.
type Registry struct {
	extensions    map[string]Extension
	filters       map[string]map[string]any
	targets       map[string]TargetConfig
	resolved      map[string]TargetConfig
	order         []string
	constants     map[string]string
	theme         string
	timestampPath string
	modTime       time.Time
}

// NewRegistry creates a registry with the conventional js and css defaults
func NewRegistry() *Registry {
	return &Registry{
		extensions: map[string]Extension{
			"js":  {Paths: []string{"js/*"}},
			"css": {Paths: []string{"css/*"}},
		},
		filters:   make(map[string]map[string]any),
		targets:   make(map[string]TargetConfig),
		constants: make(map[string]string),
	}
}

// Ext returns the extension class of a target name
func (r *Registry) Ext(name string) string {
	return utils.Ext(name)
}

// AddConstants registers path constants such as WEBROOT. Names are upper-cased.
func (r *Registry) AddConstants(constants map[string]string) {
	sep := string(filepath.Separator)

	for name, value := range constants {
		if name == "" {
			continue
		}

		if value != sep && value != "/" {
			value = strings.TrimRight(value, "/"+sep)
		}

		r.constants[strings.ToUpper(name)] = value
	}
}

// Constants returns a copy of the registered path constants
func (r *Registry) Constants() map[string]string {
	return maps.Clone(r.constants)
}

// ReplaceConstants substitutes registered constants in path, longest name first
func (r *Registry) ReplaceConstants(path string) string {
	if len(r.constants) == 0 {
		return path
	}

	names := make([]string, 0, len(r.constants))
	for name := range r.constants {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}

		return names[i] < names[j]
	})

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, r.constants[name])
	}

	return strings.NewReplacer(pairs...).Replace(path)
}

func (r *Registry) replaceAll(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		result = append(result, r.ReplaceConstants(p))
	}

	return result
}

func (r *Registry) dirPath(path string) string {
	if path == "" {
		return ""
	}

	return strings.TrimRight(r.ReplaceConstants(path), "/"+string(filepath.Separator)) + string(filepath.Separator)
}

// AddExtension adds or replaces an extension definition
func (r *Registry) AddExtension(ext string, def Extension) {
	def.Paths = r.replaceAll(def.Paths)
	def.Filters = slices.Clone(def.Filters)
	def.CachePath = r.dirPath(def.CachePath)
	r.extensions[ext] = def
}

// Extension returns the definition of an extension class
func (r *Registry) Extension(ext string) (Extension, bool) {
	def, ok := r.extensions[ext]
	return def, ok
}

// Extensions returns the known extension classes, sorted
func (r *Registry) Extensions() []string {
	exts := slices.Collect(maps.Keys(r.extensions))
	sort.Strings(exts)

	return exts
}

// Filters returns the filters configured for an extension
func (r *Registry) Filters(ext string) []string {
	return slices.Clone(r.extensions[ext].Filters)
}

// SetFilters replaces the filters of an extension
func (r *Registry) SetFilters(ext string, filters []string) {
	def := r.extensions[ext]
	def.Filters = slices.Clone(filters)
	r.extensions[ext] = def
}

// CachePath returns the output directory for an extension, with trailing separator
func (r *Registry) CachePath(ext string) string {
	return r.extensions[ext].CachePath
}

// SetCachePath sets the output directory for an extension
func (r *Registry) SetCachePath(ext, path string) {
	def := r.extensions[ext]
	def.CachePath = r.dirPath(path)
	r.extensions[ext] = def
}

// Timestamp reports whether timestamp versioning is enabled for an extension
func (r *Registry) Timestamp(ext string) bool {
	return r.extensions[ext].Timestamp
}

// SetTimestamp toggles timestamp versioning for an extension
func (r *Registry) SetTimestamp(ext string, enabled bool) {
	def := r.extensions[ext]
	def.Timestamp = enabled
	r.extensions[ext] = def
}

// Timestamps returns the extension -> enabled map used by writers
func (r *Registry) Timestamps() map[string]bool {
	result := make(map[string]bool, len(r.extensions))
	for ext, def := range r.extensions {
		result[ext] = def.Timestamp
	}

	return result
}

// TimestampPath returns the directory holding the timestamp record
func (r *Registry) TimestampPath() string {
	return r.timestampPath
}

// SetTimestampPath sets the directory holding the timestamp record
func (r *Registry) SetTimestampPath(path string) {
	r.timestampPath = r.dirPath(path)
}

// Paths returns the search paths for an extension, followed by the target's
// own paths when target is not empty
func (r *Registry) Paths(ext, target string) []string {
	paths := slices.Clone(r.extensions[ext].Paths)
	if target != "" {
		paths = append(paths, r.target(target).Paths...)
	}

	return utils.Unique(paths)
}

// AddTarget declares a build target. ResolveExtends must run afterwards.
func (r *Registry) AddTarget(name string, cfg TargetConfig) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Config("", "target name cannot be empty", nil)
	}

	cfg.Files = slices.Clone(cfg.Files)
	cfg.Filters = slices.Clone(cfg.Filters)
	cfg.Require = slices.Clone(cfg.Require)
	cfg.Paths = r.replaceAll(cfg.Paths)

	if _, ok := r.targets[name]; !ok {
		r.order = append(r.order, name)
	}

	r.targets[name] = cfg
	r.resolved = nil

	return nil
}

// HasTarget checks if the named target exists
func (r *Registry) HasTarget(name string) bool {
	_, ok := r.targets[name]
	return ok
}

// Targets returns the declared target names in declaration order
func (r *Registry) Targets() []string {
	return slices.Clone(r.order)
}

// target returns the resolved declaration when available, else the raw one
func (r *Registry) target(name string) TargetConfig {
	if cfg, ok := r.resolved[name]; ok {
		return cfg
	}

	return r.targets[name]
}

// Files returns the declared files of a target
func (r *Registry) Files(name string) []string {
	return slices.Clone(r.target(name).Files)
}

// Requires returns the targets whose compiled output is embedded in name.
// Unlike extends, required targets are compiled, not merged.
func (r *Registry) Requires(name string) []string {
	return slices.Clone(r.target(name).Require)
}

// TargetFilters returns the extension filters followed by the target's filters
func (r *Registry) TargetFilters(name string) []string {
	return utils.Merge(r.extensions[r.Ext(name)].Filters, r.target(name).Filters)
}

// IsThemed checks if a build target is themed
func (r *Registry) IsThemed(name string) bool {
	return r.target(name).Theme
}

// AllFilters returns every filter name used by an extension or a target
func (r *Registry) AllFilters() []string {
	var all []string
	for _, ext := range r.Extensions() {
		all = append(all, r.extensions[ext].Filters...)
	}

	for _, name := range r.order {
		all = append(all, r.target(name).Filters...)
	}

	return utils.Unique(all)
}

// FilterConfig returns the settings of a filter, matched case-insensitively
func (r *Registry) FilterConfig(name string) map[string]any {
	return maps.Clone(r.filters[utils.FoldName(name)])
}

// SetFilterConfig replaces the settings of a filter. Path constants are
// substituted in string values.
func (r *Registry) SetFilterConfig(name string, settings map[string]any) {
	r.filters[utils.FoldName(name)] = r.replaceSettings(settings)
}

func (r *Registry) replaceSettings(settings map[string]any) map[string]any {
	result := make(map[string]any, len(settings))
	for k, v := range settings {
		result[k] = r.replaceValue(v)
	}

	return result
}

func (r *Registry) replaceValue(v any) any {
	switch val := v.(type) {
	case string:
		return r.ReplaceConstants(val)
	case []string:
		return r.replaceAll(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = r.replaceValue(item)
		}
		return out
	case map[string]any:
		return r.replaceSettings(val)
	default:
		return v
	}
}

// Theme returns the active theme
func (r *Registry) Theme() string {
	return r.theme
}

// SetTheme sets the active theme for building assets
func (r *Registry) SetTheme(theme string) {
	r.theme = theme
}

// ModifiedTime returns the newest modification time of the loaded config files
func (r *Registry) ModifiedTime() time.Time {
	return r.modTime
}

// Touch records the modification time of a loaded config source
func (r *Registry) Touch(t time.Time) {
	if t.After(r.modTime) {
		r.modTime = t
	}
}
