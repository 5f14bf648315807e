// Package asset holds the build target model and its source variants.
package asset

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Norgate-AV/apc/internal/utils"
)

// Target is a named, buildable output asset with an ordered source list.
// A Target is immutable once constructed; it is re-resolved on every build.
type Target struct {
	path    string
	sources []Source
	filters []string
	paths   []string
	themed  bool
}

// NewTarget creates a target writing to path (output directory + name)
func NewTarget(path string, sources []Source, filters, paths []string, themed bool) *Target {
	return &Target{
		path:    path,
		sources: append([]Source(nil), sources...),
		filters: append([]string(nil), filters...),
		paths:   append([]string(nil), paths...),
		themed:  themed,
	}
}

// Path returns the configured output path
func (t *Target) Path() string {
	return t.path
}

// Name returns the target's file name, e.g. "libs.js"
func (t *Target) Name() string {
	return filepath.Base(t.path)
}

// OutputDir returns the directory the target is written into
func (t *Target) OutputDir() string {
	return filepath.Dir(t.path)
}

// Ext returns the extension class, e.g. "js"
func (t *Target) Ext() string {
	return utils.Ext(t.Name())
}

// Sources returns the ordered source list
func (t *Target) Sources() []Source {
	return append([]Source(nil), t.sources...)
}

// FilterNames returns the ordered filter names
func (t *Target) FilterNames() []string {
	return append([]string(nil), t.filters...)
}

// Paths returns the search paths used to resolve the target
func (t *Target) Paths() []string {
	return append([]string(nil), t.paths...)
}

// IsThemed reports whether the output name gets the active theme prefix
func (t *Target) IsThemed() bool {
	return t.themed
}

// ModifiedTime returns the modification time of the un-versioned output file,
// or the zero time if it has not been built.
func (t *Target) ModifiedTime() time.Time {
	info, err := os.Stat(t.path)
	if err != nil {
		return time.Time{}
	}

	return info.ModTime()
}

// SourcesModifiedTime returns the newest modification time over all sources,
// descending into nested targets.
func (t *Target) SourcesModifiedTime() (time.Time, error) {
	var newest time.Time

	for _, s := range t.sources {
		mt, err := s.ModifiedTime()
		if err != nil {
			return time.Time{}, err
		}

		if mt.After(newest) {
			newest = mt
		}
	}

	return newest, nil
}
