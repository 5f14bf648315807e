package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/filter"
)

// Options are shared by Cacher and Writer
type Options struct {
	// Theme prefixes the output names of themed targets
	Theme string

	// Filters is used to collect filter dependencies for freshness checks
	Filters *filter.Registry

	// ConfigTime is the registry's last modified time. Zero skips the check.
	ConfigTime time.Time
}

// Cacher keeps compiled targets in a temporary directory
type Cacher struct {
	path  string
	theme string
	fresh freshness
}

// NewCacher creates a cacher storing compiled targets under path
func NewCacher(path string, opts Options) *Cacher {
	return &Cacher{
		path:  path,
		theme: opts.Theme,
		fresh: freshness{filters: opts.Filters, configTime: opts.ConfigTime},
	}
}

// OutputDir returns the cache directory
func (c *Cacher) OutputDir() string {
	return c.path
}

// BuildFileName returns the cached file name of t
func (c *Cacher) BuildFileName(t *asset.Target) string {
	return themedName(t, c.theme)
}

// IsFresh reports whether the cached copy of t can be reused
func (c *Cacher) IsFresh(t *asset.Target) bool {
	return c.fresh.isFresh(t, filepath.Join(c.path, c.BuildFileName(t)))
}

// Write stores compiled content for t
func (c *Cacher) Write(t *asset.Target, content string) error {
	if err := os.MkdirAll(c.path, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	return writeArtifact(c.path, c.BuildFileName(t), content)
}

// Read returns the cached content of t
func (c *Cacher) Read(t *asset.Target) (string, error) {
	return readArtifact(c.path, c.BuildFileName(t))
}
