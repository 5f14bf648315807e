package task

import (
	"github.com/Norgate-AV/apc/internal/cache"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/factory"
	"github.com/Norgate-AV/apc/internal/logging"
	"github.com/Norgate-AV/apc/internal/utils"
)

// Clear removes build timestamps and built files
type Clear struct {
	factory *factory.Factory
	logger  logging.Logger
}

// NewClear creates a clear task
func NewClear(f *factory.Factory, logger logging.Logger) *Clear {
	if logger == nil {
		logger = logging.Discard()
	}

	return &Clear{factory: f, logger: logger.WithComponent("clear")}
}

// Run clears the timestamp record, then deletes every file named after a
// target, versioned or not, from each extension's cache path and from the
// compiled cache. It returns the deleted paths.
func (c *Clear) Run() ([]string, error) {
	writer, err := c.factory.Writer()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("clearing build timestamps")
	if err := writer.ClearTimestamps(); err != nil {
		return nil, err
	}

	cfg := c.factory.Config()

	targets := cfg.Targets()
	if len(targets) == 0 {
		return nil, apperrors.Config("", "no build targets defined", nil)
	}

	names := make([]string, 0, len(targets))
	for _, name := range targets {
		names = append(names, name)
		if cfg.IsThemed(name) && cfg.Theme() != "" {
			names = append(names, cfg.Theme()+"-"+name)
		}
	}

	var dirs []string
	for _, ext := range cfg.Extensions() {
		if path := cfg.CachePath(ext); path != "" {
			dirs = append(dirs, path)
		}
	}

	if cacher, err := c.factory.Cacher(); err == nil {
		dirs = append(dirs, cacher.OutputDir())
	}

	var removed []string

	for _, dir := range utils.Unique(dirs) {
		deleted, err := cache.ClearArtifacts(dir, names)
		removed = append(removed, deleted...)

		for _, path := range deleted {
			c.logger.Info("deleted", "file", path)
		}

		if err != nil {
			return removed, err
		}
	}

	return removed, nil
}
