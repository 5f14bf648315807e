package filter

import (
	"fmt"
	"sort"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/logging"
	"github.com/Norgate-AV/apc/internal/process"
	"github.com/Norgate-AV/apc/internal/utils"
)

// Builder creates a filter with its default settings
type Builder func() Filter

// configurable is implemented by filters embedding Base
type configurable interface {
	Use(runner *process.Runner, logger logging.Logger)
}

// Catalog maps filter names to builders. Names are matched case-insensitively.
type Catalog struct {
	builders map[string]Builder
	runner   *process.Runner
	logger   logging.Logger
}

// NewCatalog creates a catalog holding the built-in filters
func NewCatalog(runner *process.Runner, logger logging.Logger) *Catalog {
	if runner == nil {
		runner = process.NewRunner()
	}

	if logger == nil {
		logger = logging.Discard()
	}

	c := &Catalog{
		builders: make(map[string]Builder),
		runner:   runner,
		logger:   logger,
	}

	c.Register("Sprockets", func() Filter { return NewSprockets() })
	c.Register("ImportInline", func() Filter { return NewImportInline() })
	c.Register("SimpleCssMin", func() Filter { return NewSimpleCssMin() })
	c.Register("TimestampImage", func() Filter { return NewTimestampImage() })
	c.Register("PipeInputFilter", func() Filter { return NewPipeInputFilter() })
	c.Register("PipeOutputFilter", func() Filter { return NewPipeOutputFilter() })
	c.Register("ScssFilter", func() Filter { return NewScssFilter() })
	c.Register("LessCss", func() Filter { return NewLessCss() })
	c.Register("TypeScript", func() Filter { return NewTypeScript() })
	c.Register("CoffeeScript", func() Filter { return NewCoffeeScript() })
	c.Register("Uglifyjs", func() Filter { return NewUglifyjs() })
	c.Register("JstTemplate", func() Filter { return NewJstTemplate() })

	return c
}

// Register adds or replaces the builder for name
func (c *Catalog) Register(name string, b Builder) {
	c.builders[utils.FoldName(name)] = b
}

// Names returns the known (folded) filter names, sorted
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Build creates the filter registered as name and applies settings
func (c *Catalog) Build(name string, settings map[string]any) (Filter, error) {
	b, ok := c.builders[utils.FoldName(name)]
	if !ok {
		return nil, apperrors.Config("", fmt.Sprintf("unknown filter '%s'", name), apperrors.ErrMissingFilter)
	}

	f := b()
	if cf, ok := f.(configurable); ok {
		cf.Use(c.runner, c.logger.With("filter", f.Name()))
	}

	if len(settings) > 0 {
		f.Settings(settings)
	}

	return f, nil
}

// Registry builds a registry holding one filter per name, each configured
// by settingsFor
func (c *Catalog) Registry(names []string, settingsFor func(name string) map[string]any) (*Registry, error) {
	r := NewRegistry()

	for _, name := range names {
		if r.Contains(name) {
			continue
		}

		f, err := c.Build(name, settingsFor(name))
		if err != nil {
			return nil, err
		}

		r.Add(name, f)
	}

	return r, nil
}
