// Package task implements the build and clear operations run by the CLI.
package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/cache"
	"github.com/Norgate-AV/apc/internal/compiler"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/factory"
	"github.com/Norgate-AV/apc/internal/logging"
)

// Result lists what happened to each target of a build
type Result struct {
	Built   []string
	Skipped []string
	Failed  map[string]error
}

// Err returns an error naming the failed targets, or nil
func (r *Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Errorf("%d target(s) failed: %s", len(names), strings.Join(names, ", "))
}

// Build compiles targets and writes them to their output directories
type Build struct {
	factory *factory.Factory
	logger  logging.Logger
	force   bool
}

// NewBuild creates a build task. With force set, fresh targets are rebuilt.
func NewBuild(f *factory.Factory, logger logging.Logger, force bool) *Build {
	if logger == nil {
		logger = logging.Discard()
	}

	return &Build{
		factory: f,
		logger:  logger.WithComponent("build"),
		force:   force,
	}
}

// Run builds the named targets, or every target when names is empty.
// A failing target is logged and recorded in the result; the remaining
// targets are still built.
func (b *Build) Run(names ...string) (*Result, error) {
	collection := b.factory.Collection()
	if collection.Len() == 0 {
		return nil, apperrors.Config("", "no build targets defined", nil)
	}

	if len(names) == 0 {
		names = collection.Names()
	}

	for _, name := range names {
		if !collection.Contains(name) {
			return nil, apperrors.Config(name, fmt.Sprintf("there is no '%s' target defined", name), apperrors.ErrMissingTarget)
		}
	}

	writer, err := b.factory.Writer()
	if err != nil {
		return nil, err
	}

	cc, err := b.factory.CachedCompiler()
	if err != nil {
		return nil, err
	}

	result := &Result{Failed: make(map[string]error)}

	for _, name := range names {
		t, err := collection.Get(name)
		if err != nil {
			b.logger.Error(err, "failed to resolve target", "target", name)
			result.Failed[name] = err
			continue
		}

		built, err := b.buildTarget(writer, cc, t)
		if err != nil {
			b.logger.Error(err, "failed to build target", "target", name)
			result.Failed[name] = err
			continue
		}

		if built {
			result.Built = append(result.Built, name)
		} else {
			result.Skipped = append(result.Skipped, name)
		}
	}

	return result, nil
}

func (b *Build) buildTarget(writer *cache.Writer, cc *compiler.CachedCompiler, t *asset.Target) (bool, error) {
	if !b.force && writer.IsFresh(t) {
		name, _ := writer.BuildFileName(t, true)
		b.logger.Debug("skip building, existing file is still fresh", "target", t.Name(), "file", name)
		return false, nil
	}

	if err := writer.Invalidate(t); err != nil {
		return false, err
	}

	content, err := cc.Generate(t)
	if err == nil {
		err = writer.Write(t, content)
	}

	if err != nil {
		if ferr := writer.Finalize(t); ferr != nil {
			b.logger.Warn(ferr, "failed to restore timestamp", "target", t.Name())
		}

		return false, err
	}

	name, err := writer.BuildFileName(t, true)
	if err != nil {
		return false, err
	}

	b.logger.Info("saved file", "target", t.Name(), "file", name)

	return true, nil
}
