// Package compiler turns a resolved target into its output text.
package compiler

import (
	"fmt"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/cache"
	"github.com/Norgate-AV/apc/internal/filter"
)

// Compiler runs a target's sources through its filter chain
type Compiler struct {
	filters *filter.Registry
	debug   bool
}

// New creates a compiler. In debug mode output filters are skipped.
func New(filters *filter.Registry, debug bool) *Compiler {
	return &Compiler{filters: filters, debug: debug}
}

// Generate compiles t: every file source is passed through the chain's
// input step and joined with newlines, then the result goes through the
// output step unless debugging. Required targets are joined as compiled.
func (c *Compiler) Generate(t *asset.Target) (string, error) {
	chain, err := c.filters.Collection(t)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, src := range t.Sources() {
		content, err := src.Contents()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", src.Path(), err)
		}

		// nested targets are already compiled by their own chain
		if src.Kind() != asset.KindTarget {
			content, err = chain.Input(src.Path(), content)
			if err != nil {
				return "", err
			}
		}

		sb.WriteString(content)
		sb.WriteString("\n")
	}

	output := sb.String()

	if !c.debug {
		output, err = chain.Output(t.Path(), output)
		if err != nil {
			return "", err
		}
	}

	return strings.TrimSpace(output), nil
}

// CachedCompiler reuses compiled output kept by a Cacher while it is fresh
type CachedCompiler struct {
	cacher   *cache.Cacher
	compiler *Compiler
}

// NewCached wraps compiler with cacher
func NewCached(cacher *cache.Cacher, compiler *Compiler) *CachedCompiler {
	return &CachedCompiler{cacher: cacher, compiler: compiler}
}

// Generate returns the cached output of t, compiling and caching it first
// when stale
func (c *CachedCompiler) Generate(t *asset.Target) (string, error) {
	if c.cacher.IsFresh(t) {
		return c.cacher.Read(t)
	}

	content, err := c.compiler.Generate(t)
	if err != nil {
		return "", err
	}

	if err := c.cacher.Write(t, content); err != nil {
		return "", err
	}

	return content, nil
}
