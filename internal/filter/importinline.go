package filter

import (
	"fmt"
	"os"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/scanner"
)

// ImportInline replaces CSS @import directives with the imported file
type ImportInline struct {
	Base
	loaded map[string]bool
}

// NewImportInline creates an ImportInline filter
func NewImportInline() *ImportInline {
	return &ImportInline{
		Base:   NewBase("ImportInline", nil),
		loaded: make(map[string]bool),
	}
}

// Clone returns a copy with its own settings and an empty include record
func (f *ImportInline) Clone() Filter {
	return &ImportInline{Base: f.Base.clone(), loaded: make(map[string]bool)}
}

// HasDependencies reports true, imported files are dependencies
func (f *ImportInline) HasDependencies() bool {
	return true
}

// Input inlines every import found on the search paths. Files already
// inlined by this chain are dropped.
func (f *ImportInline) Input(filename, content string) (string, error) {
	matches := importPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	s := scanner.New(f.Strings("paths"))

	var sb strings.Builder
	last := 0

	for _, m := range matches {
		sb.WriteString(content[last:m[0]])
		last = m[1]

		required := submatch(content, m)
		file, ok := s.FindInPaths(required)
		if !ok {
			return "", apperrors.Filter(f.Name(), filename, fmt.Errorf("could not find dependency %q", required))
		}

		if f.loaded[file] {
			continue
		}
		f.loaded[file] = true

		data, err := os.ReadFile(file)
		if err != nil {
			return "", apperrors.Filter(f.Name(), file, err)
		}

		inlined, err := f.Input(file, string(data))
		if err != nil {
			return "", err
		}

		sb.WriteString(inlined)
	}

	sb.WriteString(content[last:])

	return sb.String(), nil
}

// Dependencies returns the imported files that can be found, transitively
func (f *ImportInline) Dependencies(t *asset.Target) ([]asset.Source, error) {
	s := scanner.New(f.Strings("paths"))
	seen := make(map[string]bool)
	var children []asset.Source

	var walk func(content string)
	walk = func(content string) {
		for _, name := range ExtractImports(content) {
			file, ok := s.FindInPaths(name)
			if !ok || seen[file] {
				continue
			}
			seen[file] = true

			dep, err := asset.NewLocal(file)
			if err != nil {
				continue
			}
			children = append(children, dep)

			if nested, err := dep.Contents(); err == nil {
				walk(nested)
			}
		}
	}

	for _, src := range t.Sources() {
		content, err := src.Contents()
		if err != nil {
			return nil, err
		}

		walk(content)
	}

	return children, nil
}

// submatch returns the first non-empty name group of an import match
func submatch(content string, m []int) string {
	for g := 1; g <= 4; g++ {
		if m[2*g] >= 0 {
			return content[m[2*g]:m[2*g+1]]
		}
	}

	return ""
}
