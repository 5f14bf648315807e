package filter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/scanner"
)

// requirePattern matches `//= require "file"` (same directory first) and
// `//= require <file>` (search paths only) directives
var requirePattern = regexp.MustCompile(`(?m)^\s?//=\s+require\s+(["<])([^">]+)[">](?:[\r\n]+|[\n]+)`)

// Sprockets inlines required JavaScript files. Each file is included once
// per chain.
type Sprockets struct {
	Base
	loaded map[string]bool
}

// NewSprockets creates a Sprockets filter
func NewSprockets() *Sprockets {
	return &Sprockets{
		Base:   NewBase("Sprockets", nil),
		loaded: make(map[string]bool),
	}
}

// Clone returns a copy with its own settings and an empty include record
func (s *Sprockets) Clone() Filter {
	return &Sprockets{Base: s.Base.clone(), loaded: make(map[string]bool)}
}

// HasDependencies reports true, required files are dependencies
func (s *Sprockets) HasDependencies() bool {
	return true
}

// Input replaces require directives with the required file contents
func (s *Sprockets) Input(filename, content string) (string, error) {
	matches := requirePattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var sb strings.Builder
	last := 0

	for _, m := range matches {
		sb.WriteString(content[last:m[0]])
		last = m[1]

		file, err := s.findFile(content[m[4]:m[5]], content[m[2]:m[3]], filename)
		if err != nil {
			return "", err
		}

		if s.loaded[file] {
			continue
		}
		s.loaded[file] = true

		data, err := os.ReadFile(file)
		if err != nil {
			return "", apperrors.Filter(s.Name(), file, err)
		}

		included, err := s.Input(file, string(data))
		if err != nil {
			return "", err
		}

		if included != "" {
			sb.WriteString(included)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(content[last:])

	return sb.String(), nil
}

// Dependencies returns every file required by the target's sources, transitively
func (s *Sprockets) Dependencies(t *asset.Target) ([]asset.Source, error) {
	seen := make(map[string]bool)
	var children []asset.Source

	var walk func(path, content string) error
	walk = func(path, content string) error {
		for _, m := range requirePattern.FindAllStringSubmatch(content, -1) {
			file, err := s.findFile(m[2], m[1], path)
			if err != nil {
				return err
			}

			if seen[file] {
				continue
			}
			seen[file] = true

			dep, err := asset.NewLocal(file)
			if err != nil {
				return err
			}
			children = append(children, dep)

			nested, err := dep.Contents()
			if err != nil {
				return err
			}

			if err := walk(file, nested); err != nil {
				return err
			}
		}

		return nil
	}

	for _, src := range t.Sources() {
		content, err := src.Contents()
		if err != nil {
			return nil, err
		}

		if err := walk(src.Path(), content); err != nil {
			return nil, err
		}
	}

	return children, nil
}

// findFile locates a required file. Quoted names are looked up next to the
// requiring file before the search paths.
func (s *Sprockets) findFile(name, quote, from string) (string, error) {
	if !strings.HasSuffix(name, "js") {
		name += ".js"
	}

	if quote == `"` {
		if path := dirOf(from) + name; fileExists(path) {
			return path, nil
		}
	}

	if path, ok := scanner.New(s.Strings("paths")).Find(name); ok {
		return path, nil
	}

	return "", apperrors.Filter(s.Name(), from, fmt.Errorf("could not locate file %q", name))
}
