package filter

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/scanner"
)

// importPattern matches @import "x"; @import 'x'; @import url("x") and
// @import url('x'), optionally followed by a media query
var importPattern = regexp.MustCompile(`(?m)^\s*@import\s*(?:'([^']+)'|"([^"]+)"|url\(\s*'([^']+)'\s*\)|url\(\s*"([^"]+)"\s*\))(\s[^;\n]*)?;`)

// ExtractImports returns the names referenced by @import directives, in order
func ExtractImports(css string) []string {
	var imports []string

	for _, m := range importPattern.FindAllStringSubmatch(css, -1) {
		if name := importName(m); name != "" {
			imports = append(imports, name)
		}
	}

	return imports
}

func importName(match []string) string {
	for _, group := range match[1:5] {
		if group != "" {
			return group
		}
	}

	return ""
}

// cssDependencies discovers the files a preprocessor pulls in through
// @import. Imports that cannot be found are skipped, plain .css imports are
// left alone.
type cssDependencies struct {
	// Preprocessor extension, e.g. ".scss"
	ext string

	// Optional partial prefix, e.g. "_" for sass partials
	prefix string

	scanner *scanner.Scanner
}

// newCSSDependencies searches the target paths first, then the extra
// import directories
func newCSSDependencies(ext, prefix string, paths, imports []string) cssDependencies {
	return cssDependencies{ext: ext, prefix: prefix, scanner: scanner.New(slices.Concat(paths, imports))}
}

func (d cssDependencies) collect(t *asset.Target) ([]asset.Source, error) {
	seen := make(map[string]bool)
	var children []asset.Source

	for _, src := range t.Sources() {
		content, err := src.Contents()
		if err != nil {
			return nil, err
		}

		children = append(children, d.scan(content, seen)...)
	}

	return children, nil
}

func (d cssDependencies) scan(content string, seen map[string]bool) []asset.Source {
	var children []asset.Source

	for _, name := range d.candidates(ExtractImports(content)) {
		path, ok := d.scanner.FindInPaths(name)
		if !ok {
			continue
		}

		local, err := asset.NewLocal(path)
		if err != nil {
			continue
		}

		if seen[path] {
			continue
		}
		seen[path] = true
		children = append(children, local)

		if !strings.HasSuffix(name, d.ext) {
			continue
		}

		nested, err := local.Contents()
		if err != nil {
			continue
		}

		children = append(children, d.scan(nested, seen)...)
	}

	return children
}

// candidates turns import names into file names to probe
func (d cssDependencies) candidates(imports []string) []string {
	var names []string

	for _, name := range imports {
		if strings.HasSuffix(name, ".css") {
			continue
		}

		if !strings.HasSuffix(name, d.ext) {
			name += d.ext
		}

		names = append(names, name)
		if d.prefix != "" {
			names = append(names, prefixed(name, d.prefix))
		}
	}

	return names
}

// prefixed adds prefix to the file part of name unless it already has it
func prefixed(name, prefix string) string {
	dir, file := filepath.Split(filepath.FromSlash(name))
	if strings.HasPrefix(file, prefix) {
		return name
	}

	return dir + prefix + file
}
