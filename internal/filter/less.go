package filter

import (
	"os"
	"slices"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/process"
)

// LessCss compiles .less files with lessc, reading the source from stdin
type LessCss struct {
	Base
}

// NewLessCss creates a LessCss filter
func NewLessCss() *LessCss {
	return &LessCss{Base: NewBase("LessCss", map[string]any{
		"ext":       ".less",
		"lessc":     "/usr/local/bin/lessc",
		"node_path": "/usr/local/lib/node_modules",
		"paths":     []string{},
		"imports":   []string{},
	})}
}

// Clone returns a copy with its own settings
func (f *LessCss) Clone() Filter {
	return &LessCss{Base: f.Base.clone()}
}

// HasDependencies reports true, imported files are dependencies
func (f *LessCss) HasDependencies() bool {
	return true
}

// Dependencies returns the imported less files
func (f *LessCss) Dependencies(t *asset.Target) ([]asset.Source, error) {
	return newCSSDependencies(f.String("ext"), "", f.Strings("paths"), f.Strings("imports")).collect(t)
}

// Input compiles a .less file
func (f *LessCss) Input(filename, content string) (string, error) {
	if !f.matchesExt(filename) {
		return content, nil
	}

	var args []string
	if paths := f.includePaths(); len(paths) > 0 {
		args = append(args, "--include-path="+strings.Join(paths, string(os.PathListSeparator)))
	}
	args = append(args, "-")

	cmd := process.Parse(f.String("lessc"), args...)
	cmd.Env = f.nodeEnv()
	cmd.Stdin = content

	return f.run(filename, cmd)
}

// includePaths strips trailing glob segments from the search paths and
// appends the extra import directories
func (f *LessCss) includePaths() []string {
	dirs := slices.Concat(f.Strings("paths"), f.Strings("imports"))

	var paths []string
	for _, p := range dirs {
		p = strings.TrimSuffix(strings.TrimSuffix(p, "*"), "/")
		if p != "" {
			paths = append(paths, p)
		}
	}

	return paths
}
