package filter

import (
	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/process"
)

// ScssFilter compiles .scss files with the sass executable
type ScssFilter struct {
	Base
}

// NewScssFilter creates a ScssFilter
func NewScssFilter() *ScssFilter {
	return &ScssFilter{Base: NewBase("ScssFilter", map[string]any{
		"ext":     ".scss",
		"sass":    "/usr/bin/sass",
		"path":    "/usr/bin",
		"paths":   []string{},
		"imports": []string{},
	})}
}

// Clone returns a copy with its own settings
func (f *ScssFilter) Clone() Filter {
	return &ScssFilter{Base: f.Base.clone()}
}

// HasDependencies reports true, imported partials are dependencies
func (f *ScssFilter) HasDependencies() bool {
	return true
}

// Dependencies returns the imported scss files, including _partials
func (f *ScssFilter) Dependencies(t *asset.Target) ([]asset.Source, error) {
	return newCSSDependencies(f.String("ext"), "_", f.Strings("paths"), f.Strings("imports")).collect(t)
}

// Input compiles a .scss file
func (f *ScssFilter) Input(filename, content string) (string, error) {
	if !f.matchesExt(filename) {
		return content, nil
	}

	var args []string
	for _, dir := range f.Strings("imports") {
		args = append(args, "--load-path="+dir)
	}
	args = append(args, filename)

	cmd := process.Parse(f.String("sass"), args...)
	cmd.Env = f.pathEnv()

	return f.run(filename, cmd)
}
