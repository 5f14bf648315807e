package filter

import (
	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/process"
)

// PipeInputFilter runs a command on every matching source file and uses its
// stdout as the file content
type PipeInputFilter struct {
	Base
}

// NewPipeInputFilter creates a PipeInputFilter
func NewPipeInputFilter() *PipeInputFilter {
	return &PipeInputFilter{Base: NewBase("PipeInputFilter", map[string]any{
		"ext":                        ".css",
		"dependencies":               false,
		"optional_dependency_prefix": false,
		"imports":                    []string{},
		"command":                    "/bin/cat",
		"path":                       "/bin",
	})}
}

// Clone returns a copy with its own settings
func (f *PipeInputFilter) Clone() Filter {
	return &PipeInputFilter{Base: f.Base.clone()}
}

// HasDependencies follows the "dependencies" setting
func (f *PipeInputFilter) HasDependencies() bool {
	return f.Bool("dependencies")
}

// Dependencies scans @import directives when dependencies are enabled
func (f *PipeInputFilter) Dependencies(t *asset.Target) ([]asset.Source, error) {
	if !f.HasDependencies() {
		return nil, nil
	}

	return newCSSDependencies(
		f.String("ext"),
		f.String("optional_dependency_prefix"),
		f.Strings("paths"),
		f.Strings("imports"),
	).collect(t)
}

// Input pipes filename through the configured command
func (f *PipeInputFilter) Input(filename, content string) (string, error) {
	if !f.matchesExt(filename) {
		return content, nil
	}

	cmd := process.Parse(f.String("command"), filename)
	cmd.Env = f.pathEnv()

	return f.run(filename, cmd)
}

// PipeOutputFilter feeds the concatenated output to a command's stdin
type PipeOutputFilter struct {
	Base
}

// NewPipeOutputFilter creates a PipeOutputFilter
func NewPipeOutputFilter() *PipeOutputFilter {
	return &PipeOutputFilter{Base: NewBase("PipeOutputFilter", map[string]any{
		"command": "/bin/cat",
		"path":    "/bin",
	})}
}

// Clone returns a copy with its own settings
func (f *PipeOutputFilter) Clone() Filter {
	return &PipeOutputFilter{Base: f.Base.clone()}
}

// Output pipes content through the configured command
func (f *PipeOutputFilter) Output(target, content string) (string, error) {
	cmd := process.Parse(f.String("command"))
	cmd.Env = f.pathEnv()
	cmd.Stdin = content

	return f.run(target, cmd)
}
