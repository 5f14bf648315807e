package filter

import "github.com/Norgate-AV/apc/internal/process"

// CoffeeScript compiles .coffee files, feeding the source on stdin
type CoffeeScript struct {
	Base
}

// NewCoffeeScript creates a CoffeeScript filter
func NewCoffeeScript() *CoffeeScript {
	return &CoffeeScript{Base: NewBase("CoffeeScript", map[string]any{
		"ext":       ".coffee",
		"coffee":    "/usr/local/bin/coffee",
		"node":      "/usr/local/bin/node",
		"node_path": "/usr/local/lib/node_modules",
	})}
}

// Clone returns a copy with its own settings
func (f *CoffeeScript) Clone() Filter {
	return &CoffeeScript{Base: f.Base.clone()}
}

// Input compiles a .coffee file
func (f *CoffeeScript) Input(filename, content string) (string, error) {
	if !f.matchesExt(filename) {
		return content, nil
	}

	cmd := process.Parse(f.String("node"), f.String("coffee"), "-c", "-p", "-s")
	cmd.Env = f.nodeEnv()
	cmd.Stdin = content

	return f.run(filename, cmd)
}
