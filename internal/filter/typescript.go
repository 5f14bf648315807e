package filter

import (
	"os"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/process"
)

// TypeScript compiles .ts files with tsc
type TypeScript struct {
	Base
}

// NewTypeScript creates a TypeScript filter
func NewTypeScript() *TypeScript {
	return &TypeScript{Base: NewBase("TypeScript", map[string]any{
		"ext":        ".ts",
		"typescript": "/usr/local/bin/tsc",
	})}
}

// Clone returns a copy with its own settings
func (f *TypeScript) Clone() Filter {
	return &TypeScript{Base: f.Base.clone()}
}

// Input compiles a .ts file into a temporary file and returns its contents
func (f *TypeScript) Input(filename, content string) (string, error) {
	if !f.matchesExt(filename) {
		return content, nil
	}

	tmp, err := os.CreateTemp("", "apc-typescript-*.js")
	if err != nil {
		return "", apperrors.Filter(f.Name(), filename, err)
	}
	out := tmp.Name()
	tmp.Close()
	defer os.Remove(out)

	if _, err := f.run(filename, process.Parse(f.String("typescript"), filename, "--outFile", out)); err != nil {
		return "", err
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return "", apperrors.Filter(f.Name(), filename, err)
	}

	return string(data), nil
}
