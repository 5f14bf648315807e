package filter

import (
	"strings"

	"github.com/Norgate-AV/apc/internal/process"
)

// Uglifyjs minifies the concatenated JavaScript output
type Uglifyjs struct {
	Base
	files []string
}

// NewUglifyjs creates an Uglifyjs filter
func NewUglifyjs() *Uglifyjs {
	return &Uglifyjs{Base: NewBase("Uglifyjs", map[string]any{
		"node":       "/usr/local/bin/node",
		"uglify":     "/usr/local/bin/uglifyjs",
		"node_path":  "/usr/local/lib/node_modules",
		"version":    1,
		"options":    "",
		"create_map": false,
		"source_map": "",
	})}
}

// Clone returns a copy with its own settings and no recorded files
func (f *Uglifyjs) Clone() Filter {
	return &Uglifyjs{Base: f.Base.clone()}
}

// Input records the file for source maps and returns content unchanged
func (f *Uglifyjs) Input(filename, content string) (string, error) {
	f.files = append(f.files, filename)
	return content, nil
}

// Output minifies content. With create_map the recorded files are passed
// to uglifyjs directly so it can emit a source map.
func (f *Uglifyjs) Output(target, content string) (string, error) {
	line := f.String("node") + " " + f.String("uglify")

	if f.Bool("create_map") {
		line += " " + strings.Join(f.files, " ") + " " + f.String("options") + " " + f.String("source_map")
		content = ""
	} else {
		if f.Int("version") <= 1 {
			line += " -"
		}
		line += " " + f.String("options")
	}

	cmd := process.Parse(line)
	cmd.Env = f.nodeEnv()
	cmd.Stdin = content

	return f.run(target, cmd)
}
