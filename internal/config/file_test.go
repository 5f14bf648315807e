package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
)

const registryYAML = `
general:
  timestamp_path: /tmp/apc/
  theme: red
constants:
  webroot: /var/www
extensions:
  js:
    paths: [WEBROOT/js/*]
    cache_path: WEBROOT/cache_js
    filters: [Sprockets]
    timestamp: true
  css:
    cache_path: WEBROOT/cache_css
filters:
  Uglifyjs:
    uglify: /usr/local/bin/uglifyjs
targets:
  - name: libs.js
    files: [jquery.js, mootools.js]
    filters: [Uglifyjs]
  - name: page.js
    extend: libs.js
    files: [page.js]
    paths: [WEBROOT/page]
  - name: all.css
    theme: true
    files: [reset.css]
`

func writeRegistry(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadRegistry_YAML(t *testing.T) {
	path := writeRegistry(t, "assets.yml", registryYAML)

	r, err := LoadRegistry(path)
	require.NoError(t, err)

	sep := string(filepath.Separator)

	assert.Equal(t, "red", r.Theme())
	assert.Equal(t, "/tmp/apc"+sep, r.TimestampPath())
	assert.Equal(t, []string{"/var/www/js/*"}, r.Paths("js", ""))
	assert.Equal(t, "/var/www/cache_js"+sep, r.CachePath("js"))
	assert.True(t, r.Timestamp("js"))

	// Keys missing from the file keep the defaults
	assert.Equal(t, []string{"css/*"}, r.Paths("css", ""))
	assert.False(t, r.Timestamp("css"))

	assert.Equal(t, []string{"libs.js", "page.js", "all.css"}, r.Targets())
	assert.Equal(t, []string{"jquery.js", "mootools.js", "page.js"}, r.Files("page.js"))
	assert.Equal(t, []string{"Sprockets", "Uglifyjs"}, r.TargetFilters("page.js"))
	assert.Equal(t, []string{"/var/www/js/*", "/var/www/page"}, r.Paths("js", "page.js"))
	assert.True(t, r.IsThemed("all.css"))

	assert.Equal(t, "/usr/local/bin/uglifyjs", r.FilterConfig("uglifyjs")["uglify"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), r.ModifiedTime())
}

func TestLoadRegistry_JSON(t *testing.T) {
	path := writeRegistry(t, "assets.json", `{
  "extensions": {"js": {"cache_path": "build"}},
  "targets": [{"name": "app.js", "files": ["a.js", "b.js"]}]
}`)

	r, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, r.Targets())
	assert.Equal(t, []string{"a.js", "b.js"}, r.Files("app.js"))
	assert.Equal(t, "build"+string(filepath.Separator), r.CachePath("js"))
}

func TestLoadRegistry_MultipleFiles(t *testing.T) {
	base := writeRegistry(t, "base.yml", `
extensions:
  js:
    cache_path: build/js
targets:
  - name: libs.js
    files: [jquery.js]
`)
	site := writeRegistry(t, "site.yml", `
extensions:
  js:
    timestamp: true
targets:
  - name: site.js
    extend: libs.js
    files: [site.js]
`)

	r, err := LoadRegistry(base, site)
	require.NoError(t, err)

	// Later files extend earlier extension settings
	assert.Equal(t, "build/js"+string(filepath.Separator), r.CachePath("js"))
	assert.True(t, r.Timestamp("js"))

	// Extends resolve across files
	assert.Equal(t, []string{"jquery.js", "site.js"}, r.Files("site.js"))
}

func TestRegistry_Load_Prefix(t *testing.T) {
	path := writeRegistry(t, "plugin.yml", `
targets:
  - name: plugin.js
    files: [plugin.js]
`)

	r := NewRegistry()
	require.NoError(t, r.Load(path, "Admin."))

	assert.Equal(t, []string{"Admin.plugin.js"}, r.Targets())
}

func TestLoadRegistry_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		missing     bool
		wantErr     error
		errContains string
	}{
		{
			name:        "missing file",
			missing:     true,
			errContains: "was not found",
		},
		{
			name:        "invalid yaml",
			content:     "targets: [unclosed",
			errContains: "failed to read configuration file",
		},
		{
			name:        "target without name",
			content:     "targets:\n  - files: [a.js]\n",
			errContains: "has no name",
		},
		{
			name:    "missing extend parent",
			content: "targets:\n  - name: a.js\n    extend: b.js\n",
			wantErr: apperrors.ErrMissingTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yml")
			if !tt.missing {
				path = writeRegistry(t, "assets.yml", tt.content)
			}

			_, err := LoadRegistry(path)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}
