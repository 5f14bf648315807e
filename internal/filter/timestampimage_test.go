package filter

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampImage_Input(t *testing.T) {
	dir := t.TempDir()
	webroot := filepath.Join(dir, "webroot")
	cssDir := filepath.Join(webroot, "css")

	mtime := time.Unix(1400000000, 0)
	for _, p := range []string{
		filepath.Join(cssDir, "img", "relative.png"),
		filepath.Join(webroot, "img", "absolute.gif"),
	} {
		writeFile(t, p, "")
		require.NoError(t, os.Chtimes(p, mtime, mtime))
	}

	stamp := "?t=" + strconv.FormatInt(mtime.Unix(), 10)

	f := NewTimestampImage()
	f.Settings(map[string]any{"webroot": webroot})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "relative background",
			in:   "a { background: url(img/relative.png) no-repeat; }",
			want: "a { background: url(img/relative.png" + stamp + ") no-repeat; }",
		},
		{
			name: "absolute background image with quotes",
			in:   "b { background-image: url('/img/absolute.gif'); }",
			want: "b { background-image: url('/img/absolute.gif" + stamp + "'); }",
		},
		{
			name: "background with color",
			in:   "c { background: #fff url(\"img/relative.png\"); }",
			want: "c { background: #fff url(\"img/relative.png" + stamp + "\"); }",
		},
		{
			name: "missing image untouched",
			in:   "d { background: url(img/missing.png); }",
			want: "d { background: url(img/missing.png); }",
		},
		{
			name: "other extensions untouched",
			in:   "e { background: url(img/relative.svg); }",
			want: "e { background: url(img/relative.svg); }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.Input(filepath.Join(cssDir, "style.css"), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
