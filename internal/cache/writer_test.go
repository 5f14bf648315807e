package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/apc/internal/asset"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func TestWriter_BuildFileName(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		target     *asset.Target
		theme      string
		timestamps map[string]bool
		timestamp  bool
		expected   string
	}{
		{
			name:     "plain",
			target:   newTarget(t, filepath.Join(dir, "libs.js"), false, nil),
			expected: "libs.js",
		},
		{
			name:     "themed without theme",
			target:   newTarget(t, filepath.Join(dir, "themed.css"), true, nil),
			expected: "themed.css",
		},
		{
			name:     "themed with theme",
			target:   newTarget(t, filepath.Join(dir, "themed.css"), true, nil),
			theme:    "Red",
			expected: "Red-themed.css",
		},
		{
			name:     "theme ignored for unthemed target",
			target:   newTarget(t, filepath.Join(dir, "all.css"), false, nil),
			theme:    "Red",
			expected: "all.css",
		},
		{
			name:       "versioned",
			target:     newTarget(t, filepath.Join(dir, "libs.js"), false, nil),
			timestamps: map[string]bool{"js": true},
			timestamp:  true,
			expected:   "libs.v1700000000.js",
		},
		{
			name:       "versioning disabled for extension",
			target:     newTarget(t, filepath.Join(dir, "all.css"), false, nil),
			timestamps: map[string]bool{"js": true},
			timestamp:  true,
			expected:   "all.css",
		},
		{
			name:       "version omitted when not requested",
			target:     newTarget(t, filepath.Join(dir, "libs.js"), false, nil),
			timestamps: map[string]bool{"js": true},
			expected:   "libs.js",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(nil, tt.timestamps, Options{Theme: tt.theme})
			w.now = fixedClock(1700000000)

			name, err := w.BuildFileName(tt.target, tt.timestamp)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, name)
		})
	}
}

func TestWriter_ThemedVersionedName(t *testing.T) {
	target := newTarget(t, filepath.Join(t.TempDir(), "themed.css"), true, nil)
	w := NewWriter(nil, map[string]bool{"css": true}, Options{Theme: "Red"})

	name, err := w.BuildFileName(target, true)
	require.NoError(t, err)
	assert.Regexp(t, `^Red-themed\.v\d+\.css$`, name)
}

func TestWriter_TimestampPersisted(t *testing.T) {
	dir := t.TempDir()
	target := newTarget(t, filepath.Join(dir, "libs.js"), false, nil)

	store, err := OpenStore(dir)
	require.NoError(t, err)

	w := NewWriter(store, map[string]bool{"js": true}, Options{})
	w.now = fixedClock(1700000000)

	ts, err := w.Timestamp(target)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts)
	require.NoError(t, store.Close())

	store, err = OpenStore(dir)
	require.NoError(t, err)
	defer store.Close()

	w = NewWriter(store, map[string]bool{"js": true}, Options{})
	w.now = fixedClock(1800000000)

	ts, err = w.Timestamp(target)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts, "existing timestamp should be reused")
}

func TestWriter_Invalidate(t *testing.T) {
	target := newTarget(t, filepath.Join(t.TempDir(), "libs.js"), false, nil)

	w := NewWriter(nil, map[string]bool{"js": true}, Options{})
	require.NoError(t, w.SetTimestamp(target, 100))

	require.NoError(t, w.Invalidate(target))
	assert.Equal(t, "~libs.js", w.BuildCacheName(target))
	assert.Equal(t, map[string]int64{"libs.js": 100, "~libs.js": 0}, w.data)

	// a rebuild gets a new version under the transient key
	w.now = fixedClock(200)
	name, err := w.BuildFileName(target, true)
	require.NoError(t, err)
	assert.Equal(t, "libs.v200.js", name)

	require.NoError(t, w.Finalize(target))
	assert.Equal(t, "libs.js", w.BuildCacheName(target))
	assert.Equal(t, map[string]int64{"libs.js": 200}, w.data)
}

func TestWriter_InvalidateDisabledExtension(t *testing.T) {
	target := newTarget(t, filepath.Join(t.TempDir(), "all.css"), false, nil)

	w := NewWriter(nil, map[string]bool{"js": true}, Options{})
	require.NoError(t, w.Invalidate(target))

	assert.Equal(t, "all.css", w.BuildCacheName(target))
	assert.Empty(t, w.data)
}

func TestWriter_InvalidateFinalizeRoundTrip(t *testing.T) {
	dir := t.TempDir()

	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("invalidate then finalize restores key and timestamp", prop.ForAll(
		func(ts int64, themed bool, theme string) bool {
			target := newTarget(t, filepath.Join(dir, "themed.css"), themed, nil)

			w := NewWriter(nil, map[string]bool{"css": true}, Options{Theme: theme})
			if ts != 0 {
				if err := w.SetTimestamp(target, ts); err != nil {
					return false
				}
			}

			before := w.BuildCacheName(target)
			snapshot := make(map[string]int64)
			data, err := w.load()
			if err != nil {
				return false
			}
			for k, v := range data {
				snapshot[k] = v
			}

			if err := w.Invalidate(target); err != nil {
				return false
			}
			if err := w.Finalize(target); err != nil {
				return false
			}

			return w.BuildCacheName(target) == before && assert.ObjectsAreEqual(snapshot, w.data)
		},
		gen.Int64Range(0, 2000000000),
		gen.Bool(),
		gen.IntRange(0, 2).Map(func(i int) string {
			return []string{"", "Red", "Blue"}[i]
		}),
	))

	properties.TestingRun(t)
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	target := newTarget(t, filepath.Join(dir, "libs.js"), false, nil)

	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	w := NewWriter(store, map[string]bool{"js": true}, Options{})
	w.now = fixedClock(1700000000)

	require.NoError(t, w.Invalidate(target))
	require.NoError(t, w.Write(target, "var a;"))

	content, err := os.ReadFile(filepath.Join(dir, "libs.v1700000000.js"))
	require.NoError(t, err)
	assert.Equal(t, "var a;", string(content))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"libs.js": 1700000000}, data)
	assert.Equal(t, "libs.js", w.BuildCacheName(target))
}

func TestWriter_WriteUnversioned(t *testing.T) {
	dir := t.TempDir()
	target := newTarget(t, filepath.Join(dir, "themed.css"), true, nil)

	w := NewWriter(nil, nil, Options{Theme: "Red"})
	require.NoError(t, w.Write(target, "a{}"))

	assert.FileExists(t, filepath.Join(dir, "Red-themed.css"))
}

func TestWriter_WriteUnwritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	target := newTarget(t, filepath.Join(dir, "libs.js"), false, nil)

	w := NewWriter(nil, nil, Options{})

	err := w.Write(target, "x")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindCache))
	assert.Contains(t, err.Error(), "unable to write to "+dir)
}

func TestWriter_IsFresh(t *testing.T) {
	dir := t.TempDir()
	past := time.Now().Add(-time.Hour)
	src := writeFile(t, filepath.Join(dir, "src", "a.js"), "var a;", past)
	target := newTarget(t, filepath.Join(dir, "out", "libs.js"), false, nil, src)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))

	w := NewWriter(nil, map[string]bool{"js": true}, Options{ConfigTime: past})
	w.now = fixedClock(1700000000)

	assert.False(t, w.IsFresh(target), "unbuilt target is stale")

	require.NoError(t, w.Write(target, "var a;"))
	assert.True(t, w.IsFresh(target))

	// a new version points at a file that does not exist yet
	require.NoError(t, w.SetTimestamp(target, 1800000000))
	assert.False(t, w.IsFresh(target))
}

func TestWriter_ClearTimestamps(t *testing.T) {
	dir := t.TempDir()
	target := newTarget(t, filepath.Join(dir, "libs.js"), false, nil)

	store, err := OpenStore(dir)
	require.NoError(t, err)
	defer store.Close()

	w := NewWriter(store, map[string]bool{"js": true}, Options{})
	require.NoError(t, w.SetTimestamp(target, 100))
	require.NoError(t, w.Invalidate(target))

	require.NoError(t, w.ClearTimestamps())
	assert.Equal(t, "libs.js", w.BuildCacheName(target))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}
