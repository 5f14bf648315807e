package cache

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Norgate-AV/apc/internal/asset"
)

// invalidPrefix marks the timestamp key of a target being rebuilt
const invalidPrefix = "~"

// Writer writes built targets into their output directories.
//
// For extensions with timestamping enabled, file names carry a version
// segment, "libs.v1700000000.js", read from the timestamp store. A rebuild
// calls Invalidate first so the new file gets a new version instead of
// overwriting the one being served. Write then calls Finalize, which moves
// the new version onto the target's key.
type Writer struct {
	store       *Store
	timestamps  map[string]bool
	theme       string
	fresh       freshness
	invalidated string
	data        map[string]int64
	now         func() time.Time
}

// NewWriter creates a writer. A nil store keeps timestamps in memory only.
// timestamps maps extensions to whether their names are versioned.
func NewWriter(store *Store, timestamps map[string]bool, opts Options) *Writer {
	return &Writer{
		store:      store,
		timestamps: timestamps,
		theme:      opts.Theme,
		fresh:      freshness{filters: opts.Filters, configTime: opts.ConfigTime},
		now:        time.Now,
	}
}

// OutputDir returns the directory t is written into
func (w *Writer) OutputDir(t *asset.Target) string {
	return t.OutputDir()
}

// BuildFileName returns the output file name of t. With timestamp set and
// versioning enabled for t's extension, the name carries the version segment.
func (w *Writer) BuildFileName(t *asset.Target, timestamp bool) (string, error) {
	name := themedName(t, w.theme)
	if !timestamp {
		return name, nil
	}

	ts, err := w.Timestamp(t)
	if err != nil {
		return "", err
	}

	if ts == 0 {
		return name, nil
	}

	ext := filepath.Ext(name)

	return strings.TrimSuffix(name, ext) + ".v" + strconv.FormatInt(ts, 10) + ext, nil
}

// BuildCacheName returns the timestamp key of t
func (w *Writer) BuildCacheName(t *asset.Target) string {
	name := themedName(t, w.theme)
	if w.invalidated != "" && t.Name() == w.invalidated {
		return invalidPrefix + name
	}

	return name
}

// Timestamp returns the version of t, or 0 when versioning is disabled for
// its extension. A missing entry is created from the current time.
func (w *Writer) Timestamp(t *asset.Target) (int64, error) {
	if !w.timestamps[t.Ext()] {
		return 0, nil
	}

	data, err := w.load()
	if err != nil {
		return 0, err
	}

	key := w.BuildCacheName(t)
	if ts := data[key]; ts != 0 {
		return ts, nil
	}

	ts := w.now().Unix()
	if err := w.SetTimestamp(t, ts); err != nil {
		return 0, err
	}

	return ts, nil
}

// SetTimestamp records ts under t's current key
func (w *Writer) SetTimestamp(t *asset.Target, ts int64) error {
	data, err := w.load()
	if err != nil {
		return err
	}

	data[w.BuildCacheName(t)] = ts

	return w.save()
}

// Invalidate switches t to its transient key with a zeroed timestamp
func (w *Writer) Invalidate(t *asset.Target) error {
	if !w.timestamps[t.Ext()] {
		return nil
	}

	w.invalidated = t.Name()

	return w.SetTimestamp(t, 0)
}

// Finalize moves the timestamp recorded under t's transient key onto its
// canonical key. A transient timestamp of 0 is dropped and the canonical
// entry left as it was.
func (w *Writer) Finalize(t *asset.Target) error {
	if !w.timestamps[t.Ext()] {
		return nil
	}

	data, err := w.load()
	if err != nil {
		return err
	}

	key := w.BuildCacheName(t)
	ts, ok := data[key]
	if !ok {
		return nil
	}

	delete(data, key)
	w.invalidated = ""

	if ts != 0 {
		data[w.BuildCacheName(t)] = ts
	}

	return w.save()
}

// Write writes content as t's output file and finalizes its timestamp
func (w *Writer) Write(t *asset.Target, content string) error {
	name, err := w.BuildFileName(t, true)
	if err != nil {
		return err
	}

	if err := writeArtifact(t.OutputDir(), name, content); err != nil {
		return err
	}

	return w.Finalize(t)
}

// IsFresh reports whether t's output file is newer than all its inputs
func (w *Writer) IsFresh(t *asset.Target) bool {
	name, err := w.BuildFileName(t, true)
	if err != nil {
		return false
	}

	return w.fresh.isFresh(t, filepath.Join(t.OutputDir(), name))
}

// ClearTimestamps removes every recorded timestamp
func (w *Writer) ClearTimestamps() error {
	w.data = make(map[string]int64)
	w.invalidated = ""

	if w.store == nil {
		return nil
	}

	return w.store.Clear()
}

func (w *Writer) load() (map[string]int64, error) {
	if w.data != nil {
		return w.data, nil
	}

	w.data = make(map[string]int64)
	if w.store == nil {
		return w.data, nil
	}

	data, err := w.store.Load()
	if err != nil {
		w.data = nil
		return nil, err
	}

	w.data = data

	return w.data, nil
}

func (w *Writer) save() error {
	if w.store == nil {
		return nil
	}

	return w.store.Save(w.data)
}

// themedName prefixes the name of a themed target with the theme
func themedName(t *asset.Target, theme string) string {
	if t.IsThemed() && theme != "" {
		return theme + "-" + t.Name()
	}

	return t.Name()
}
