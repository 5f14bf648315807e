package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
)

var versionPattern = regexp.MustCompile(`^(.*)\.v\d+(\.[a-z]+)$`)

// writeArtifact writes content to dir/name through a temp file renamed into place
func writeArtifact(dir, name, content string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return apperrors.Cache(dir, "unable to write to "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return apperrors.Cache(dir, "unable to write to "+dir, err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return apperrors.Cache(tmp.Name(), "failed to write artifact", err)
	}

	if err := tmp.Close(); err != nil {
		return apperrors.Cache(tmp.Name(), "failed to write artifact", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return apperrors.Cache(tmp.Name(), "failed to write artifact", err)
	}

	dst := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return apperrors.Cache(dst, "failed to write artifact", err)
	}

	return nil
}

// readArtifact reads dir/name
func readArtifact(dir, name string) (string, error) {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.Cache(path, "failed to read artifact", err)
	}

	return string(data), nil
}

// UnversionedName strips a ".vN" version segment, "libs.v12.js" -> "libs.js"
func UnversionedName(name string) string {
	return versionPattern.ReplaceAllString(name, "$1$2")
}

// ClearArtifacts deletes every file in dir whose unversioned name is one of
// names and returns the deleted paths. A missing dir is not an error.
func ClearArtifacts(dir string, names []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var removed []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !slices.Contains(names, UnversionedName(entry.Name())) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}

		removed = append(removed, path)
	}

	return removed, nil
}
