// Package scanner expands configured search paths and locates files on them.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Norgate-AV/apc/internal/utils"
)

// globChars marks a configured path as a pattern needing expansion
const globChars = "*?["

// Scanner resolves logical file names against an ordered list of directories
type Scanner struct {
	paths []string
}

// New expands and normalizes the given search paths
func New(paths []string) *Scanner {
	return &Scanner{paths: normalize(expand(paths))}
}

// Paths returns the expanded search directories, each with a trailing separator
func (s *Scanner) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Find returns the physical path of name. The name is first tested as given,
// then against each search directory in order. The boolean is false when the
// file could not be found anywhere.
func (s *Scanner) Find(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if exists(name) {
		return name, true
	}

	return s.FindInPaths(name)
}

// FindInPaths returns the physical path of name looked up only in the search
// directories, ignoring files relative to the working directory.
func (s *Scanner) FindInPaths(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	file := normalizePath(name)
	for _, dir := range s.paths {
		full := dir + file
		if exists(full) {
			return full, true
		}
	}

	return "", false
}

// IsGlob reports whether path contains glob metacharacters
func IsGlob(path string) bool {
	return strings.ContainsAny(path, globChars)
}

// expand replaces every glob path by its literal parent directory followed by
// the directories matching the pattern
func expand(paths []string) []string {
	expanded := make([]string, 0, len(paths))

	for _, path := range paths {
		if !IsGlob(path) {
			expanded = append(expanded, path)
			continue
		}

		expanded = append(expanded, filepath.Dir(path))

		matches, err := filepath.Glob(path)
		if err != nil {
			continue
		}

		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				expanded = append(expanded, m)
			}
		}
	}

	return expanded
}

func normalize(paths []string) []string {
	sep := string(filepath.Separator)
	result := make([]string, 0, len(paths))

	for _, p := range paths {
		p = normalizePath(p)
		p = strings.TrimRight(p, sep) + sep
		result = append(result, p)
	}

	return utils.Unique(result)
}

func normalizePath(name string) string {
	name = strings.ReplaceAll(name, "\\", string(filepath.Separator))
	return strings.ReplaceAll(name, "/", string(filepath.Separator))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
