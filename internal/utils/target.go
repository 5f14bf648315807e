package utils

import (
	"path/filepath"
	"strings"
)

// Ext returns the extension class of a target or file name, without the dot.
// The class is everything after the last dot of the base name.
func Ext(name string) string {
	base := filepath.Base(name)

	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}

	return base[i+1:]
}

// Unique returns values with duplicates removed, keeping first occurrences in order
func Unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if seen[v] {
			continue
		}

		seen[v] = true
		result = append(result, v)
	}

	return result
}

// Merge concatenates lists and removes duplicates, first occurrence wins position
func Merge(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}

	return Unique(all)
}
