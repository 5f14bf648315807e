package utils

import "golang.org/x/text/cases"

// FoldName folds a filter or section name for case-insensitive lookups.
// Config readers lowercase map keys, so names must compare folded.
func FoldName(name string) string {
	return cases.Fold().String(name)
}
