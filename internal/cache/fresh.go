package cache

import (
	"os"
	"time"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/filter"
)

// freshness compares an output file against everything it was built from
type freshness struct {
	filters    *filter.Registry
	configTime time.Time
}

// isFresh reports whether the output at buildFile is newer than the config,
// every source of t and every dependency found by t's filters
func (f freshness) isFresh(t *asset.Target, buildFile string) bool {
	info, err := os.Stat(buildFile)
	if err != nil {
		return false
	}
	buildTime := info.ModTime()

	if !f.configTime.IsZero() && !f.configTime.Before(buildTime) {
		return false
	}

	for _, src := range t.Sources() {
		mtime, err := src.ModifiedTime()
		if err != nil || !mtime.Before(buildTime) {
			return false
		}
	}

	if f.filters == nil {
		return true
	}

	chain, err := f.filters.Collection(t)
	if err != nil {
		return false
	}

	for _, flt := range chain.Filters() {
		if !flt.HasDependencies() {
			continue
		}

		deps, err := flt.Dependencies(t)
		if err != nil {
			return false
		}

		for _, dep := range deps {
			mtime, err := dep.ModifiedTime()
			if err != nil || !mtime.Before(buildTime) {
				return false
			}
		}
	}

	return true
}
