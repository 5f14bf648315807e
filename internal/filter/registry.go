package filter

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Norgate-AV/apc/internal/asset"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/utils"
)

// Registry holds one canonical filter per name. Names are matched
// case-insensitively.
type Registry struct {
	filters map[string]Filter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// Add registers f under name, replacing any previous filter
func (r *Registry) Add(name string, f Filter) {
	r.filters[utils.FoldName(name)] = f
}

// Get returns the canonical filter registered under name
func (r *Registry) Get(name string) (Filter, bool) {
	f, ok := r.filters[utils.FoldName(name)]
	return f, ok
}

// Contains checks if a filter is registered under name
func (r *Registry) Contains(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Remove drops the filter registered under name
func (r *Registry) Remove(name string) {
	delete(r.filters, utils.FoldName(name))
}

// Names returns the registered (folded) names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Collection builds the filter chain of a target. Every filter is cloned and
// seeded with the target name and search paths; the canonical filters are
// never modified.
func (r *Registry) Collection(t *asset.Target) (*Chain, error) {
	filters := make([]Filter, 0, len(t.FilterNames()))

	for _, name := range t.FilterNames() {
		f, ok := r.Get(name)
		if !ok {
			return nil, apperrors.Config(t.Name(),
				fmt.Sprintf("filter '%s' was not loaded/configured", name),
				apperrors.ErrMissingFilter)
		}

		c := f.Clone()
		c.Settings(map[string]any{
			"target": t.Name(),
			"paths":  slices.Clone(t.Paths()),
		})

		filters = append(filters, c)
	}

	return NewChain(filters...), nil
}
