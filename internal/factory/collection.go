package factory

import (
	"slices"

	"github.com/Norgate-AV/apc/internal/asset"
)

// Collection resolves targets on first access and keeps them
type Collection struct {
	factory  *Factory
	names    []string
	resolved map[string]*asset.Target
}

func newCollection(f *Factory, names []string) *Collection {
	return &Collection{
		factory:  f,
		names:    names,
		resolved: make(map[string]*asset.Target),
	}
}

// Names returns the target names in declaration order
func (c *Collection) Names() []string {
	return slices.Clone(c.names)
}

// Contains reports whether name is a configured target
func (c *Collection) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Get resolves the named target
func (c *Collection) Get(name string) (*asset.Target, error) {
	if t, ok := c.resolved[name]; ok {
		return t, nil
	}

	t, err := c.factory.Target(name)
	if err != nil {
		return nil, err
	}

	c.resolved[name] = t

	return t, nil
}

// Len returns the number of targets
func (c *Collection) Len() int {
	return len(c.names)
}
