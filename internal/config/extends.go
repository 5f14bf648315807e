package config

import (
	"fmt"
	"strings"

	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/utils"
)

// ResolveExtends merges every target declaring an extend with its parent
// chain: parent files and filters come first, theme flags are OR'd.
// Parents are resolved recursively and memoized for this call only.
// A missing parent or an extend cycle is a configuration error.
func (r *Registry) ResolveExtends() error {
	for _, name := range r.order {
		parent := r.targets[name].Extend
		if parent == "" {
			continue
		}

		if _, ok := r.targets[parent]; !ok {
			return apperrors.Config(name,
				fmt.Sprintf("invalid extend, there is no '%s' target defined", parent),
				apperrors.ErrMissingTarget)
		}
	}

	resolved := make(map[string]TargetConfig, len(r.targets))
	resolving := make(map[string]bool)
	var chain []string

	var expand func(name string) (TargetConfig, error)
	expand = func(name string) (TargetConfig, error) {
		if cfg, ok := resolved[name]; ok {
			return cfg, nil
		}

		cfg := r.targets[name]
		if cfg.Extend == "" {
			resolved[name] = cfg
			return cfg, nil
		}

		if resolving[name] {
			cycle := append(chain, name)
			return TargetConfig{}, apperrors.Config(name,
				"circular extend: "+strings.Join(cycle, " -> "),
				apperrors.ErrCircular)
		}

		resolving[name] = true
		chain = append(chain, name)

		parent, err := expand(cfg.Extend)
		if err != nil {
			return TargetConfig{}, err
		}

		chain = chain[:len(chain)-1]
		delete(resolving, name)

		merged := cfg
		merged.Files = utils.Merge(parent.Files, cfg.Files)
		merged.Filters = utils.Merge(parent.Filters, cfg.Filters)
		merged.Theme = parent.Theme || cfg.Theme

		resolved[name] = merged

		return merged, nil
	}

	for _, name := range r.order {
		if _, err := expand(name); err != nil {
			return err
		}
	}

	r.resolved = resolved

	return nil
}
