// Package target turns configured target declarations into resolved assets.
package target

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/config"
	apperrors "github.com/Norgate-AV/apc/internal/errors"
	"github.com/Norgate-AV/apc/internal/scanner"
)

var (
	// callbackPattern matches provider markers such as "Assets::vendor()"
	callbackPattern = regexp.MustCompile(`(?i)^(.*)::(.*)\(\)$`)

	// globPattern matches directory glob entries such as "js/widgets/*.js"
	globPattern = regexp.MustCompile(`^(.*/)(\*[^/]*)$`)
)

// Provider returns the logical file names spliced in place of a callback marker
type Provider func() ([]string, error)

// Option configures a Resolver
type Option func(*Resolver)

// WithProvider registers a callback provider under its marker, e.g.
// "Assets::vendor()". The trailing parentheses are optional.
func WithProvider(marker string, p Provider) Option {
	return func(r *Resolver) {
		r.providers[providerKey(marker)] = p
	}
}

// WithHTTPClient sets the client used by remote sources
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// Resolver builds targets from a config registry
type Resolver struct {
	config    *config.Registry
	generator asset.Generator
	providers map[string]Provider
	client    *http.Client
}

// NewResolver creates a resolver. generator compiles required targets when
// their content is read.
func NewResolver(cfg *config.Registry, generator asset.Generator, opts ...Option) *Resolver {
	r := &Resolver{
		config:    cfg,
		generator: generator,
		providers: make(map[string]Provider),
		client:    http.DefaultClient,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve builds the named target. Required targets come first as nested
// sources, followed by the declared files in order.
func (r *Resolver) Resolve(name string) (*asset.Target, error) {
	return r.resolve(name, nil)
}

func (r *Resolver) resolve(name string, chain []string) (*asset.Target, error) {
	if !r.config.HasTarget(name) {
		return nil, apperrors.Config(name,
			fmt.Sprintf("there is no '%s' target defined", name),
			apperrors.ErrMissingTarget)
	}

	if slices.Contains(chain, name) {
		return nil, apperrors.Config(name,
			"circular require: "+strings.Join(append(chain, name), " -> "),
			apperrors.ErrCircular)
	}
	chain = append(slices.Clone(chain), name)

	ext := r.config.Ext(name)
	paths := r.config.Paths(ext, name)
	s := scanner.New(paths)

	var sources []asset.Source

	for _, required := range r.config.Requires(name) {
		nested, err := r.resolve(required, chain)
		if err != nil {
			return nil, err
		}

		sources = append(sources, asset.NewNested(nested, r.generator))
	}

	files, err := r.applyProviders(name, r.config.Files(name))
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		resolved, err := r.sources(name, file, s)
		if err != nil {
			return nil, err
		}

		sources = append(sources, resolved...)
	}

	return asset.NewTarget(
		r.config.CachePath(ext)+name,
		sources,
		r.config.TargetFilters(name),
		paths,
		r.config.IsThemed(name),
	), nil
}

// sources resolves one declared file entry
func (r *Resolver) sources(name, file string, s *scanner.Scanner) ([]asset.Source, error) {
	if asset.IsURL(file) {
		return []asset.Source{asset.NewRemote(file, r.client)}, nil
	}

	if m := globPattern.FindStringSubmatch(file); m != nil {
		return r.glob(name, m[1], m[2], s)
	}

	path, ok := s.Find(file)
	if !ok {
		return nil, apperrors.Resolution(name, file,
			fmt.Sprintf("could not locate %s for %s in any configured path", file, name),
			apperrors.ErrNotFound)
	}

	local, err := asset.NewLocal(path)
	if err != nil {
		return nil, apperrors.Resolution(name, path, "invalid source", err)
	}

	return []asset.Source{local}, nil
}

// glob expands a directory glob entry into one local source per matching
// file, in lexical order
func (r *Resolver) glob(name, dir, pattern string, s *scanner.Scanner) ([]asset.Source, error) {
	found, ok := s.Find(dir)
	if !ok {
		return nil, apperrors.Resolution(name, dir,
			fmt.Sprintf("could not locate folder %s for %s in any configured path", dir, name),
			apperrors.ErrNotFound)
	}

	matches, err := filepath.Glob(filepath.Join(found, pattern))
	if err != nil {
		return nil, apperrors.Resolution(name, dir+pattern, "invalid glob", err)
	}

	sources := make([]asset.Source, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err != nil || info.IsDir() {
			continue
		}

		local, err := asset.NewLocal(m)
		if err != nil {
			return nil, apperrors.Resolution(name, m, "invalid source", err)
		}

		sources = append(sources, local)
	}

	return sources, nil
}

// applyProviders splices provider output in place of callback markers
func (r *Resolver) applyProviders(name string, files []string) ([]string, error) {
	result := make([]string, 0, len(files))

	for _, file := range files {
		if !callbackPattern.MatchString(file) {
			result = append(result, file)
			continue
		}

		p, ok := r.providers[providerKey(file)]
		if !ok {
			return nil, apperrors.Resolution(name, file,
				fmt.Sprintf("callback %s is not callable", file), nil)
		}

		provided, err := p()
		if err != nil {
			return nil, apperrors.Resolution(name, file,
				fmt.Sprintf("callback %s failed", file), err)
		}

		result = append(result, provided...)
	}

	return result, nil
}

func providerKey(marker string) string {
	marker = strings.TrimSpace(marker)
	if !strings.HasSuffix(marker, "()") {
		marker += "()"
	}

	return strings.ToLower(marker)
}
