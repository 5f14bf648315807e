// Package factory wires a config registry into the components of a build.
package factory

import (
	"github.com/Norgate-AV/apc/internal/asset"
	"github.com/Norgate-AV/apc/internal/cache"
	"github.com/Norgate-AV/apc/internal/compiler"
	"github.com/Norgate-AV/apc/internal/config"
	"github.com/Norgate-AV/apc/internal/filter"
	"github.com/Norgate-AV/apc/internal/logging"
	"github.com/Norgate-AV/apc/internal/process"
	"github.com/Norgate-AV/apc/internal/target"
)

// Option configures a Factory
type Option func(*Factory)

// WithLogger sets the logger handed to filters
func WithLogger(logger logging.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithRunner sets the process runner used by external filters
func WithRunner(runner *process.Runner) Option {
	return func(f *Factory) {
		f.runner = runner
	}
}

// WithTmpPath sets the directory of the compiled cache
func WithTmpPath(path string) Option {
	return func(f *Factory) {
		f.tmpPath = path
	}
}

// WithDebug skips output filters when compiling
func WithDebug(debug bool) Option {
	return func(f *Factory) {
		f.debug = debug
	}
}

// WithResolverOptions passes options such as callback providers to the resolver
func WithResolverOptions(opts ...target.Option) Option {
	return func(f *Factory) {
		f.resolverOpts = append(f.resolverOpts, opts...)
	}
}

// WithFilter registers a custom filter builder next to the built-in ones
func WithFilter(name string, b filter.Builder) Option {
	return func(f *Factory) {
		f.custom[name] = b
	}
}

// Factory creates the components of a build from one registry and keeps the
// ones that hold state. Close releases the timestamp store.
type Factory struct {
	config       *config.Registry
	logger       logging.Logger
	runner       *process.Runner
	tmpPath      string
	debug        bool
	resolverOpts []target.Option
	custom       map[string]filter.Builder

	filters  *filter.Registry
	cached   *compiler.CachedCompiler
	resolver *target.Resolver
	store    *cache.Store
	writer   *cache.Writer
}

// New creates a factory for cfg
func New(cfg *config.Registry, opts ...Option) *Factory {
	f := &Factory{
		config: cfg,
		logger: logging.Discard(),
		custom: make(map[string]filter.Builder),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.tmpPath == "" {
		f.tmpPath = cache.DefaultTmpPath(nil)
	}

	return f
}

// Config returns the registry the factory was created with
func (f *Factory) Config() *config.Registry {
	return f.config
}

// Catalog returns a catalog of the built-in and custom filters
func (f *Factory) Catalog() *filter.Catalog {
	c := filter.NewCatalog(f.runner, f.logger)
	for name, b := range f.custom {
		c.Register(name, b)
	}

	return c
}

// FilterRegistry returns one configured filter per name used in the registry
func (f *Factory) FilterRegistry() (*filter.Registry, error) {
	if f.filters != nil {
		return f.filters, nil
	}

	filters, err := f.Catalog().Registry(f.config.AllFilters(), f.config.FilterConfig)
	if err != nil {
		return nil, err
	}

	f.filters = filters

	return f.filters, nil
}

// Compiler returns an uncached compiler
func (f *Factory) Compiler() (*compiler.Compiler, error) {
	filters, err := f.FilterRegistry()
	if err != nil {
		return nil, err
	}

	return compiler.New(filters, f.debug), nil
}

// Cacher returns the cacher of the compiled cache directory
func (f *Factory) Cacher() (*cache.Cacher, error) {
	filters, err := f.FilterRegistry()
	if err != nil {
		return nil, err
	}

	return cache.NewCacher(f.tmpPath, f.options(filters)), nil
}

// CachedCompiler returns the compiler used for builds and required targets
func (f *Factory) CachedCompiler() (*compiler.CachedCompiler, error) {
	if f.cached != nil {
		return f.cached, nil
	}

	c, err := f.Compiler()
	if err != nil {
		return nil, err
	}

	cacher, err := f.Cacher()
	if err != nil {
		return nil, err
	}

	f.cached = compiler.NewCached(cacher, c)

	return f.cached, nil
}

// Resolver returns the target resolver. Required targets compile through
// the cached compiler.
func (f *Factory) Resolver() (*target.Resolver, error) {
	if f.resolver != nil {
		return f.resolver, nil
	}

	cc, err := f.CachedCompiler()
	if err != nil {
		return nil, err
	}

	f.resolver = target.NewResolver(f.config, cc, f.resolverOpts...)

	return f.resolver, nil
}

// Target resolves the named target
func (f *Factory) Target(name string) (*asset.Target, error) {
	r, err := f.Resolver()
	if err != nil {
		return nil, err
	}

	return r.Resolve(name)
}

// Writer returns the writer of final outputs. The timestamp store lives in
// the registry's timestamp path, or the compiled cache directory when unset.
func (f *Factory) Writer() (*cache.Writer, error) {
	if f.writer != nil {
		return f.writer, nil
	}

	filters, err := f.FilterRegistry()
	if err != nil {
		return nil, err
	}

	dir := f.config.TimestampPath()
	if dir == "" {
		dir = f.tmpPath
	}

	store, err := cache.OpenStore(dir)
	if err != nil {
		return nil, err
	}

	f.store = store
	f.writer = cache.NewWriter(store, f.config.Timestamps(), f.options(filters))

	return f.writer, nil
}

// Collection returns every configured target in declaration order
func (f *Factory) Collection() *Collection {
	return newCollection(f, f.config.Targets())
}

// Close releases the timestamp store
func (f *Factory) Close() error {
	if f.store == nil {
		return nil
	}

	err := f.store.Close()
	f.store = nil
	f.writer = nil

	return err
}

func (f *Factory) options(filters *filter.Registry) cache.Options {
	return cache.Options{
		Theme:      f.config.Theme(),
		Filters:    filters,
		ConfigTime: f.config.ModifiedTime(),
	}
}
