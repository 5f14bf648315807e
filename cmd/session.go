package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/apc/internal/cache"
	"github.com/Norgate-AV/apc/internal/config"
	"github.com/Norgate-AV/apc/internal/factory"
	"github.com/Norgate-AV/apc/internal/logging"
)

// session holds the loaded configuration of one command run
type session struct {
	cfg      *config.Config
	registry *config.Registry
	factory  *factory.Factory
	logger   logging.Logger
	tmpPath  string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.NewLoader().LoadForCommand(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	s := &session{cfg: cfg, logger: logger}
	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// load reads the asset config files and creates a fresh factory
func (s *session) load() error {
	registry, err := config.LoadRegistry(s.cfg.ConfigFiles...)
	if err != nil {
		return err
	}

	if s.cfg.Theme != "" {
		registry.SetTheme(s.cfg.Theme)
	}

	tmpPath := s.cfg.TmpPath
	if tmpPath == "" {
		tmpPath = cache.DefaultTmpPath(s.cfg.ConfigFiles)
	}

	s.registry = registry
	s.tmpPath = tmpPath
	s.factory = factory.New(registry,
		factory.WithLogger(s.logger),
		factory.WithTmpPath(tmpPath),
		factory.WithDebug(s.cfg.Debug),
	)

	return nil
}

// reload re-reads the asset config files
func (s *session) reload() error {
	if err := s.close(); err != nil {
		s.logger.Warn(err, "failed to close timestamp store")
	}

	return s.load()
}

func (s *session) close() error {
	if s.factory == nil {
		return nil
	}

	return s.factory.Close()
}
