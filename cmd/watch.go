package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/apc/internal/scanner"
	"github.com/Norgate-AV/apc/internal/task"
	"github.com/Norgate-AV/apc/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild targets when their files change",
		Long: `Build all targets, then watch every search path and the asset config files,
rebuilding stale targets after changes settle.`,
		RunE:         runWatch,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	addBuildFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "Delay before rebuilding after a change")

	return watchCmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	defer s.close()

	delay, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cmd, s, delay)
}

// watch builds once, then rebuilds on every debounced batch of changes until
// ctx is done. A change to a config file reloads the configuration first.
func watch(ctx context.Context, cmd *cobra.Command, s *session, delay time.Duration) error {
	build := func() {
		result, err := task.NewBuild(s.factory, s.logger, s.cfg.Force).Run()
		if err != nil {
			s.logger.Error(err, "build failed")
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Complete: %d built, %d skipped, %d failed\n",
			len(result.Built), len(result.Skipped), len(result.Failed))
	}

	build()

	w, err := watcher.New(delay, s.logger)
	if err != nil {
		return err
	}

	defer w.Stop()

	for _, path := range watchPaths(s) {
		if err := w.AddPath(path); err != nil {
			s.logger.Warn(err, "skipping watch path", "path", path)
		}
	}

	// config files such as .apc.yml are hidden but still watched
	w.AddFilter(watcher.AnyFilter(watcher.PathFilter(s.cfg.ConfigFiles...), watcher.NoHiddenFilter))
	w.AddFilter(watcher.ExcludeDirs(outputDirs(s)...))

	w.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			s.logger.Debug("file changed", "path", event.Path, "type", event.Type.String())
		}

		if touchesConfig(s, events) {
			s.logger.Info("asset config changed, reloading")
			if err := s.reload(); err != nil {
				return err
			}
		}

		build()

		return nil
	})

	w.Start(ctx)
	s.logger.Info("watching for changes", "paths", len(w.Paths()))

	<-ctx.Done()

	return nil
}

// watchPaths returns every search path of every target and the config files
func watchPaths(s *session) []string {
	var paths []string

	for _, ext := range s.registry.Extensions() {
		paths = append(paths, s.registry.Paths(ext, "")...)
	}

	for _, name := range s.registry.Targets() {
		paths = append(paths, s.registry.Paths(s.registry.Ext(name), name)...)
	}

	expanded := scanner.New(paths).Paths()

	return append(expanded, s.cfg.ConfigFiles...)
}

// outputDirs returns the directories written by a build
func outputDirs(s *session) []string {
	dirs := []string{s.tmpPath, s.registry.TimestampPath()}
	for _, ext := range s.registry.Extensions() {
		dirs = append(dirs, s.registry.CachePath(ext))
	}

	return dirs
}

func touchesConfig(s *session, events []watcher.ChangeEvent) bool {
	isConfig := watcher.PathFilter(s.cfg.ConfigFiles...)

	return slices.ContainsFunc(events, func(event watcher.ChangeEvent) bool {
		return isConfig(event.Path)
	})
}
