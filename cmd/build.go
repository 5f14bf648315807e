package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/apc/internal/task"
)

func newBuildCmd() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build asset targets",
		Long: `Build every target declared in the asset config, or only the named ones.
Targets whose output is newer than all of their inputs are skipped unless --force is given.`,
		RunE:         runBuild,
		SilenceUsage: true,
	}

	addBuildFlags(buildCmd)

	return buildCmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	defer s.close()

	result, err := task.NewBuild(s.factory, s.logger, s.cfg.Force).Run(args...)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Complete: %d built, %d skipped, %d failed\n",
		len(result.Built), len(result.Skipped), len(result.Failed))

	return result.Err()
}
