package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/apc/internal/task"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "clear",
		Short:        "Clear build timestamps and built files",
		Long:         `Remove the build timestamp record and delete every built target file, versioned or not.`,
		RunE:         runClear,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runClear(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	defer s.close()

	removed, err := task.NewClear(s.factory, s.logger).Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Complete: %d files deleted\n", len(removed))

	return nil
}
