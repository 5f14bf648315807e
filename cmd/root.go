package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/apc/internal/version"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apc",
		Short: "Asset pipeline compiler",
		Long: `Concatenate, preprocess and minify JavaScript and CSS build targets
declared in an asset config file.`,
		RunE:         runBuild,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringSliceP("config", "c", []string{}, "Asset config files (default: the local .apc config)")
	rootCmd.PersistentFlags().StringP("theme", "t", "", "Theme used for themed targets")
	rootCmd.PersistentFlags().String("tmp-path", "", "Directory for compiled target cache")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text|json)")
	addBuildFlags(rootCmd)

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// addBuildFlags adds the flags shared by commands that compile targets
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Rebuild targets even when they are fresh")
	cmd.Flags().BoolP("debug", "d", false, "Skip output filters such as minifiers")
}

func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
