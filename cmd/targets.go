package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/apc/internal/config"
)

// targetInfo describes one configured target
type targetInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Output   string   `json:"output" yaml:"output"`
	Files    []string `json:"files" yaml:"files"`
	Filters  []string `json:"filters" yaml:"filters"`
	Paths    []string `json:"paths" yaml:"paths"`
	Requires []string `json:"require,omitempty" yaml:"require,omitempty"`
	Themed   bool     `json:"themed" yaml:"themed"`
}

func newTargetsCmd() *cobra.Command {
	targetsCmd := &cobra.Command{
		Use:          "targets",
		Short:        "List configured targets",
		Long:         `List every target with its files, filters and search paths after extends are applied.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	format := addOutputFlag(targetsCmd.Flags())

	targetsCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		defer s.close()

		targets := describeTargets(s.registry)

		switch *format {
		case "json":
			return outputJSON(cmd.OutOrStdout(), targets)
		case "yaml":
			return outputYAML(cmd.OutOrStdout(), targets)
		default:
			return outputTable(cmd.OutOrStdout(), targets)
		}
	}

	return targetsCmd
}

func describeTargets(r *config.Registry) []targetInfo {
	names := r.Targets()
	targets := make([]targetInfo, 0, len(names))

	for _, name := range names {
		ext := r.Ext(name)

		targets = append(targets, targetInfo{
			Name:     name,
			Output:   filepath.Join(r.CachePath(ext), name),
			Files:    r.Files(name),
			Filters:  r.TargetFilters(name),
			Paths:    r.Paths(ext, name),
			Requires: r.Requires(name),
			Themed:   r.IsThemed(name),
		})
	}

	return targets
}

func outputJSON(w io.Writer, targets []targetInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(targets)
}

func outputYAML(w io.Writer, targets []targetInfo) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()

	return encoder.Encode(map[string]any{
		"targets": targets,
		"total":   len(targets),
	})
}

func outputTable(w io.Writer, targets []targetInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tFILES\tFILTERS\tTHEMED\tOUTPUT")
	for _, t := range targets {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%s\n", t.Name, len(t.Files), strings.Join(t.Filters, ","), t.Themed, t.Output)
	}

	return tw.Flush()
}
