package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// outputFormats are the formats accepted by --output
var outputFormats = []string{"table", "json", "yaml"}

// outputFormat is a pflag.Value accepting one of outputFormats
type outputFormat string

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string {
	return string(*f)
}

func (f *outputFormat) Set(value string) error {
	value = strings.ToLower(value)
	if !slices.Contains(outputFormats, value) {
		return fmt.Errorf("invalid output format %s, must be one of: %s", value, strings.Join(outputFormats, ", "))
	}

	*f = outputFormat(value)

	return nil
}

func (f *outputFormat) Type() string {
	return "format"
}

// addOutputFlag adds --output to flags and returns its value
func addOutputFlag(flags *pflag.FlagSet) *outputFormat {
	format := outputFormat("table")
	flags.VarP(&format, "output", "o", "Output format (table|json|yaml)")

	return &format
}
