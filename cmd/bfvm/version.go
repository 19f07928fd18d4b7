package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  a.versionHandler,
	}
	cmd.Flags().StringP("output", "o", "", "Output format (json, text)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) versionHandler(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	if format == "json" {
		return a.writeJSON(map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		})
	}
	_, err = fmt.Fprintln(a.stdout, version)
	return err
}
