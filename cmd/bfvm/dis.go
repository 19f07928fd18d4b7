package main

import (
	"github.com/deepnoodle-ai/bfvm"
	"github.com/deepnoodle-ai/bfvm/dis"
	"github.com/spf13/cobra"
)

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a program into its token sequence",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.disHandler,
	}
	cmd.Flags().StringP("code", "c", "", "Code to disassemble")
	cmd.Flags().StringP("output", "o", "", "Output format (json, text)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	code, err := a.getCode(args)
	if err != nil {
		return err
	}
	compiled, err := bfvm.Compile(code,
		bfvm.WithOptimize(a.v.GetBool("optimize")),
		bfvm.WithLogger(a.logger))
	if err != nil {
		return err
	}
	instructions := dis.Disassemble(compiled)
	if format == "json" {
		return a.writeJSON(instructions)
	}
	return dis.Print(instructions, a.stdout)
}
