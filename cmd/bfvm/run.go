package main

import (
	"fmt"
	"time"

	"github.com/deepnoodle-ai/bfvm"
	"github.com/deepnoodle-ai/bfvm/vm"
	"github.com/spf13/cobra"
)

// DryRunResult summarizes a compile without execution.
type DryRunResult struct {
	Tokens    int  `json:"tokens"`
	Loops     int  `json:"loops"`
	Optimized bool `json:"optimized"`
}

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	code, err := a.getCode(args)
	if err != nil {
		return err
	}
	optimize := a.v.GetBool("optimize")

	switch {
	case a.v.GetBool("bench"):
		return a.benchLexer(code, optimize, format)
	case a.v.GetBool("regen"):
		_, err := fmt.Fprintln(a.stdout, bfvm.Serialize(bfvm.Lex(code, optimize)))
		return err
	}

	compiled, err := bfvm.Compile(code, bfvm.WithOptimize(optimize), bfvm.WithLogger(a.logger))
	if err != nil {
		return err
	}

	if a.v.GetBool("dry-run") {
		result := DryRunResult{
			Tokens:    compiled.Len(),
			Loops:     compiled.Jumps().Pairs(),
			Optimized: compiled.Optimized(),
		}
		if format == "json" {
			return a.writeJSON(result)
		}
		_, err := fmt.Fprintf(a.stdout, "%d tokens, %d loops\n", result.Tokens, result.Loops)
		return err
	}

	input, closeInput, err := a.openInput()
	if err != nil {
		return err
	}
	defer closeInput()

	start := time.Now()
	_, err = vm.Run(cmd.Context(), compiled,
		vm.WithTapeSize(a.v.GetInt("tape-size")),
		vm.WithInput(input),
		vm.WithOutput(a.stdout),
		vm.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	if a.v.GetBool("timing") {
		fmt.Fprintf(a.stderr, "%v\n", time.Since(start))
	}
	return nil
}
