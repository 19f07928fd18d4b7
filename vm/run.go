package vm

import (
	"context"

	"github.com/deepnoodle-ai/bfvm/compiler"
)

// Run the given code in a new Virtual Machine and return the machine so the
// final tape can be inspected. The machine is returned even when the run
// fails.
func Run(ctx context.Context, main *compiler.Code, options ...Option) (*VirtualMachine, error) {
	machine := New(main, options...)
	return machine, machine.Run(ctx)
}
