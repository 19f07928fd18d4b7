package vm

import (
	"bufio"
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithTapeSize sets the number of cells on the tape. The default is
// DefaultTapeSize. Run fails for sizes below 1.
func WithTapeSize(size int) Option {
	return func(vm *VirtualMachine) {
		vm.tapeSize = size
	}
}

// WithInput sets the line-oriented source read by input commands. The
// default is os.Stdin.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		if br, ok := r.(*bufio.Reader); ok {
			vm.input = br
			return
		}
		vm.input = bufio.NewReader(r)
	}
}

// WithOutput sets the sink written by output commands. The default is
// os.Stdout. Output is buffered and flushed before every input read and when
// Run returns.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = bufio.NewWriter(w)
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution, in instructions. A value of 0 disables checking.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer that is called before every instruction.
// Observer methods run synchronously, so implementations should be fast.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}
