package bfvm

import (
	"io"

	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/vm"
	"github.com/rs/zerolog"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	optimize      bool
	tapeSize      int
	input         io.Reader
	output        io.Writer
	observer      vm.Observer
	logger        zerolog.Logger
	checkInterval *int
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	return []compiler.Option{
		compiler.WithOptimize(o.optimize),
		compiler.WithLogger(o.logger),
	}
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.tapeSize != 0 {
		opts = append(opts, vm.WithTapeSize(o.tapeSize))
	}
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.checkInterval != nil {
		opts = append(opts, vm.WithContextCheckInterval(*o.checkInterval))
	}
	return opts
}

// WithOptimize enables run-length folding of repeated commands.
func WithOptimize(optimize bool) Option {
	return func(o *options) {
		o.optimize = optimize
	}
}

// WithTapeSize sets the number of tape cells. The default is
// vm.DefaultTapeSize.
func WithTapeSize(size int) Option {
	return func(o *options) {
		o.tapeSize = size
	}
}

// WithInput sets the line-oriented input read by input commands. The
// default is os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the writer that receives output bytes. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver sets an observer called before every instruction.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger for compile and run diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContextCheckInterval sets how many instructions run between checks of
// ctx.Done(). Zero disables checking.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.checkInterval = &interval
	}
}
