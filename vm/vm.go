// Package vm provides a VirtualMachine that executes compiled tape programs.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/rs/zerolog"
)

const (
	// DefaultTapeSize is the number of cells on a fresh tape.
	DefaultTapeSize = 30000

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned when an observer stops execution.
var ErrHalted = errors.New("execution halted by observer")

// VirtualMachine runs one compiled program against a byte tape. Tape and
// pointer are created fresh by every call to Run and belong to that run only.
type VirtualMachine struct {
	ip       int // instruction pointer
	pointer  int // tape pointer
	steps    int64
	tape     []byte
	tapeSize int
	main     *compiler.Code

	input  *bufio.Reader
	output *bufio.Writer

	running  bool
	runMutex sync.Mutex

	contextCheckInterval int
	observer             Observer
	logger               zerolog.Logger
}

// New creates a new Virtual Machine for the given code.
func New(main *compiler.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		tapeSize:             DefaultTapeSize,
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.input == nil {
		vm.input = bufio.NewReader(os.Stdin)
	}
	if vm.output == nil {
		vm.output = bufio.NewWriter(os.Stdout)
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	if vm.tapeSize <= 0 {
		return fmt.Errorf("invalid tape size: %d", vm.tapeSize)
	}
	vm.running = true
	vm.ip = 0
	vm.pointer = 0
	vm.steps = 0
	vm.tape = make([]byte, vm.tapeSize)
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the program until the instruction pointer reaches the end of
// the code or an error occurs. There is no step limit; a program that never
// terminates only stops when ctx is cancelled. Output written before a
// failure is flushed, and tape mutations are not rolled back.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.main == nil {
		return fmt.Errorf("no main code available")
	}
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if flushErr := vm.output.Flush(); flushErr != nil && err == nil {
			err = fmt.Errorf("write output: %w", flushErr)
		}
		vm.stop()
		vm.logger.Debug().
			Int64("steps", vm.steps).
			Int("pointer", vm.pointer).
			Err(err).
			Msg("run finished")
	}()
	vm.logger.Debug().
		Int("instructions", vm.main.Len()).
		Int("tape_size", vm.tapeSize).
		Msg("run started")
	return vm.eval(ctx)
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	tokens := vm.main.Tokens()
	jumps := vm.main.Jumps()
	tape := vm.tape
	size := len(tokens)
	interval := int64(vm.contextCheckInterval)

	for vm.ip < size {
		if interval > 0 && vm.steps%interval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if vm.observer != nil && !vm.observer.OnStep(vm.stepEvent()) {
			return ErrHalted
		}
		vm.steps++

		tok := tokens[vm.ip]
		switch tok.Code {
		case op.Increment:
			tape[vm.pointer] += tok.Count
		case op.Decrement:
			tape[vm.pointer] -= tok.Count
		case op.MoveRight:
			next := vm.pointer + int(tok.Count)
			if next >= len(tape) {
				return vm.newError(errz.TapeOverflow, "moved right by %d from cell %d past tape end %d",
					tok.Count, vm.pointer, len(tape))
			}
			vm.pointer = next
		case op.MoveLeft:
			next := vm.pointer - int(tok.Count)
			if next < 0 {
				return vm.newError(errz.TapeUnderflow, "moved left by %d from cell %d past tape start",
					tok.Count, vm.pointer)
			}
			vm.pointer = next
		case op.Output:
			if err := vm.output.WriteByte(tape[vm.pointer]); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		case op.Input:
			b, err := vm.readInput()
			if err != nil {
				return err
			}
			tape[vm.pointer] = b
		case op.LoopOpen:
			if tape[vm.pointer] == 0 {
				target, err := vm.jumpTarget(jumps)
				if err != nil {
					return err
				}
				vm.ip = target + 1
				continue
			}
		case op.LoopClose:
			if tape[vm.pointer] != 0 {
				target, err := vm.jumpTarget(jumps)
				if err != nil {
					return err
				}
				vm.ip = target + 1
				continue
			}
		default:
			return fmt.Errorf("invalid opcode %d at instruction %d", tok.Code, vm.ip)
		}
		vm.ip++
	}
	return nil
}

func (vm *VirtualMachine) jumpTarget(jumps *compiler.JumpTable) (int, error) {
	target, ok := jumps.Target(vm.ip)
	if !ok {
		return 0, vm.newError(errz.BracketMismatch, "no matching bracket for instruction %d", vm.ip)
	}
	return target, nil
}

// readInput consumes one line and returns its first byte. The remainder of
// the line is discarded.
func (vm *VirtualMachine) readInput() (byte, error) {
	if err := vm.output.Flush(); err != nil {
		return 0, fmt.Errorf("write output: %w", err)
	}
	line, err := vm.input.ReadString('\n')
	if len(line) > 0 {
		return line[0], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return 0, vm.newError(errz.InputExhausted, "no input line available").WithCause(io.EOF)
	}
	return 0, fmt.Errorf("read input: %w", err)
}

func (vm *VirtualMachine) newError(kind errz.ErrorKind, format string, args ...any) *errz.StructuredError {
	return errz.Newf(kind, format, args...).
		WithIndex(vm.ip).
		WithPointer(vm.pointer).
		WithLocation(vm.main.LocationAt(vm.ip))
}

func (vm *VirtualMachine) stepEvent() StepEvent {
	tok := vm.main.Token(vm.ip)
	return StepEvent{
		IP:      vm.ip,
		Token:   tok,
		Pointer: vm.pointer,
		Cell:    vm.tape[vm.pointer],
		Step:    vm.steps,
	}
}

// The accessors below report the state left by the most recent run. They
// must not be called from another goroutine while Run is in progress; an
// Observer may call them from OnStep.

// Tape returns a copy of the tape. It is nil before the first run.
func (vm *VirtualMachine) Tape() []byte {
	return slices.Clone(vm.tape)
}

// Cell returns the value of tape cell i, or 0 when i is outside the tape or
// no run has started.
func (vm *VirtualMachine) Cell(i int) byte {
	if i < 0 || i >= len(vm.tape) {
		return 0
	}
	return vm.tape[i]
}

// Pointer returns the tape pointer as left by the most recent run.
func (vm *VirtualMachine) Pointer() int {
	return vm.pointer
}

// IP returns the instruction pointer as left by the most recent run.
func (vm *VirtualMachine) IP() int {
	return vm.ip
}

// Steps returns the number of instructions executed by the most recent run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}
