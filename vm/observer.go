package vm

import (
	"github.com/deepnoodle-ai/bfvm/token"
)

// StepEvent describes the machine state just before an instruction runs.
type StepEvent struct {
	// IP is the index of the instruction about to run.
	IP int

	// Token is the instruction about to run.
	Token token.Token

	// Pointer is the current tape pointer.
	Pointer int

	// Cell is the value of the cell under the pointer.
	Cell byte

	// Step is the number of instructions already executed.
	Step int64
}

// Observer receives a callback before every instruction. Tracers and
// coverage tools can be built on it without modifying the VM.
type Observer interface {
	// OnStep returns false to halt execution immediately with ErrHalted.
	OnStep(event StepEvent) bool
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(event StepEvent) bool

// OnStep calls f(event).
func (f ObserverFunc) OnStep(event StepEvent) bool {
	return f(event)
}

// NoOpObserver is an Observer that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

var (
	_ Observer = NoOpObserver{}
	_ Observer = ObserverFunc(nil)
)
