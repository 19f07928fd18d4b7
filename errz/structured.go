// Package errz defines the error kinds raised while compiling and running
// tape programs.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// BracketMismatch indicates unbalanced or mis-nested loop brackets.
	BracketMismatch ErrorKind = iota
	// TapeOverflow indicates a pointer move past the end of the tape.
	TapeOverflow
	// TapeUnderflow indicates a pointer move before the start of the tape.
	TapeUnderflow
	// InputExhausted indicates an input command ran with no input left.
	InputExhausted
	// CountOverflow indicates a run length outside the token count range.
	CountOverflow
)

// Sentinels for use with errors.Is.
var (
	ErrBracketMismatch = errors.New("bracket mismatch")
	ErrTapeOverflow    = errors.New("tape overflow")
	ErrTapeUnderflow   = errors.New("tape underflow")
	ErrInputExhausted  = errors.New("input exhausted")
	ErrCountOverflow   = errors.New("count overflow")
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	return k.Sentinel().Error()
}

// Sentinel returns the sentinel error matched by errors.Is for this kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case BracketMismatch:
		return ErrBracketMismatch
	case TapeOverflow:
		return ErrTapeOverflow
	case TapeUnderflow:
		return ErrTapeUnderflow
	case InputExhausted:
		return ErrInputExhausted
	case CountOverflow:
		return ErrCountOverflow
	default:
		return errors.New("error")
	}
}

// SourceLocation is a 1-based line and column in program source.
type SourceLocation struct {
	Line   int
	Column int
	Source string // the source line, when known
}

// IsZero returns true if the location has not been set.
func (l SourceLocation) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}

// String returns "line:col".
func (l SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// NoIndex marks an unset Index or Pointer field.
const NoIndex = -1

// StructuredError carries enough context to diagnose a failed compile or run
// without re-running it.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Index    int // token index of the failing instruction
	Pointer  int // tape pointer at the time of failure
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Kind.String(), e.Message, e.Location.Line, e.Location.Column)
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's kind.
func (e *StructuredError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// FriendlyErrorMessage returns a human-friendly error message with a source
// snippet when the offending line is known.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer

	msg.WriteString(e.Error())
	msg.WriteString("\n")

	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
		if e.Location.Column > 0 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Location.Column-1))
			msg.WriteString("^\n")
		}
	}
	if e.Index != NoIndex {
		msg.WriteString(fmt.Sprintf(" = instruction %d\n", e.Index))
	}
	if e.Pointer != NoIndex {
		msg.WriteString(fmt.Sprintf(" = pointer %d\n", e.Pointer))
	}
	return msg.String()
}

// New creates a StructuredError of the given kind with no index or pointer
// context.
func New(kind ErrorKind, message string) *StructuredError {
	return &StructuredError{
		Message: message,
		Kind:    kind,
		Index:   NoIndex,
		Pointer: NoIndex,
	}
}

// Newf creates a StructuredError with a formatted message.
func Newf(kind ErrorKind, format string, args ...any) *StructuredError {
	return New(kind, fmt.Sprintf(format, args...))
}

// WithLocation sets the source location.
func (e *StructuredError) WithLocation(loc SourceLocation) *StructuredError {
	e.Location = loc
	return e
}

// WithIndex sets the failing instruction index.
func (e *StructuredError) WithIndex(index int) *StructuredError {
	e.Index = index
	return e
}

// WithPointer sets the tape pointer value.
func (e *StructuredError) WithPointer(pointer int) *StructuredError {
	e.Pointer = pointer
	return e
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// AsStructured returns every StructuredError contained in err, including the
// members of aggregated errors.
func AsStructured(err error) []*StructuredError {
	if err == nil {
		return nil
	}
	var out []*StructuredError
	var multi *multierror.Error
	if errors.As(err, &multi) {
		for _, e := range multi.WrappedErrors() {
			out = append(out, AsStructured(e)...)
		}
		return out
	}
	var se *StructuredError
	if errors.As(err, &se) {
		out = append(out, se)
	}
	return out
}
