package vm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// Compile and run the given source in a new VM, returning the machine and
// everything it wrote.
func run(ctx context.Context, source, input string, opts ...Option) (*VirtualMachine, string, error) {
	return runCompiled(ctx, source, input, false, opts...)
}

func runCompiled(ctx context.Context, source, input string, optimize bool, opts ...Option) (*VirtualMachine, string, error) {
	code, err := compiler.Compile(source, compiler.WithOptimize(optimize))
	if err != nil {
		return nil, "", err
	}
	var out bytes.Buffer
	opts = append([]Option{
		WithInput(strings.NewReader(input)),
		WithOutput(&out),
	}, opts...)
	machine, err := Run(ctx, code, opts...)
	return machine, out.String(), err
}

func TestIncrementAndOutput(t *testing.T) {
	_, out, err := run(context.Background(), "+++.", "")
	require.Nil(t, err)
	require.Equal(t, []byte{3}, []byte(out))
}

func TestCellDoubling(t *testing.T) {
	machine, out, err := run(context.Background(), "++++++++[>++++++++<-]>.", "")
	require.Nil(t, err)
	require.Equal(t, []byte{64}, []byte(out))
	require.Equal(t, 1, machine.Pointer())
	require.Equal(t, byte(0), machine.Cell(0))
	require.Equal(t, byte(64), machine.Cell(1))
}

func TestEchoInput(t *testing.T) {
	_, out, err := run(context.Background(), ",.", "A\n")
	require.Nil(t, err)
	require.Equal(t, "A", out)
}

func TestSkipLoopOnZero(t *testing.T) {
	machine, out, err := run(context.Background(), "[-]", "")
	require.Nil(t, err)
	require.Equal(t, "", out)
	require.Equal(t, byte(0), machine.Cell(0))
	// Only the LOOP_OPEN executes before jumping past the close.
	require.Equal(t, int64(1), machine.Steps())
	require.Equal(t, 3, machine.IP())
}

func TestSkipNestedLoop(t *testing.T) {
	_, out, err := run(context.Background(), "[[+.]+.]+.", "")
	require.Nil(t, err)
	require.Equal(t, []byte{1}, []byte(out))
}

func TestHelloWorld(t *testing.T) {
	src := `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	for _, optimize := range []bool{false, true} {
		_, out, err := runCompiled(context.Background(), src, "", optimize)
		require.Nil(t, err)
		require.Equal(t, "Hello World!\n", out)
	}
}

func TestCellWraps(t *testing.T) {
	machine, _, err := run(context.Background(), "-", "")
	require.Nil(t, err)
	require.Equal(t, byte(255), machine.Cell(0))

	machine, _, err = run(context.Background(), strings.Repeat("+", 256), "")
	require.Nil(t, err)
	require.Equal(t, byte(0), machine.Cell(0))

	machine, _, err = runCompiled(context.Background(), strings.Repeat("+", 255)+"+", "", true)
	require.Nil(t, err)
	require.Equal(t, byte(0), machine.Cell(0))

	machine, _, err = runCompiled(context.Background(), strings.Repeat("-", 300), "", true)
	require.Nil(t, err)
	require.Equal(t, byte(256-300%256), machine.Cell(0))
}

func TestTapeUnderflow(t *testing.T) {
	machine, _, err := run(context.Background(), "+>+<<", "")
	require.NotNil(t, err)
	require.True(t, errors.Is(err, errz.ErrTapeUnderflow))

	var se *errz.StructuredError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 4, se.Index)
	require.Equal(t, 0, se.Pointer)
	require.Equal(t, errz.SourceLocation{Line: 1, Column: 5, Source: "+>+<<"}, se.Location)

	// The pointer is not moved by the failing instruction and earlier
	// mutations are kept.
	require.Equal(t, 0, machine.Pointer())
	require.Equal(t, byte(1), machine.Cell(0))
	require.Equal(t, byte(1), machine.Cell(1))
}

func TestTapeOverflow(t *testing.T) {
	machine, _, err := run(context.Background(), ">>>", "", WithTapeSize(3))
	require.True(t, errors.Is(err, errz.ErrTapeOverflow))
	var se *errz.StructuredError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 2, se.Index)
	require.Equal(t, 2, se.Pointer)
	require.Equal(t, 2, machine.Pointer())
}

func TestTapeOverflowFolded(t *testing.T) {
	_, _, err := runCompiled(context.Background(), ">>>>", "", true, WithTapeSize(4))
	require.True(t, errors.Is(err, errz.ErrTapeOverflow))

	machine, _, err := runCompiled(context.Background(), ">>><<<", "", true, WithTapeSize(4))
	require.Nil(t, err)
	require.Equal(t, 0, machine.Pointer())
}

func TestMovesWithinBoundsNeverFail(t *testing.T) {
	size := 8
	src := strings.Repeat(">", size-1) + strings.Repeat("<", size-1)
	for _, optimize := range []bool{false, true} {
		machine, _, err := runCompiled(context.Background(), src, "", optimize, WithTapeSize(size))
		require.Nil(t, err)
		require.Equal(t, 0, machine.Pointer())
	}
}

func TestDefaultTapeSize(t *testing.T) {
	machine, _, err := run(context.Background(), "", "")
	require.Nil(t, err)
	require.Len(t, machine.Tape(), DefaultTapeSize)

	_, _, err = runCompiled(context.Background(), strings.Repeat(">", DefaultTapeSize-1), "", true)
	require.Nil(t, err)
	_, _, err = runCompiled(context.Background(), strings.Repeat(">", DefaultTapeSize), "", true)
	require.True(t, errors.Is(err, errz.ErrTapeOverflow))
}

func TestInvalidTapeSize(t *testing.T) {
	_, _, err := run(context.Background(), "+", "", WithTapeSize(0))
	require.EqualError(t, err, "invalid tape size: 0")
}

func TestInputExhausted(t *testing.T) {
	_, out, err := run(context.Background(), "+.,", "")
	require.True(t, errors.Is(err, errz.ErrInputExhausted))
	require.True(t, errors.Is(err, io.EOF))
	// Output emitted before the failure is kept.
	require.Equal(t, []byte{1}, []byte(out))
}

func TestInputConsumesWholeLine(t *testing.T) {
	_, out, err := run(context.Background(), ",.,.,.", "Hello\nWorld\n!")
	require.Nil(t, err)
	require.Equal(t, "HW!", out)
}

func TestInputEmptyLine(t *testing.T) {
	_, out, err := run(context.Background(), ",.", "\nX\n")
	require.Nil(t, err)
	require.Equal(t, "\n", out)
}

func TestInputExhaustedAfterLines(t *testing.T) {
	_, out, err := run(context.Background(), ",.,.", "a\n")
	require.True(t, errors.Is(err, errz.ErrInputExhausted))
	require.Equal(t, "a", out)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestInputReadError(t *testing.T) {
	code, err := compiler.Compile(",")
	require.Nil(t, err)
	_, err = Run(context.Background(), code, WithInput(failingReader{}), WithOutput(io.Discard))
	require.EqualError(t, err, "read input: disk on fire")
	require.False(t, errors.Is(err, errz.ErrInputExhausted))
}

func TestRunsAreIndependent(t *testing.T) {
	code, err := compiler.Compile("+++>++")
	require.Nil(t, err)
	machine := New(code, WithOutput(io.Discard), WithInput(strings.NewReader("")))
	require.Nil(t, machine.Run(context.Background()))
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, byte(3), machine.Cell(0))
	require.Equal(t, byte(2), machine.Cell(1))
	require.Equal(t, 1, machine.Pointer())
}

func TestTapeIsCopy(t *testing.T) {
	machine, _, err := run(context.Background(), "+", "")
	require.Nil(t, err)
	tape := machine.Tape()
	tape[0] = 42
	require.Equal(t, byte(1), machine.Cell(0))
}

func TestNoMainCode(t *testing.T) {
	machine := New(nil, WithOutput(io.Discard))
	require.EqualError(t, machine.Run(context.Background()), "no main code available")
}

func TestContextCancelsInfiniteLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := run(ctx, "+[]", "")
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestContextCheckDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, out, err := run(ctx, "+.", "", WithContextCheckInterval(0))
	require.Nil(t, err)
	require.Equal(t, []byte{1}, []byte(out))

	_, _, err = run(ctx, "+.", "")
	require.True(t, errors.Is(err, context.Canceled))
}

func TestRunLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, _, err := run(context.Background(), "++", "", WithLogger(logger))
	require.Nil(t, err)
	require.Contains(t, buf.String(), `"message":"run started"`)
	require.Contains(t, buf.String(), `"steps":2`)
	require.Contains(t, buf.String(), `"message":"run finished"`)
}

var equivalencePrograms = []struct {
	name   string
	source string
	input  string
}{
	{"increment", "+++.", ""},
	{"doubling", "++++++++[>++++++++<-]>.", ""},
	{"echo", ",.,.", "x\ny\n"},
	{"wrap", strings.Repeat("-", 700) + ".", ""},
	{"long-move", strings.Repeat(">", 600) + "+." + strings.Repeat("<", 600) + ".", ""},
	{"nested", "+++[>+++[>++<-]<-]>>.", ""},
	{"reverse-input", ">,[>,]<[.<]", "a\nb\nc\n"},
	{"add", ",>,[-<+>]<.", "\x03\n\x04\n"},
}

func TestOptimizedExecutionIsEquivalent(t *testing.T) {
	for _, tt := range equivalencePrograms {
		t.Run(tt.name, func(t *testing.T) {
			plain, plainOut, plainErr := runCompiled(context.Background(), tt.source, tt.input, false)
			folded, foldedOut, foldedErr := runCompiled(context.Background(), tt.source, tt.input, true)
			if tt.name == "reverse-input" {
				// Reads until input runs out.
				require.True(t, errors.Is(plainErr, errz.ErrInputExhausted))
				require.True(t, errors.Is(foldedErr, errz.ErrInputExhausted))
			} else {
				require.Nil(t, plainErr)
				require.Nil(t, foldedErr)
			}
			require.Equal(t, plainOut, foldedOut)
			require.Equal(t, plain.Tape(), folded.Tape())
			require.Equal(t, plain.Pointer(), folded.Pointer())
			require.LessOrEqual(t, folded.Steps(), plain.Steps())
		})
	}
}

func TestAccessorsBeforeRun(t *testing.T) {
	code, err := compiler.Compile("+")
	require.Nil(t, err)
	machine := New(code, WithOutput(io.Discard))
	require.Nil(t, machine.Tape())
	require.Equal(t, byte(0), machine.Cell(0))
	require.Equal(t, 0, machine.Pointer())
	require.Equal(t, 0, machine.IP())
	require.Equal(t, int64(0), machine.Steps())
}

func TestCellOutOfRange(t *testing.T) {
	machine, _, err := run(context.Background(), "+>++", "", WithTapeSize(2))
	require.Nil(t, err)
	require.Equal(t, byte(1), machine.Cell(0))
	require.Equal(t, byte(2), machine.Cell(1))
	require.Equal(t, byte(0), machine.Cell(2))
	require.Equal(t, byte(0), machine.Cell(-1))
}

func TestObserverReadsAccessors(t *testing.T) {
	var cells []byte
	var machine *VirtualMachine
	observer := ObserverFunc(func(event StepEvent) bool {
		cells = append(cells, machine.Cell(machine.Pointer()))
		return true
	})
	code, err := compiler.Compile("+++")
	require.Nil(t, err)
	machine = New(code, WithObserver(observer), WithOutput(io.Discard))
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, []byte{0, 1, 2}, cells)
}
