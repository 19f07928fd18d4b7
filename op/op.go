// Package op defines the closed set of tape commands understood by the lexer,
// compiler and virtual machine.
package op

// Code identifies one of the eight tape commands.
type Code uint8

const (
	Invalid Code = 0

	// Pointer movement
	MoveRight Code = 1
	MoveLeft  Code = 2

	// Cell arithmetic
	Increment Code = 3
	Decrement Code = 4

	// I/O
	Output Code = 5
	Input  Code = 6

	// Loops
	LoopOpen  Code = 7
	LoopClose Code = 8
)

// Info contains information about an opcode.
type Info struct {
	Code     Code
	Name     string
	Char     rune
	Foldable bool // consecutive runs may be collapsed into one counted op
}

var (
	infos   = make([]Info, 16)
	byChars = map[rune]Code{}
)

func init() {
	type opInfo struct {
		op       Code
		name     string
		char     rune
		foldable bool
	}
	ops := []opInfo{
		{MoveRight, "MOVE_RIGHT", '>', true},
		{MoveLeft, "MOVE_LEFT", '<', true},
		{Increment, "INCREMENT", '+', true},
		{Decrement, "DECREMENT", '-', true},
		{Output, "OUTPUT", '.', false},
		{Input, "INPUT", ',', false},
		{LoopOpen, "LOOP_OPEN", '[', false},
		{LoopClose, "LOOP_CLOSE", ']', false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:     o.op,
			Name:     o.name,
			Char:     o.char,
			Foldable: o.foldable,
		}
		byChars[o.char] = o.op
	}
}

// GetInfo returns information about the given opcode. Unknown codes yield
// the zero Info.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// Lookup returns the opcode for a command character. The second result is
// false for any character outside the command set.
func Lookup(ch rune) (Code, bool) {
	code, ok := byChars[ch]
	return code, ok
}

// String returns the opcode name, for example "INCREMENT".
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "INVALID"
}

// Char returns the source character for the opcode, or 0 for Invalid.
func (c Code) Char() rune {
	return GetInfo(c).Char
}

// Foldable reports whether runs of this opcode can be collapsed.
func (c Code) Foldable() bool {
	return GetInfo(c).Foldable
}
