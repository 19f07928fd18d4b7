// Package token defines the tokens produced when lexing tape program source.
package token

import (
	"strconv"

	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/op"
)

// MaxCount is the largest run length a single token can carry.
const MaxCount = 255

// Position points to a particular location in an input string.
type Position struct {
	Char      int // byte offset within the input
	LineStart int // byte offset of the start of the current line
	Line      int // 0-indexed line number
	Column    int // 0-indexed column number
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Location converts the position to an error location. When source is
// non-empty the offending line is attached for display.
func (p Position) Location(source string) errz.SourceLocation {
	loc := errz.SourceLocation{Line: p.LineNumber(), Column: p.ColumnNumber()}
	if source != "" && p.LineStart <= len(source) {
		end := p.LineStart
		for end < len(source) && source[end] != '\n' {
			end++
		}
		loc.Source = source[p.LineStart:end]
	}
	return loc
}

// Token is one tape command with its repeat count. Only foldable commands
// carry a count other than 1.
type Token struct {
	Code     op.Code
	Count    uint8
	Position Position
}

// New returns a token for the given opcode and count. Counts outside
// [1, MaxCount], and counts other than 1 on non-foldable opcodes, are
// rejected with a CountOverflow error.
func New(code op.Code, count int) (Token, error) {
	if count < 1 || count > MaxCount {
		return Token{}, errz.Newf(errz.CountOverflow, "%s count %d outside [1, %d]", code, count, MaxCount)
	}
	if count != 1 && !code.Foldable() {
		return Token{}, errz.Newf(errz.CountOverflow, "%s cannot carry count %d", code, count)
	}
	return Token{Code: code, Count: uint8(count)}, nil
}

// Char returns the source character of the token's command.
func (t Token) Char() rune {
	return t.Code.Char()
}

// String returns the opcode name, with the count appended when it is not 1,
// for example "INCREMENT(8)".
func (t Token) String() string {
	if t.Count > 1 {
		return t.Code.String() + "(" + strconv.Itoa(int(t.Count)) + ")"
	}
	return t.Code.String()
}

