package compiler

import (
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/token"
)

// Code is a compiled program: an immutable token sequence plus its resolved
// jump table.
type Code struct {
	tokens    []token.Token
	jumps     *JumpTable
	source    string
	optimized bool
}

// NewCode resolves loops for an existing token sequence. It is used when
// tokens were produced without going through Compile.
func NewCode(tokens []token.Token) (*Code, error) {
	jumps, err := ResolveLoops(tokens, "")
	if err != nil {
		return nil, err
	}
	return &Code{tokens: tokens, jumps: jumps}, nil
}

// Tokens returns the token sequence. Callers must not modify it.
func (c *Code) Tokens() []token.Token {
	return c.tokens
}

// Len returns the number of instructions.
func (c *Code) Len() int {
	return len(c.tokens)
}

// Token returns the instruction at index i.
func (c *Code) Token(i int) token.Token {
	return c.tokens[i]
}

// Jumps returns the loop jump table.
func (c *Code) Jumps() *JumpTable {
	return c.jumps
}

// Source returns the source text the code was compiled from, if known.
func (c *Code) Source() string {
	return c.source
}

// Optimized reports whether runs were folded.
func (c *Code) Optimized() bool {
	return c.optimized
}

// LocationAt returns the source location of instruction i.
func (c *Code) LocationAt(i int) errz.SourceLocation {
	if i < 0 || i >= len(c.tokens) {
		return errz.SourceLocation{}
	}
	return c.tokens[i].Position.Location(c.source)
}
