// Package lexer converts tape program source into a token sequence.
package lexer

import (
	"unicode/utf8"

	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/deepnoodle-ai/bfvm/token"
)

const initialCapacity = 64

// Lexer scans source text one rune at a time. Characters outside the command
// set are comments and produce no tokens.
type Lexer struct {
	input     string
	pos       int // byte offset of the next rune
	line      int
	lineStart int
	column    int
}

// New returns a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next command token. The second result is false once the
// input is exhausted.
func (l *Lexer) Next() (token.Token, bool) {
	for l.pos < len(l.input) {
		ch, size := utf8.DecodeRuneInString(l.input[l.pos:])
		start, column := l.pos, l.column
		l.pos += size
		l.column++
		if ch == '\n' {
			l.line++
			l.lineStart = l.pos
			l.column = 0
			continue
		}
		code, ok := op.Lookup(ch)
		if !ok {
			continue
		}
		return token.Token{
			Code:  code,
			Count: 1,
			Position: token.Position{
				Char:      start,
				LineStart: l.lineStart,
				Line:      l.line,
				Column:    column,
			},
		}, true
	}
	return token.Token{}, false
}

// Lex returns all remaining tokens. The result is never nil.
func (l *Lexer) Lex() []token.Token {
	tokens := make([]token.Token, 0, initialCapacity)
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Lex tokenizes the whole input.
func Lex(input string) []token.Token {
	return New(input).Lex()
}
