// Package bfvm lexes, optimizes and executes programs for the eight-command
// byte-tape language.
//
//	result, err := bfvm.Eval(ctx, "++++++++[>++++++++<-]>.", bfvm.WithOptimize(true))
package bfvm

import (
	"context"

	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/internal/lexer"
	"github.com/deepnoodle-ai/bfvm/token"
	"github.com/deepnoodle-ai/bfvm/vm"
)

// Result describes the machine state at the end of a run.
type Result struct {
	Tape    []byte
	Pointer int
	Steps   int64
}

// Lex converts source text into tokens, folding runs when optimize is set.
// Characters outside the command set are dropped.
func Lex(text string, optimize bool) []token.Token {
	tokens := lexer.Lex(text)
	if optimize {
		return compiler.Fold(tokens)
	}
	return tokens
}

// Serialize converts tokens back to source text, one character per token.
func Serialize(tokens []token.Token) string {
	return token.Serialize(tokens)
}

// Compile lexes the source and resolves its loops without running it.
func Compile(source string, opts ...Option) (*compiler.Code, error) {
	return compiler.Compile(source, collectOptions(opts...).compilerOpts()...)
}

// Execute resolves loops for the given tokens and runs them on a fresh tape.
// Bracket errors are returned before anything executes.
func Execute(ctx context.Context, tokens []token.Token, opts ...Option) (*Result, error) {
	code, err := compiler.NewCode(tokens)
	if err != nil {
		return nil, err
	}
	return run(ctx, code, collectOptions(opts...))
}

// Eval compiles and runs the source.
func Eval(ctx context.Context, source string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	code, err := compiler.Compile(source, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	return run(ctx, code, o)
}

func run(ctx context.Context, code *compiler.Code, o *options) (*Result, error) {
	machine, err := vm.Run(ctx, code, o.vmOpts()...)
	result := &Result{
		Tape:    machine.Tape(),
		Pointer: machine.Pointer(),
		Steps:   machine.Steps(),
	}
	return result, err
}
