// Package compiler turns tape program source into executable Code: it lexes,
// optionally folds repeated commands, and resolves loop brackets.
package compiler

import (
	"github.com/deepnoodle-ai/bfvm/internal/lexer"
	"github.com/rs/zerolog"
)

// Option configures compilation.
type Option func(*config)

type config struct {
	optimize bool
	logger   zerolog.Logger
}

// WithOptimize enables run-length folding.
func WithOptimize(optimize bool) Option {
	return func(cfg *config) {
		cfg.optimize = optimize
	}
}

// WithLogger sets the logger used for compilation diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Compile lexes the source, folds it if requested and resolves loops.
// Bracket errors are reported before any code is returned.
func Compile(source string, opts ...Option) (*Code, error) {
	cfg := &config{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	tokens := lexer.Lex(source)
	lexed := len(tokens)
	if cfg.optimize {
		tokens = Fold(tokens)
	}

	jumps, err := ResolveLoops(tokens, source)
	if err != nil {
		cfg.logger.Debug().Err(err).Int("tokens", len(tokens)).Msg("loop resolution failed")
		return nil, err
	}

	cfg.logger.Debug().
		Int("lexed", lexed).
		Int("tokens", len(tokens)).
		Bool("optimized", cfg.optimize).
		Int("loops", jumps.Pairs()).
		Msg("compiled")

	return &Code{
		tokens:    tokens,
		jumps:     jumps,
		source:    source,
		optimized: cfg.optimize,
	}, nil
}
