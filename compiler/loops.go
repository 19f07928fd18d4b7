package compiler

import (
	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/deepnoodle-ai/bfvm/token"
	"github.com/hashicorp/go-multierror"
)

const noTarget = -1

// JumpTable maps each loop bracket index to the index of its partner. Only
// LOOP_OPEN and LOOP_CLOSE positions have entries, and for every entry i,
// Target(Target(i)) == i.
type JumpTable struct {
	targets []int
	pairs   int
}

// Target returns the partner bracket index for i. The second result is false
// when i is not a bracket position.
func (j *JumpTable) Target(i int) (int, bool) {
	if i < 0 || i >= len(j.targets) || j.targets[i] == noTarget {
		return 0, false
	}
	return j.targets[i], true
}

// Len returns the number of entries, which is twice the number of loops.
func (j *JumpTable) Len() int {
	return 2 * j.pairs
}

// Pairs returns the number of matched loops.
func (j *JumpTable) Pairs() int {
	return j.pairs
}

// Entries returns a copy of the table as a map from index to partner index.
func (j *JumpTable) Entries() map[int]int {
	entries := make(map[int]int, j.Len())
	for i, target := range j.targets {
		if target != noTarget {
			entries[i] = target
		}
	}
	return entries
}

// ResolveLoops matches loop brackets in a single scan using a stack of
// pending LOOP_OPEN positions. Loops nest and never interleave: each
// LOOP_CLOSE pairs with the most recent unclosed LOOP_OPEN.
//
// Every unmatched bracket is reported, not only the first. The returned error
// aggregates one BracketMismatch per offending bracket; source is used only to
// attach the offending line to each error and may be empty.
func ResolveLoops(tokens []token.Token, source string) (*JumpTable, error) {
	table := &JumpTable{targets: make([]int, len(tokens))}
	var pending []int
	var result *multierror.Error

	for i, tok := range tokens {
		table.targets[i] = noTarget
		switch tok.Code {
		case op.LoopOpen:
			pending = append(pending, i)
		case op.LoopClose:
			if len(pending) == 0 {
				result = multierror.Append(result, errz.New(errz.BracketMismatch, "unmatched ']'").
					WithIndex(i).
					WithLocation(tok.Position.Location(source)))
				continue
			}
			start := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			table.targets[start] = i
			table.targets[i] = start
			table.pairs++
		}
	}
	for _, start := range pending {
		result = multierror.Append(result, errz.New(errz.BracketMismatch, "unmatched '['").
			WithIndex(start).
			WithLocation(tokens[start].Position.Location(source)))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return table, nil
}
