package compiler

import (
	"github.com/deepnoodle-ai/bfvm/token"
)

// Fold collapses maximal runs of identical foldable tokens (pointer moves and
// cell arithmetic) into single counted tokens. Output, input and loop tokens
// are copied through one-for-one. A run longer than token.MaxCount is split
// into several tokens so that no count ever wraps. The input is not modified.
func Fold(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if n := len(out); n > 0 && tok.Code.Foldable() {
			last := &out[n-1]
			if last.Code == tok.Code && last.Count < token.MaxCount {
				room := token.MaxCount - int(last.Count)
				if int(tok.Count) <= room {
					last.Count += tok.Count
					continue
				}
				// Fill the current token and carry the remainder forward.
				last.Count = token.MaxCount
				tok.Count -= uint8(room)
			}
		}
		out = append(out, tok)
	}
	return out
}
