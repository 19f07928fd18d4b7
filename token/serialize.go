package token

import "strings"

// Serialize converts tokens back into source text, one command character per
// token. Counts are ignored: a folded INCREMENT(5) becomes a single '+'. The
// result is for inspection and does not round-trip folded sequences.
func Serialize(tokens []Token) string {
	var sb strings.Builder
	sb.Grow(len(tokens))
	for _, tok := range tokens {
		if ch := tok.Char(); ch != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
