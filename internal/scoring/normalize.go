package scoring

import (
	"strings"
	"unicode"
)

// NormalizedText is the canonical comparison form shared by both
// scorers: the input trimmed and case-folded, plus its word tokens.
type NormalizedText struct {
	Text   string
	Tokens []string
}

// Normalize prepares raw transcript or reference text for scoring. It
// is idempotent: normalizing an already normalized text yields the same
// value. Empty input is valid and produces an empty token list, which
// the scorers treat as a neutral zero.
func Normalize(raw string) NormalizedText {
	folded := strings.ToLower(strings.TrimSpace(raw))
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})

	return NormalizedText{Text: folded, Tokens: tokens}
}

// IsEmpty reports whether the text carries no scorable content.
func (n NormalizedText) IsEmpty() bool {
	return len(n.Tokens) == 0
}
