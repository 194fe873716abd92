package catalog

import (
	"strings"
	"unicode"
)

// normalizeText lowercases, strips punctuation, and collapses whitespace so
// trigram comparison sees "The Hobbit!" and "the hobbit" as equal.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func trigrams(s string) map[string]bool {
	s = normalizeText(s)
	if s == "" {
		return nil
	}
	padded := "  " + s + " "
	out := map[string]bool{}
	runes := []rune(padded)
	for i := 0; i+3 <= len(runes); i++ {
		out[string(runes[i:i+3])] = true
	}
	return out
}

// TrigramSimilarity returns set overlap of character trigrams in [0,1],
// matching Postgres pg_trgm semantics closely enough for duplicate
// screening.
func TrigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		if normalizeText(a) == normalizeText(b) && normalizeText(a) != "" {
			return 1
		}
		return 0
	}
	inter := 0
	for g := range ta {
		if tb[g] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}
