// Package rewrite swaps gendered pronoun tokens in raw text. It is the
// transform collaborator for the relay: pure, total, and byte-oriented, so
// binary or non-UTF8 input simply passes through with no tokens matched.
package rewrite

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// defaultPairs is the lower-case gender-swap table; upper-case and
// title-case variants are derived from it.
var defaultPairs = map[string]string{
	"he":   "she",
	"him":  "her",
	"his":  "hers",
	"she":  "he",
	"her":  "him",
	"hers": "his",
}

// Swapper replaces whole-word tokens according to a fixed table.
type Swapper struct {
	re    *regexp.Regexp
	table map[string][]byte
}

// Default returns a Swapper for the built-in pronoun table, in lower, upper,
// and title case.
func Default() *Swapper {
	s, err := New(defaultPairs)
	if err != nil {
		panic(err) // the built-in table is static
	}
	return s
}

// New builds a Swapper from lower-case token pairs. Each pair is expanded to
// its upper-case and title-case forms. Tokens must be non-empty ASCII
// letters; anything else can't sit inside the word-boundary pattern.
func New(pairs map[string]string) (*Swapper, error) {
	table := make(map[string][]byte, 3*len(pairs))
	for from, to := range pairs {
		if !asciiLetters(from) || !asciiLetters(to) {
			return nil, fmt.Errorf("rewrite: invalid token pair %q -> %q", from, to)
		}
		table[from] = []byte(to)
		table[strings.ToUpper(from)] = []byte(strings.ToUpper(to))
		table[titleCase(from)] = []byte(titleCase(to))
	}

	tokens := make([]string, 0, len(table))
	for tok := range table {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	// Word boundaries make match length independent of alternation order:
	// "hers" never half-matches as "he" because 'r' is a word byte.
	re, err := regexp.Compile(`\b(?:` + strings.Join(tokens, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("rewrite: compile token pattern: %w", err)
	}

	return &Swapper{re: re, table: table}, nil
}

// Swap returns line with every whole-word token replaced per the table. The
// input is never modified; unmatched input comes back as-is.
func (s *Swapper) Swap(line []byte) []byte {
	return s.re.ReplaceAllFunc(line, func(m []byte) []byte {
		if to, ok := s.table[string(m)]; ok {
			return to
		}
		return m
	})
}

func asciiLetters(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	return strings.ToUpper(s[:1]) + s[1:]
}
