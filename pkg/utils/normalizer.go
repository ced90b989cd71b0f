package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer folds text into a canonical form for term matching:
// compatibility decomposition, diacritics removed, lower case.
// This is not safe for concurrent use.
type TextNormalizer struct {
	transformer transform.Transformer
}

// NewTextNormalizer creates a new TextNormalizer instance.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{
		transformer: transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Map(unicode.ToLower),
			norm.NFKC,
		),
	}
}

// Normalize cleans up text using the normalizer.
// Returns empty string if normalization fails or input is empty.
func (n *TextNormalizer) Normalize(s string) string {
	s = CompressWhitespacePreserveNewlines(s)
	if s == "" {
		return ""
	}

	result, _, err := transform.String(n.transformer, s)
	if err != nil {
		return ""
	}

	return result
}

// Contains checks if substr exists within s after normalizing both.
// Falls back to a case-insensitive comparison when normalization fails.
func (n *TextNormalizer) Contains(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}

	normalizedS := n.Normalize(s)
	normalizedSubstr := n.Normalize(substr)

	if normalizedS == "" || normalizedSubstr == "" {
		return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
	}

	return strings.Contains(normalizedS, normalizedSubstr)
}

// MatchTerms returns the terms that occur in text as whole words.
// The text is normalized once; terms are expected to be normalized already.
func (n *TextNormalizer) MatchTerms(text string, terms []string) []string {
	normalized := n.Normalize(text)
	if normalized == "" {
		return nil
	}

	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	joined := " " + strings.Join(words, " ") + " "

	var matched []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(joined, " "+term+" ") {
			matched = append(matched, term)
		}
	}

	return matched
}
