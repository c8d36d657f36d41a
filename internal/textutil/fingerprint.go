package textutil

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// tokenSplitPattern matches runs of characters that are neither letters nor digits.
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// minTokenRunes drops single-letter tokens such as "a" and "I".
const minTokenRunes = 2

// Fingerprint represents a term-frequency vector for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	// normSq is the squared vector length; counts are integral, so it is exact.
	normSq float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no valid tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var normSq float64
	for _, count := range counts {
		normSq += count * count
	}
	return &Fingerprint{
		tokens: counts,
		normSq: normSq,
	}
}

// Tokenize splits text into lowercase letter/digit tokens of at least two runes.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if utf8.RuneCountInString(token) < minTokenRunes {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.normSq == 0 || b.normSq == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	// Parallel vectors score exactly 1 rather than 1 minus a rounding error.
	if dot*dot >= a.normSq*b.normSq {
		return 1
	}
	return dot / math.Sqrt(a.normSq*b.normSq)
}

// Agreement scores how closely actual repeats the words of expected, from 0
// to 1. Two texts without tokens agree fully; one empty side scores 0.
func Agreement(expected, actual string) float64 {
	a := NewFingerprint(expected)
	b := NewFingerprint(actual)
	if a == nil && b == nil {
		return 1
	}
	return CosineSimilarity(a, b)
}
