// Package match resolves a spoken or typed subject name against the
// subjects a user actually has on file.
//
// Matching is a documented token-overlap rule rather than an opaque
// fuzzy call: both names are normalized the same way answers are
// normalized for grading, and the candidate with the highest overlap
// wins. A tie between distinct candidates is an ambiguity, and the
// caller must ask the user to clarify.
package match

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Matching errors
var (
	// ErrNoMatch is returned when no candidate clears the overlap threshold.
	ErrNoMatch = errors.New("no matching subject")

	// ErrAmbiguous is returned when two or more candidates tie for the
	// best overlap. The caller should ask the user which one they meant.
	ErrAmbiguous = errors.New("subject name is ambiguous")
)

// MinOverlap is the smallest token-overlap ratio that counts as a match.
const MinOverlap = 0.5

// AmbiguousError wraps ErrAmbiguous and carries the tied candidates so
// the caller can present them as clarification choices.
type AmbiguousError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("subject %q is ambiguous between %s",
		e.Query, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguous
}

// Resolve picks the candidate subject that best matches the query.
//
// An exact match after normalization wins immediately. Otherwise each
// candidate is scored by token overlap against the query, relative to
// the smaller token set, and the single best score at or above
// MinOverlap wins. No qualifying candidate yields ErrNoMatch; a tie
// yields an AmbiguousError listing the tied candidates.
func Resolve(query string, candidates []string) (string, error) {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return "", ErrNoMatch
	}

	best := -1.0
	var winners []string
	for _, cand := range candidates {
		candTokens := tokenSet(cand)
		if len(candTokens) == 0 {
			continue
		}

		if setsEqual(queryTokens, candTokens) {
			return cand, nil
		}

		score := overlap(queryTokens, candTokens)
		switch {
		case score > best:
			best = score
			winners = winners[:0]
			winners = append(winners, cand)
		case score == best:
			winners = append(winners, cand)
		}
	}

	if best < MinOverlap || len(winners) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoMatch, query)
	}

	if len(winners) > 1 {
		return "", &AmbiguousError{Query: query, Candidates: winners}
	}

	return winners[0], nil
}

// overlap scores two token sets by shared tokens relative to the
// smaller set, so "bio" can still match "bio lab" strongly.
func overlap(a, b map[string]bool) float64 {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	shared := 0
	for tok := range small {
		if large[tok] {
			shared++
		}
	}

	return float64(shared) / float64(len(small))
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for tok := range a {
		if !b[tok] {
			return false
		}
	}
	return true
}

// tokenSet lowercases s, strips punctuation, and collects the distinct
// whitespace-separated tokens.
func tokenSet(s string) map[string]bool {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	set := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		set[tok] = true
	}
	return set
}
