package srs

import (
	"strings"
	"unicode"

	"github.com/mbecker/studycoach-api/internal/domain"
)

// skipSentinels are utterances that mean "I give up" and always grade
// as a failure without any token comparison.
var skipSentinels = map[string]bool{
	"pass":        true,
	"skip":        true,
	"i dont know": true,
}

// scoreAnswer grades a free-text answer by token overlap with the
// expected answer.
//
// Both strings are normalized the same way: lowercased, punctuation
// stripped, and split on whitespace into a token set. No stemming or
// stopword removal is applied. The overlap ratio
// |expected ∩ answer| / |expected| is compared against the configured
// thresholds to pick a quality. An empty expected answer is a vacuous
// pass only when the answer is also empty after normalization.
func scoreAnswer(expectedAnswer, userAnswer string, params *Params) domain.ReviewQuality {
	answerTokens := normalizeTokens(userAnswer)

	if skipSentinels[strings.Join(answerTokens, " ")] {
		return domain.ReviewQualityFail
	}

	expectedTokens := normalizeTokens(expectedAnswer)

	if len(expectedTokens) == 0 {
		if len(answerTokens) == 0 {
			return domain.ReviewQualityPass
		}
		return domain.ReviewQualityFail
	}

	answerSet := make(map[string]bool, len(answerTokens))
	for _, tok := range answerTokens {
		answerSet[tok] = true
	}

	matched := 0
	seen := make(map[string]bool, len(expectedTokens))
	for _, tok := range expectedTokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if answerSet[tok] {
			matched++
		}
	}

	overlap := float64(matched) / float64(len(seen))

	switch {
	case overlap >= params.PassThreshold:
		return domain.ReviewQualityPass
	case overlap >= params.PartialThreshold:
		return domain.ReviewQualityPartial
	default:
		return domain.ReviewQualityFail
	}
}

// normalizeTokens lowercases s, strips punctuation, and splits on
// whitespace. Returned tokens may repeat; callers deduplicate.
func normalizeTokens(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// punctuation and symbols are dropped, not replaced with a
			// space, so contractions like "don't" collapse to "dont"
		}
	}
	return strings.Fields(b.String())
}
