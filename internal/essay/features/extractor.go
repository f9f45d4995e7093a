// Package features derives the lexical and structural signals the scorer consumes.
package features

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"essay-mentor/internal/essay/lexicon"
	"essay-mentor/internal/models"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordToken     = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	quantity      = buildQuantityPattern(lexicon.QuantityUnits)
)

// buildQuantityPattern turns the unit list into "<digits>%" or "<digits> <unit>[s]" alternatives.
func buildQuantityPattern(units []string) *regexp.Regexp {
	alts := make([]string, 0, len(units))
	for _, u := range units {
		if u == "%" {
			alts = append(alts, `\d+%`)
			continue
		}
		alts = append(alts, `\d+ `+regexp.QuoteMeta(u)+`s?`)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(alts, "|"))
}

// Extract computes the FeatureVector for text. It never fails; empty text yields zero counts.
func Extract(text string) models.FeatureVector {
	lowered := lexicon.Lower(text)
	words := strings.Fields(text)
	wordCount := len(words)
	sentenceCount := max(countSentences(text), 1)

	fv := models.FeatureVector{
		WordCount:              wordCount,
		SentenceCount:          sentenceCount,
		HasSpecificExamples:    lexicon.ContainsAny(lowered, lexicon.ExampleCues),
		HasTransitions:         lexicon.ContainsAny(lowered, lexicon.TransitionWords),
		HasStrongOpening:       hasStrongOpening(text, lowered),
		HasQuantifiableDetails: quantity.MatchString(text),
	}
	if wordCount > 0 {
		fv.AvgSentenceLength = float64(wordCount) / float64(sentenceCount)
		fv.VocabularyRichness = float64(uniqueTokens(lowered)) / float64(wordCount)
	}
	return fv
}

func countSentences(text string) int {
	n := 0
	for _, seg := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// hasStrongOpening requires more than StrongOpeningMinChars characters and an opening
// that is not one of the generic templates. Leading whitespace is ignored for the template check.
func hasStrongOpening(text, lowered string) bool {
	if utf8.RuneCountInString(text) <= lexicon.StrongOpeningMinChars {
		return false
	}
	return !lexicon.HasAnyPrefix(strings.TrimLeftFunc(lowered, unicode.IsSpace), lexicon.GenericOpeners)
}

func uniqueTokens(lowered string) int {
	seen := make(map[string]struct{})
	for _, tok := range wordToken.FindAllString(lowered, -1) {
		seen[tok] = struct{}{}
	}
	return len(seen)
}
