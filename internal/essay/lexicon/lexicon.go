// Package lexicon holds the fixed keyword and phrase lists the essay heuristics match against.
// Every list is data: extend it here and the classifier and extractor pick it up.
package lexicon

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"essay-mentor/internal/models"
)

// PromptRule maps a set of cues onto an archetype. Rules are evaluated in slice order.
type PromptRule struct {
	Archetype models.PromptArchetype
	Cues      []string
}

// PromptRules is the classifier's precedence list. PersonalStatement is the fallback and has no rule.
var PromptRules = []PromptRule{
	{Archetype: models.ArchetypeMotivational, Cues: []string{"why"}},
	{Archetype: models.ArchetypeLeadership, Cues: []string{"leadership"}},
	{Archetype: models.ArchetypeChallengeGrowth, Cues: []string{"challenge", "obstacle"}},
}

// ExampleCues signal concrete, specific content.
var ExampleCues = []string{
	"specific", "example", "instance", "experience", "project",
}

// TransitionWords signal connected paragraphs.
var TransitionWords = []string{
	"however", "therefore", "furthermore", "moreover", "additionally", "consequently",
}

// GenericOpeners are openings that waste the first sentence.
var GenericOpeners = []string{
	"I am writing", "My name is", "I want to",
}

// QuantityUnits may follow a number to count as a quantifiable detail.
// "%" attaches directly to the digits; the others follow a single space and may be plural.
var QuantityUnits = []string{
	"%", "year", "month", "student",
}

// StrongOpeningMinChars is the length an essay must exceed before its opening can count as strong.
const StrongOpeningMinChars = 50

// Lower lowercases s with Unicode-aware rules. A Caser is stateful, so each call builds its own.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ContainsAny reports whether lowered contains any of cues, compared case-insensitively.
// lowered must already be passed through Lower.
func ContainsAny(lowered string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(lowered, Lower(cue)) {
			return true
		}
	}
	return false
}

// HasAnyPrefix reports whether lowered starts with any of phrases, compared case-insensitively.
func HasAnyPrefix(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if strings.HasPrefix(lowered, Lower(p)) {
			return true
		}
	}
	return false
}
