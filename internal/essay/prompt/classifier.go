// Package prompt assigns an essay prompt to one of the fixed archetypes.
package prompt

import (
	"essay-mentor/internal/essay/lexicon"
	"essay-mentor/internal/models"
)

var labels = map[models.PromptArchetype]string{
	models.ArchetypeMotivational:      `Motivational Essay - "Why this program?"`,
	models.ArchetypeLeadership:        "Leadership Experience Essay",
	models.ArchetypeChallengeGrowth:   "Personal Challenge / Growth Essay",
	models.ArchetypePersonalStatement: "Personal Statement",
}

// Classify returns the archetype of promptText. The first rule with a matching cue wins;
// text that matches nothing, including the empty string, is a personal statement.
func Classify(promptText string) models.PromptArchetype {
	lowered := lexicon.Lower(promptText)
	for _, rule := range lexicon.PromptRules {
		if lexicon.ContainsAny(lowered, rule.Cues) {
			return rule.Archetype
		}
	}
	return models.ArchetypePersonalStatement
}

// Label is the human-readable name shown next to a classified prompt.
func Label(a models.PromptArchetype) string {
	if l, ok := labels[a]; ok {
		return l
	}
	return labels[models.ArchetypePersonalStatement]
}

// Parse maps a stored archetype string back onto the enum, defaulting to a personal statement.
func Parse(s string) models.PromptArchetype {
	for _, a := range models.Archetypes {
		if string(a) == s {
			return a
		}
	}
	return models.ArchetypePersonalStatement
}
