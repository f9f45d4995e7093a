// Package feedback assembles the multi-section feedback bundle for a scored essay.
//
// By default every section except the summary is fixed content, so output depends only on the
// score tier. Options.Personalize opts into archetype- and feature-driven variations.
package feedback

import (
	"essay-mentor/internal/essay/scoring"
	"essay-mentor/internal/models"
)

// Options tunes bundle composition. The zero value yields the fixed-content bundle.
type Options struct {
	Personalize bool
	// DefaultTargetWords is the length assumed when the word-limit hint is unusable.
	DefaultTargetWords int
}

// Compose builds the default bundle.
func Compose(score int, f models.FeatureVector, archetype models.PromptArchetype, wordLimitHint string) models.FeedbackBundle {
	return ComposeWithOptions(score, f, archetype, wordLimitHint, Options{})
}

// ComposeWithOptions builds a bundle. Every slice in the result is freshly allocated,
// so callers may hold on to it without sharing state with later bundles.
func ComposeWithOptions(score int, f models.FeatureVector, archetype models.PromptArchetype, wordLimitHint string, opts Options) models.FeedbackBundle {
	tier := scoring.ClassifyTier(score)
	b := models.FeedbackBundle{
		PromptArchetype:  archetype,
		ReadinessScore:   score,
		Tier:             tier,
		ReadinessLabel:   scoring.ReadinessLabel(score),
		OverallSummary:   summaries[tier],
		StructuralIssues: clone(structuralIssues),
		Suggestions:      clone(suggestions),
		PromptAlignment: models.PromptAlignment{
			Aligned:    clone(aligned),
			NotAligned: clone(notAligned),
		},
		ImprovementPlan:     clone(improvementPlan),
		Strengths:           clone(strengths),
		RedFlags:            clone(redFlags),
		RewriteSuggestion:   rewriteSuggestion,
		CompetitiveAnalysis: competitiveAnalysis,
	}
	if opts.Personalize {
		personalize(&b, f, archetype, scoring.TargetWordCountOr(wordLimitHint, opts.DefaultTargetWords))
	}
	return b
}

func personalize(b *models.FeedbackBundle, f models.FeatureVector, archetype models.PromptArchetype, target int) {
	if na, ok := notAlignedByArchetype[archetype]; ok {
		b.PromptAlignment.NotAligned = clone(na)
	}

	b.RedFlags = filter(b.RedFlags, func(flag string) bool {
		switch flag {
		case flagGeneric:
			return !(f.HasStrongOpening && f.VocabularyRichness > 0.5)
		case flagProgramFit:
			return archetype == models.ArchetypeMotivational
		case flagNoDepth:
			return !f.HasSpecificExamples
		case flagTransitions:
			return !f.HasTransitions
		}
		return true
	})

	wc, t := float64(f.WordCount), float64(target)
	if wc < 0.8*t || wc > 1.1*t {
		b.Strengths = filter(b.Strengths, func(s string) bool { return s != lengthStrength })
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func filter(in []string, keep func(string) bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
