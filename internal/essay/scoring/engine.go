// Package scoring turns a feature vector into a bounded readiness score.
// The model is a fixed, additive rule list; weights and thresholds are part of the contract.
package scoring

import (
	"strconv"
	"strings"
	"unicode"

	"essay-mentor/internal/models"
)

const (
	Base               = 50
	MinScore           = 35
	MaxScore           = 95
	DefaultTargetWords = 500

	HighTierThreshold = 75
	MidTierThreshold  = 55
)

// Contribution names, in evaluation order.
const (
	LengthFit          = "length-fit"
	SentenceVariety    = "sentence-variety"
	Examples           = "examples"
	Transitions        = "transitions"
	OpeningStrength    = "opening-strength"
	QuantifiableDetail = "quantifiable-detail"
	VocabularyRichness = "vocabulary-richness"
)

type rule struct {
	name   string
	points func(f models.FeatureVector, target int) int
}

func when(cond bool, pts int) int {
	if cond {
		return pts
	}
	return 0
}

var rules = []rule{
	{LengthFit, func(f models.FeatureVector, target int) int {
		wc, t := float64(f.WordCount), float64(target)
		switch {
		case wc >= 0.8*t && wc <= 1.1*t:
			return 10
		case wc < 0.5*t:
			return -15
		}
		return 0
	}},
	{SentenceVariety, func(f models.FeatureVector, _ int) int {
		return when(f.AvgSentenceLength > 10 && f.AvgSentenceLength < 25, 8)
	}},
	{Examples, func(f models.FeatureVector, _ int) int { return when(f.HasSpecificExamples, 12) }},
	{Transitions, func(f models.FeatureVector, _ int) int { return when(f.HasTransitions, 8) }},
	{OpeningStrength, func(f models.FeatureVector, _ int) int { return when(f.HasStrongOpening, 10) }},
	{QuantifiableDetail, func(f models.FeatureVector, _ int) int { return when(f.HasQuantifiableDetails, 7) }},
	{VocabularyRichness, func(f models.FeatureVector, _ int) int { return when(f.VocabularyRichness > 0.5, 10) }},
}

// Score returns the clamped readiness score for f against targetWordCount.
// A non-positive target is replaced by DefaultTargetWords.
func Score(f models.FeatureVector, targetWordCount int) int {
	return Breakdown(f, targetWordCount).ReadinessScore
}

// Breakdown evaluates every rule and reports each one's points, including zeros.
func Breakdown(f models.FeatureVector, targetWordCount int) models.ScoreBreakdown {
	if targetWordCount <= 0 {
		targetWordCount = DefaultTargetWords
	}
	b := models.ScoreBreakdown{
		Base:            Base,
		TargetWordCount: targetWordCount,
		Contributions:   make([]models.Contribution, 0, len(rules)),
	}
	raw := Base
	for _, r := range rules {
		pts := r.points(f, targetWordCount)
		raw += pts
		b.Contributions = append(b.Contributions, models.Contribution{Name: r.name, Points: pts})
	}
	b.Raw = raw
	b.ReadinessScore = min(max(raw, MinScore), MaxScore)
	return b
}

// TargetWordCount reads the leading integer of a word-limit hint such as "650" or "650 words".
// Empty, non-numeric and non-positive hints fall back to DefaultTargetWords.
func TargetWordCount(hint string) int {
	return TargetWordCountOr(hint, DefaultTargetWords)
}

// TargetWordCountOr is TargetWordCount with a caller-chosen fallback. A non-positive
// fallback is replaced by DefaultTargetWords.
func TargetWordCountOr(hint string, fallback int) int {
	if fallback <= 0 {
		fallback = DefaultTargetWords
	}
	s := strings.TrimLeftFunc(hint, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// ClassifyTier maps a score onto its summary band.
func ClassifyTier(score int) models.Tier {
	switch {
	case score >= HighTierThreshold:
		return models.TierHigh
	case score >= MidTierThreshold:
		return models.TierMid
	default:
		return models.TierLow
	}
}

// ReadinessLabel is the short verdict displayed beside the score.
func ReadinessLabel(score int) string {
	switch {
	case score >= 80:
		return "Strong essay - minor polish needed"
	case score >= 60:
		return "Good foundation - strategic improvements needed"
	default:
		return "Needs significant revision"
	}
}
