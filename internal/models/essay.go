// internal/models/essay.go
package models

// EssaySubmission is what a candidate hands in. It is never mutated once scoring starts.
type EssaySubmission struct {
	Prompt        string `json:"prompt"`
	WordLimitHint string `json:"wordLimitHint,omitempty"`
	Essay         string `json:"essay"`
}

// FeatureVector holds the lexical and structural signals extracted from an essay.
type FeatureVector struct {
	WordCount              int     `json:"wordCount"`
	SentenceCount          int     `json:"sentenceCount"`
	AvgSentenceLength      float64 `json:"avgSentenceLength"`
	HasSpecificExamples    bool    `json:"hasSpecificExamples"`
	HasTransitions         bool    `json:"hasTransitions"`
	HasStrongOpening       bool    `json:"hasStrongOpening"`
	HasQuantifiableDetails bool    `json:"hasQuantifiableDetails"`
	VocabularyRichness     float64 `json:"vocabularyRichness"`
}

// PromptArchetype is the coarse category of an essay prompt.
type PromptArchetype string

const (
	ArchetypeMotivational      PromptArchetype = "motivational"
	ArchetypeLeadership        PromptArchetype = "leadership"
	ArchetypeChallengeGrowth   PromptArchetype = "challenge_growth"
	ArchetypePersonalStatement PromptArchetype = "personal_statement"
)

// Archetypes lists every archetype in classification precedence order.
var Archetypes = []PromptArchetype{
	ArchetypeMotivational,
	ArchetypeLeadership,
	ArchetypeChallengeGrowth,
	ArchetypePersonalStatement,
}

// Tier is the score band that selects the summary paragraph.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// Contribution is one named adjustment applied to the base score.
type Contribution struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// ScoreBreakdown explains how ReadinessScore was reached.
type ScoreBreakdown struct {
	ReadinessScore  int            `json:"readinessScore"`
	Base            int            `json:"base"`
	Raw             int            `json:"raw"`
	TargetWordCount int            `json:"targetWordCount"`
	Contributions   []Contribution `json:"contributions"`
}

// SuggestionCategory tags an inline rewrite suggestion.
type SuggestionCategory string

const (
	CategoryGrammar   SuggestionCategory = "grammar"
	CategoryClarity   SuggestionCategory = "clarity"
	CategoryStructure SuggestionCategory = "structure"
	CategoryImpact    SuggestionCategory = "impact"
	CategoryTone      SuggestionCategory = "tone"
)

type StructuralIssue struct {
	Section    string `json:"section"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

type Suggestion struct {
	ID            string             `json:"id"`
	OriginalText  string             `json:"originalText"`
	CorrectedText string             `json:"correctedText"`
	Category      SuggestionCategory `json:"category"`
	Explanation   string             `json:"explanation"`
}

type PromptAlignment struct {
	Aligned    []string `json:"aligned"`
	NotAligned []string `json:"notAligned"`
}

// FeedbackBundle is the complete output of one analysis run. A new run replaces it, never edits it.
type FeedbackBundle struct {
	PromptArchetype     PromptArchetype   `json:"promptArchetype"`
	ReadinessScore      int               `json:"readinessScore"`
	Tier                Tier              `json:"tier"`
	ReadinessLabel      string            `json:"readinessLabel"`
	OverallSummary      string            `json:"overallSummary"`
	StructuralIssues    []StructuralIssue `json:"structuralIssues"`
	Suggestions         []Suggestion      `json:"suggestions"`
	PromptAlignment     PromptAlignment   `json:"promptAlignment"`
	ImprovementPlan     []string          `json:"improvementPlan"`
	Strengths           []string          `json:"strengths"`
	RedFlags            []string          `json:"redFlags"`
	RewriteSuggestion   string            `json:"rewriteSuggestion"`
	CompetitiveAnalysis string            `json:"competitiveAnalysis"`
}

// AnalysisResult ties one run's inputs to everything derived from them.
type AnalysisResult struct {
	RunID      string          `json:"runId"`
	Submission EssaySubmission `json:"submission"`
	Archetype  PromptArchetype `json:"promptArchetype"`
	Features   FeatureVector   `json:"features"`
	Breakdown  ScoreBreakdown  `json:"scoreBreakdown"`
	Bundle     FeedbackBundle  `json:"feedback"`
}
