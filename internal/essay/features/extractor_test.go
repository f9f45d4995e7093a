package features

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Counts(t *testing.T) {
	fv := Extract("I led a team. We won!  It was great?")

	assert.Equal(t, 9, fv.WordCount)
	assert.Equal(t, 3, fv.SentenceCount)
	assert.InDelta(t, 3.0, fv.AvgSentenceLength, 1e-9)
}

func TestExtract_EmptyText(t *testing.T) {
	for _, text := range []string{"", "   \n\t "} {
		fv := Extract(text)
		assert.Equal(t, 0, fv.WordCount)
		assert.Equal(t, 1, fv.SentenceCount)
		assert.Zero(t, fv.AvgSentenceLength)
		assert.Zero(t, fv.VocabularyRichness)
		assert.False(t, fv.HasStrongOpening)
	}
}

func TestExtract_NoTerminalPunctuation(t *testing.T) {
	fv := Extract("one two three four")
	assert.Equal(t, 1, fv.SentenceCount)
	assert.InDelta(t, 4.0, fv.AvgSentenceLength, 1e-9)
}

func TestExtract_PunctuationOnlySegmentsIgnored(t *testing.T) {
	fv := Extract("Wait... what?! Really.")
	assert.Equal(t, 3, fv.SentenceCount)
}

func TestExtract_Cues(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		examples     bool
		transitions  bool
		quantifiable bool
	}{
		{"plain", "I like school and I like books", false, false, false},
		{"example cue", "For example I built a robot", true, false, false},
		{"substring cue", "My experiences shaped me", true, false, false},
		{"transition", "However, I persisted", false, true, false},
		{"transition case", "MOREOVER we grew", false, true, false},
		{"percent", "Sales grew 40% that quarter", false, false, true},
		{"years", "I tutored for 3 years", false, false, true},
		{"year singular", "It took 1 year", false, false, true},
		{"months", "After 6 months we shipped", false, false, true},
		{"students", "I mentored 12 Students", false, false, true},
		{"bare number", "I was 17 then", false, false, false},
		{"number no space", "3years later", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := Extract(tt.text)
			assert.Equal(t, tt.examples, fv.HasSpecificExamples)
			assert.Equal(t, tt.transitions, fv.HasTransitions)
			assert.Equal(t, tt.quantifiable, fv.HasQuantifiableDetails)
		})
	}
}

func TestExtract_StrongOpening(t *testing.T) {
	long := " and I spent the following summer rebuilding the community garden."
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"generic short", "I am writing this essay.", false},
		{"vivid long", "When the lab flooded in my second week, I learned to improvise.", true},
		{"generic long", "I am writing to apply" + long, false},
		{"my name is", "My name is Sam" + long, false},
		{"i want to", "i want to study" + long, false},
		{"leading whitespace", "\n  My name is Sam" + long, false},
		{"exactly fifty", strings.Repeat("a", 50), false},
		{"fifty one", strings.Repeat("a", 51), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text).HasStrongOpening)
		})
	}
}

func TestExtract_VocabularyRichness(t *testing.T) {
	fv := Extract("The the THE cat")
	require.Equal(t, 4, fv.WordCount)
	assert.InDelta(t, 0.5, fv.VocabularyRichness, 1e-9)

	fv = Extract("alpha beta gamma delta")
	assert.InDelta(t, 1.0, fv.VocabularyRichness, 1e-9)
}

func TestExtract_VocabularyRichness_NonASCII(t *testing.T) {
	fv := Extract("éé éé")
	require.Equal(t, 2, fv.WordCount)
	assert.InDelta(t, 0.5, fv.VocabularyRichness, 1e-9)

	fv = Extract("Café naïve Ünïcode CAFÉ")
	assert.InDelta(t, 0.75, fv.VocabularyRichness, 1e-9)
}

func TestExtract_Deterministic(t *testing.T) {
	text := "However, for example, I taught 30 students over 2 years. It changed me!"
	assert.Equal(t, Extract(text), Extract(text))
}

func BenchmarkExtract(b *testing.B) {
	text := strings.Repeat("However, during my project I mentored 12 students for 2 years. ", 60)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Extract(text)
	}
}
