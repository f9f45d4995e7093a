package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"essay-mentor/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   models.PromptArchetype
	}{
		{"why program", "Why do you want to join this program?", models.ArchetypeMotivational},
		{"leadership", "Describe a leadership experience.", models.ArchetypeLeadership},
		{"challenge", "Tell us about a challenge you overcame.", models.ArchetypeChallengeGrowth},
		{"obstacle", "What obstacle shaped you?", models.ArchetypeChallengeGrowth},
		{"default", "Tell us about yourself.", models.ArchetypePersonalStatement},
		{"empty", "", models.ArchetypePersonalStatement},
		{"whitespace", "   ", models.ArchetypePersonalStatement},
		{"upper case", "WHY US?", models.ArchetypeMotivational},
		{"why beats leadership", "Why does leadership matter to you?", models.ArchetypeMotivational},
		{"leadership beats challenge", "Describe a leadership challenge.", models.ArchetypeLeadership},
		{"substring match", "Somewhy this counts", models.ArchetypeMotivational},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.prompt))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	p := "Describe an obstacle and why it mattered."
	first := Classify(p)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(p))
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, `Motivational Essay - "Why this program?"`, Label(models.ArchetypeMotivational))
	assert.Equal(t, "Leadership Experience Essay", Label(models.ArchetypeLeadership))
	assert.Equal(t, "Personal Challenge / Growth Essay", Label(models.ArchetypeChallengeGrowth))
	assert.Equal(t, "Personal Statement", Label(models.ArchetypePersonalStatement))
	assert.Equal(t, "Personal Statement", Label("unknown"))
}

func TestParse(t *testing.T) {
	for _, a := range models.Archetypes {
		assert.Equal(t, a, Parse(string(a)))
	}
	assert.Equal(t, models.ArchetypePersonalStatement, Parse("bogus"))
}

func BenchmarkClassify(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Classify("Tell us about a challenge you overcame and what you learned from it.")
	}
}
