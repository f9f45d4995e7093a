package feedback

import "essay-mentor/internal/models"

var summaries = map[models.Tier]string{
	models.TierHigh: "Your essay demonstrates strong personal voice and specific examples that effectively connect your experiences to the program. The structure is clear with smooth transitions. Language is articulate with minimal issues. Overall competitiveness: strong - with minor polish, this essay will stand out in a global applicant pool.",
	models.TierMid:  "Your essay demonstrates genuine interest but could benefit from more specificity in connecting your experiences to the program. The structure is present but transitions need strengthening. Language is generally clear with some areas for improvement. Overall competitiveness: moderate - strategic improvements will significantly boost your chances.",
	models.TierLow:  "Your essay shows potential but needs substantial development. Add specific examples, strengthen your connection to the program, and improve structural flow. Language clarity needs attention. Overall competitiveness: needs work - significant revision required to be competitive.",
}

var structuralIssues = []models.StructuralIssue{
	{
		Section:    "Introduction",
		Issue:      "Opens with a generic statement about the field",
		Suggestion: "Replace with a specific moment, observation, or question that sparked your interest. Show the committee who you are in the first sentence.",
	},
	{
		Section:    "Body - Experience Section",
		Issue:      "Lists activities without showing impact or learning",
		Suggestion: "Choose 1-2 experiences and go deep. What specific problem did you solve? What did you learn? How did it change your thinking?",
	},
	{
		Section:    "Transition between paragraphs",
		Issue:      "Ideas feel disconnected - jumps from school project to future goals",
		Suggestion: `Add a connecting sentence: "This project revealed my need to understand X, which is why I seek Y in this program."`,
	},
	{
		Section:    "Conclusion",
		Issue:      `Generic statement about "making a difference"`,
		Suggestion: "Be specific about what you will contribute and how this program uniquely enables your next steps. Reference specific courses, faculty, or resources.",
	},
}

var suggestions = []models.Suggestion{
	{
		ID:            "1",
		OriginalText:  "I have always been passionate about science.",
		CorrectedText: "When I isolated my first DNA sample in tenth grade, watching the delicate white strands appear in the test tube, I knew I wanted to understand life at the molecular level.",
		Category:      models.CategoryImpact,
		Explanation:   "Generic statements don't show your unique voice. Specific moments create vivid images and reveal genuine passion.",
	},
	{
		ID:            "2",
		OriginalText:  "This program will help me achieve my goals because it has good resources.",
		CorrectedText: "Dr. Chen's research on CRISPR applications in agricultural sustainability directly connects to my goal of developing drought-resistant crops for my region.",
		Category:      models.CategoryClarity,
		Explanation:   "Name specific professors, courses, or research that align with your goals. Shows you've done research and have clear reasons for applying.",
	},
	{
		ID:            "3",
		OriginalText:  "I think I would be a good fit for this program.",
		CorrectedText: "My experience leading our school's biotech club and securing funding for lab equipment demonstrates the initiative and resourcefulness your program values.",
		Category:      models.CategoryTone,
		Explanation:   `Replace hesitant language ("I think", "maybe", "hopefully") with confident, evidence-based statements.`,
	},
	{
		ID:            "4",
		OriginalText:  "In todays world, technology is very important and effects everyone.",
		CorrectedText: "In today's world, technology is critically important and affects everyone.",
		Category:      models.CategoryGrammar,
		Explanation:   `Common errors: "todays" needs an apostrophe (today's), "effects" should be "affects" as a verb, "very" is filler - use stronger adjectives.`,
	},
	{
		ID:            "5",
		OriginalText:  "I participated in various extracurricular activities including debate, science club, and volunteering.",
		CorrectedText: "As debate captain, I developed argument frameworks that I later applied to our science club's research presentations, increasing our funding success rate by 40%.",
		Category:      models.CategoryImpact,
		Explanation:   "Don't list activities. Show connections between them and demonstrate measurable outcomes or transferable skills.",
	},
}

var aligned = []string{
	"Mentions interest in the field",
	"References some relevant experience",
	"Expresses desire to attend the program",
}

var notAligned = []string{
	"Does NOT explain WHY this specific program (prompt requires this)",
	"Does NOT connect past experiences to future contributions",
	"Does NOT demonstrate knowledge of program-specific offerings",
}

// notAlignedByArchetype replaces notAligned when feedback is personalized.
var notAlignedByArchetype = map[models.PromptArchetype][]string{
	models.ArchetypeMotivational: notAligned,
	models.ArchetypeLeadership: {
		"Does NOT show how you mobilized others toward a shared goal",
		"Does NOT describe the outcome your leadership produced",
		"Does NOT reflect on what leading taught you",
	},
	models.ArchetypeChallengeGrowth: {
		"Does NOT describe the obstacle concretely before the resolution",
		"Does NOT show the actions you took to overcome it",
		"Does NOT explain how the experience changed your thinking",
	},
	models.ArchetypePersonalStatement: {
		"Does NOT tie your experiences together with a clear thread",
		"Does NOT connect past experiences to future contributions",
		"Does NOT show what distinguishes you from other applicants",
	},
}

var improvementPlan = []string{
	"Research the program deeply: identify 2-3 specific courses, professors, or unique resources. Mention them by name in your essay.",
	"Replace your introduction with a specific anecdote or moment that shows (not tells) your passion.",
	"For each experience you mention, add: What specific challenge did you face? What did you learn? How does it connect to this program?",
	"Strengthen your conclusion by stating your specific contribution (not just what you'll gain) and naming concrete next steps enabled by the program.",
	`Remove all instances of "I think", "maybe", "hopefully", "try to" - replace with confident, direct statements backed by evidence.`,
}

const lengthStrength = "Appropriate length and basic structure present"

var strengths = []string{
	"Clear genuine interest in the field",
	"Relevant academic and extracurricular background",
	lengthStrength,
}

const (
	flagGeneric     = "Generic language that could apply to any program or applicant"
	flagProgramFit  = `Lacks specific knowledge of the program (weak "Why this program?" answer)`
	flagNoDepth     = "Lists experiences without showing depth, impact, or reflection"
	flagTransitions = "Weak transitions make the essay feel disconnected"
	flagGrammar     = "Grammar errors reduce credibility"
)

var redFlags = []string{flagGeneric, flagProgramFit, flagNoDepth, flagTransitions, flagGrammar}

const rewriteSuggestion = "Consider this stronger introduction:\n\n" +
	"\"When our village's harvest failed for the third consecutive year, I didn't see a climate crisis—I saw a molecular puzzle. " +
	"If drought-resistant genes exist in wild wheat varieties, why couldn't we engineer them into our local crops? " +
	"This question drove me to build a makeshift genetics lab in my school and ultimately led me to your program's focus on agricultural biotechnology.\"\n\n" +
	"Why this works:\n" +
	"• Opens with a specific, visual moment\n" +
	"• Shows intellectual curiosity through a question\n" +
	"• Reveals your unique background and perspective\n" +
	"• Creates a clear narrative bridge to the program"

const competitiveAnalysis = "In a global applicant pool, your essay currently ranks in the middle tier. " +
	"To move to the top tier, focus on specificity, demonstrated impact, and clear program-fit alignment. " +
	"Strong essays don't just list achievements—they show intellectual growth and unique perspective."
