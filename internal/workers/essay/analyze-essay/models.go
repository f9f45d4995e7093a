// internal/workers/essay/analyze-essay/models.go
package analyzeessay

import (
	"encoding/json"
	"fmt"

	"essay-mentor/internal/models"
)

type Input struct {
	Prompt    string    `json:"prompt"`
	WordLimit WordLimit `json:"wordLimit,omitempty"`
	Essay     string    `json:"essay"`
	RequestID string    `json:"requestId,omitempty"`
}

// WordLimit accepts the limit either as free text ("650 words") or as a JSON number.
type WordLimit string

func (w *WordLimit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = WordLimit(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("wordLimit must be a string or a number: %w", err)
	}
	*w = WordLimit(n.String())
	return nil
}

func (i *Input) submission() models.EssaySubmission {
	return models.EssaySubmission{
		Prompt:        i.Prompt,
		WordLimitHint: string(i.WordLimit),
		Essay:         i.Essay,
	}
}

type Output struct {
	ReadinessScore  int                    `json:"readinessScore"`
	Tier            models.Tier            `json:"tier"`
	ReadinessLabel  string                 `json:"readinessLabel"`
	PromptArchetype models.PromptArchetype `json:"promptArchetype"`
	Features        models.FeatureVector   `json:"features"`
	ScoreBreakdown  models.ScoreBreakdown  `json:"scoreBreakdown"`
	Feedback        models.FeedbackBundle  `json:"feedback"`
}

// DefaultInputSchema is used when the activity registry has no entry for the task type.
const DefaultInputSchema = `{
  "type": "object",
  "required": ["prompt", "essay"],
  "properties": {
    "prompt":    {"type": "string"},
    "essay":     {"type": "string"},
    "wordLimit": {"type": ["string", "integer", "null"]},
    "requestId": {"type": "string"}
  }
}`
