// internal/workers/essay/classify-prompt/models.go
package classifyprompt

import "essay-mentor/internal/models"

type Input struct {
	Prompt string `json:"prompt"`
}

type Output struct {
	PromptArchetype models.PromptArchetype `json:"promptArchetype"`
	PromptLabel     string                 `json:"promptLabel"`
}

// DefaultInputSchema is used when the activity registry has no entry for the task type.
const DefaultInputSchema = `{
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "prompt": {"type": "string"}
  }
}`
