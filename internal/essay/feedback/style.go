package feedback

import "essay-mentor/internal/models"

// Style is how a suggestion category is rendered.
type Style struct {
	Color      string `json:"color"`
	Background string `json:"background"`
	Border     string `json:"border"`
	Icon       string `json:"icon"`
}

var styles = map[models.SuggestionCategory]Style{
	models.CategoryGrammar:   {Color: "text-red-600", Background: "bg-red-50", Border: "border-red-200", Icon: "AlertCircle"},
	models.CategoryClarity:   {Color: "text-blue-600", Background: "bg-blue-50", Border: "border-blue-200", Icon: "Lightbulb"},
	models.CategoryStructure: {Color: "text-purple-600", Background: "bg-purple-50", Border: "border-purple-200", Icon: "TrendingUp"},
	models.CategoryImpact:    {Color: "text-green-600", Background: "bg-green-50", Border: "border-green-200", Icon: "Sparkles"},
	models.CategoryTone:      {Color: "text-orange-600", Background: "bg-orange-50", Border: "border-orange-200", Icon: "CheckCircle"},
}

// CategoryStyle looks up the presentation for c; unknown categories render as clarity.
func CategoryStyle(c models.SuggestionCategory) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[models.CategoryClarity]
}
