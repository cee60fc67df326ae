package enrich

// GeneratedQA is one study question with a hidden answer.
type GeneratedQA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Revealed bool   `json:"revealed"`
}

// GeneratedReference is one suggested external learning resource.
type GeneratedReference struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// GeneratedEvalItem is one multiple-choice quiz question. Selected is nil
// until the learner answers.
type GeneratedEvalItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Selected      *int     `json:"selected"`
}

type askDTO struct {
	Question string `json:"question" binding:"required"`
}
