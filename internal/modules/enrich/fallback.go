package enrich

// Fixed records served when generation fails, so the study page always has
// something to render.

func fallbackQuestions() []GeneratedQA {
	return []GeneratedQA{{
		Question: "What are the main concepts covered in this chapter?",
		Answer:   "The API couldn't generate specific questions. Try again or review the chapter content directly.",
		Revealed: false,
	}}
}

func fallbackReferences() []GeneratedReference {
	return []GeneratedReference{{
		Title:       "General Reference Guide",
		Description: "The API couldn't generate specific references. Try refreshing or search for resources related to this topic.",
		URL:         "https://scholar.google.com",
	}}
}

func fallbackEvaluation() []GeneratedEvalItem {
	return []GeneratedEvalItem{{
		Question: "Which concept is most central to this chapter?",
		Options: []string{
			"Please try regenerating the quiz",
			"The API encountered an error",
			"Refresh the page and try again",
			"Contact support if the issue persists",
		},
		CorrectAnswer: 0,
		Explanation:   "There was an error generating the quiz questions. Please try again.",
		Selected:      nil,
	}}
}

const fallbackAskAnswer = "Sorry, I encountered an error while processing your question. Please try again."
