package models

// ConversationEntry is one turn of a candidate conversation.
type ConversationEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type AnswerResult struct {
	Answer   string    `json:"answer"`
	Snippets []string  `json:"snippets"`
	Scores   []float64 `json:"scores"`
}
