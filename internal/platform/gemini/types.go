package gemini

// promptData is the data passed to the prompt template.
type promptData struct {
	Subject string
	Notes   string
}

// responseSchema is the JSON document the model is instructed to emit.
type responseSchema struct {
	Items []itemSchema `json:"items"`
}

// itemSchema is a single generated quiz item in the API response.
type itemSchema struct {
	// Prompt is the question shown to the student.
	Prompt string `json:"prompt"`

	// Answer is the expected answer the student's reply is graded against.
	Answer string `json:"answer"`
}
