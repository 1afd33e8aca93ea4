package gemini

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
)

// defaultPromptTemplate instructs the model to emit strict JSON so the
// response can be parsed without any free-text scraping.
const defaultPromptTemplate = `You are a study coach creating quiz questions for a student.

Read the study notes below and write quiz items that test the key facts
and concepts. Each item has a "prompt" (the question, one sentence) and
an "answer" (the expected answer, short and factual).

Rules:
- Write 3 to 10 items depending on how much material the notes cover.
- Every item must be answerable from the notes alone.
- Keep answers concise so they can be graded by keyword overlap.
- Respond with ONLY a JSON object of the form
  {"items": [{"prompt": "...", "answer": "..."}]}
  and no other text.
{{if .Subject}}
The notes are for the subject: {{.Subject}}
{{end}}
Study notes:
{{.Notes}}
`

// createPrompt renders the prompt for one generation request.
func (g *QuizGenerator) createPrompt(ctx context.Context, notes, subject string) (string, error) {
	if notes == "" {
		return "", ErrEmptyNotes
	}

	var buf bytes.Buffer
	err := g.promptTemplate.Execute(&buf, promptData{Subject: subject, Notes: notes})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := buf.String()
	g.logger.DebugContext(ctx, "prompt generated",
		"notes_length", len(notes),
		"prompt_length", len(prompt))

	return prompt, nil
}

func parsePromptTemplate() (*template.Template, error) {
	return template.New("quiz").Parse(defaultPromptTemplate)
}
