package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/mbecker/studycoach-api/internal/config"
	"github.com/mbecker/studycoach-api/internal/generation"
)

// fakeCaller replays a scripted sequence of API outcomes.
type fakeCaller struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeCaller) generateContent(
	ctx context.Context,
	model, prompt string,
) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)

	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp *genai.GenerateContentResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func jsonResponse(body string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: body}},
				},
			},
		},
	}
}

func newTestGenerator(t *testing.T, caller modelCaller, cfg config.LLMConfig) *QuizGenerator {
	t.Helper()

	tmpl, err := parsePromptTemplate()
	require.NoError(t, err)

	return &QuizGenerator{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:         cfg,
		promptTemplate: tmpl,
		caller:         caller,
		model:          "gemini-2.0-flash",
	}
}

func TestNewQuizGenerator_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewQuizGenerator(ctx, nil, config.LLMConfig{
		GeminiAPIKey: "key", ModelName: "model",
	})
	assert.Error(t, err, "nil logger must be rejected")

	_, err = NewQuizGenerator(ctx, logger, config.LLMConfig{ModelName: "model"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewQuizGenerator(ctx, logger, config.LLMConfig{GeminiAPIKey: "key"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestQuizGenerator_GenerateItems(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	notes := "The mitochondria is the powerhouse of the cell. Osmosis moves water across membranes."

	t.Run("parses a well-formed response", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			responses: []*genai.GenerateContentResponse{jsonResponse(
				`{"items": [
					{"prompt": "What is the powerhouse of the cell?", "answer": "the mitochondria"},
					{"prompt": "What process moves water across membranes?", "answer": "osmosis"}
				]}`,
			)},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{})

		items, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, userID, items[0].UserID)
		assert.Equal(t, "biology", items[0].Subject)
		assert.Equal(t, "What is the powerhouse of the cell?", items[0].Prompt)
		assert.Equal(t, "the mitochondria", items[0].ExpectedAnswer)

		require.Len(t, caller.prompts, 1)
		assert.Contains(t, caller.prompts[0], "powerhouse of the cell",
			"Prompt should embed the study notes")
		assert.Contains(t, caller.prompts[0], "biology")
	})

	t.Run("empty notes", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{}
		g := newTestGenerator(t, caller, config.LLMConfig{})

		_, err := g.GenerateItems(context.Background(), "", "biology", userID)
		assert.ErrorIs(t, err, ErrEmptyNotes)
		assert.Zero(t, caller.calls)
	})

	t.Run("safety block is permanent", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			responses: []*genai.GenerateContentResponse{{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{MaxRetries: 3})

		_, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.Equal(t, 1, caller.calls, "Safety blocks must not be retried")
	})

	t.Run("malformed JSON is permanent", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			responses: []*genai.GenerateContentResponse{jsonResponse("not json at all")},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{MaxRetries: 3})

		_, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		assert.Equal(t, 1, caller.calls)
	})

	t.Run("item missing an answer fails the batch", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			responses: []*genai.GenerateContentResponse{jsonResponse(
				`{"items": [{"prompt": "Incomplete?", "answer": ""}]}`,
			)},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{})

		_, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("transient failure exhausts retries", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			errs: []error{errors.New("connection reset")},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{MaxRetries: 0})

		_, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 1, caller.calls)
	})

	t.Run("recovers after a transient failure", func(t *testing.T) {
		t.Parallel()

		caller := &fakeCaller{
			errs: []error{errors.New("temporarily unavailable"), nil},
			responses: []*genai.GenerateContentResponse{nil, jsonResponse(
				`{"items": [{"prompt": "Q?", "answer": "A"}]}`,
			)},
		}
		g := newTestGenerator(t, caller, config.LLMConfig{MaxRetries: 1, RetryDelaySeconds: 1})

		items, err := g.GenerateItems(context.Background(), notes, "biology", userID)
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 2, caller.calls)
	})

	t.Run("nil user ID", func(t *testing.T) {
		t.Parallel()

		g := newTestGenerator(t, &fakeCaller{}, config.LLMConfig{})

		_, err := g.GenerateItems(context.Background(), notes, "biology", uuid.Nil)
		assert.Error(t, err)
	})
}
