package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/mbecker/studycoach-api/internal/config"
	"github.com/mbecker/studycoach-api/internal/domain"
	"github.com/mbecker/studycoach-api/internal/generation"
)

// modelCaller abstracts the single Gemini API call the generator makes,
// so tests can exercise the retry and parse paths without the network.
type modelCaller interface {
	generateContent(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)
}

// genaiCaller is the production modelCaller backed by a genai client.
type genaiCaller struct {
	client *genai.Client
}

func (c *genaiCaller) generateContent(
	ctx context.Context,
	model, prompt string,
) (*genai.GenerateContentResponse, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	return c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
}

// QuizGenerator implements the generation.Generator interface using
// Google's Gemini API to generate quiz items from study notes.
type QuizGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	caller         modelCaller
	model          string
}

var _ generation.Generator = (*QuizGenerator)(nil)

// NewQuizGenerator creates a QuizGenerator from the LLM configuration.
// It validates the configuration and establishes the Gemini client.
func NewQuizGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*QuizGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := parsePromptTemplate()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &QuizGenerator{
		logger:         logger.With("component", "quiz_generator"),
		config:         cfg,
		promptTemplate: promptTemplate,
		caller:         &genaiCaller{client: client},
		model:          cfg.ModelName,
	}, nil
}

// GenerateItems implements generation.Generator.
func (g *QuizGenerator) GenerateItems(
	ctx context.Context,
	notes, subject string,
	userID uuid.UUID,
) ([]*domain.ReviewItem, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user ID cannot be empty")
	}

	prompt, err := g.createPrompt(ctx, notes, subject)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	items, err := g.parseResponse(ctx, response, userID, subject)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "quiz items generated",
		"user_id", userID,
		"subject", subject,
		"count", len(items))

	return items, nil
}

// callWithRetry calls the Gemini API with exponential backoff.
//
// Transient failures (network or API errors) are retried up to
// MaxRetries times with jittered exponential delays. Permanent
// failures, such as safety blocks or unparseable output, are returned
// immediately: retrying the same prompt would produce the same result.
func (g *QuizGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.DebugContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		resp, err := g.caller.generateContent(ctx, g.model, prompt)

		var parsed *responseSchema
		transient := false
		switch {
		case err != nil:
			transient = true
		default:
			parsed, err = extractResponse(resp)
		}

		if err == nil {
			return parsed, nil
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded %d retry attempts: %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = base * 2^attempt, scaled by jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// extractResponse pulls the JSON document out of a raw API response.
func extractResponse(resp *genai.GenerateContentResponse) (*responseSchema, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason %s",
			generation.ErrContentBlocked, candidate.FinishReason)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, nil
}

// parseResponse converts the model's output into validated domain items.
// One bad item fails the whole batch: partially trustworthy generated
// content is worse than none.
func (g *QuizGenerator) parseResponse(
	ctx context.Context,
	response *responseSchema,
	userID uuid.UUID,
	subject string,
) ([]*domain.ReviewItem, error) {
	if response == nil || len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: no items in response", generation.ErrInvalidResponse)
	}

	now := time.Now().UTC()
	items := make([]*domain.ReviewItem, 0, len(response.Items))
	for i, schema := range response.Items {
		if schema.Prompt == "" {
			return nil, fmt.Errorf("%w: item %d missing prompt", generation.ErrInvalidResponse, i)
		}
		if schema.Answer == "" {
			return nil, fmt.Errorf("%w: item %d missing answer", generation.ErrInvalidResponse, i)
		}

		item, err := domain.NewReviewItem(userID, subject, schema.Prompt, schema.Answer, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create review item: %w", err)
		}

		items = append(items, item)
	}

	g.logger.DebugContext(ctx, "parsed generation response", "items", len(items))

	return items, nil
}
