package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/aiplanner/internal/config"
	"github.com/phrazzld/aiplanner/internal/generation"
	"github.com/phrazzld/aiplanner/internal/platform/logger"
	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"
)

// Scheduling replies should be stable for the same task list.
const defaultTemperature float32 = 0.2

// contentGenerator is the part of the genai client the generator uses.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	retryDelay time.Duration
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a Gemini API client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg)
}

func newGenerator(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	delaySeconds := cfg.RetryDelaySeconds
	if delaySeconds < 1 {
		logger.Warn("invalid retry delay value, using default", "retry_delay_seconds", 2)
		delaySeconds = 2
	}

	return &GeminiGenerator{
		logger:     logger.With(slog.String("component", "gemini_generator")),
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		retryDelay: time.Duration(delaySeconds) * time.Second,
	}, nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, req generation.RequestPayload) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, ErrEmptyPrompt)
	}
	log := logger.FromContextOrDefault(ctx, g.logger)

	temperature := defaultTemperature
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}},
		Temperature:       &temperature,
	}

	backoff := retry.NewExponential(g.retryDelay)
	backoff = retry.WithJitterPercent(50, backoff)
	backoff = retry.WithMaxRetries(uint64(g.maxRetries), backoff)

	attempt := 0
	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		log.Info("making Gemini API call",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", g.maxRetries+1),
			slog.Int("task_count", len(req.TaskIDs)))

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(req.UserMessage), genConfig)
		if err != nil {
			log.Error("Gemini API call failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			if ctx.Err() != nil {
				return err
			}
			if isPermanentAPIError(err) {
				log.Warn("request rejected by Gemini API, not retrying", slog.String("error", err.Error()))
				return fmt.Errorf("%w: %w", ErrRequestRejected, err)
			}
			return retry.RetryableError(fmt.Errorf("%w: %v", generation.ErrTransientFailure, err))
		}

		text, err = responseText(resp)
		if err != nil {
			log.Warn("permanent error occurred, not retrying", slog.String("error", err.Error()))
		}
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, generation.ErrTransientFailure) {
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctxErr)
		}
		if errors.Is(err, generation.ErrTransientFailure) {
			return "", fmt.Errorf("%w: %w after %d attempts", generation.ErrGenerationFailed, err, attempt)
		}
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	log.Info("Gemini API call successful",
		slog.Int("attempt", attempt),
		slog.Int("response_length", len(text)))
	return text, nil
}

// isPermanentAPIError reports whether err is a 4xx API response that a retry
// cannot fix. Timeouts and rate limiting stay retryable.
func isPermanentAPIError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return apiErr.Code >= 400 && apiErr.Code < 500
}

// responseText extracts the reply text, classifying unusable replies as permanent errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return b.String(), nil
}
