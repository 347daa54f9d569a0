package ai

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"resumeparser/internal/config"
	appErrors "resumeparser/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

const defaultModelCheckTimeout = 10 * time.Second

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type modelFunc func(ctx context.Context, model string) (*genai.Model, error)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	config            *config.OperationAIConfig
	operation         string
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	modelCheckTimeout time.Duration
	logger            *appErrors.Logger

	generate generateFunc
	getModel modelFunc
	// sleep waits between retries; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

var (
	_ Provider      = (*GeminiProvider)(nil)
	_ StatsReporter = (*GeminiProvider)(nil)
)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *appErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	g := newGeminiProvider(cfg, operation, logger)
	g.generate = client.Models.GenerateContent
	g.getModel = func(ctx context.Context, model string) (*genai.Model, error) {
		return client.Models.Get(ctx, model, &genai.GetModelConfig{})
	}
	return g, nil
}

func newGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *appErrors.Logger) *GeminiProvider {
	return &GeminiProvider{
		config:            cfg,
		operation:         operation,
		circuitBreaker:    NewAICircuitBreaker(operation, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operation, cfg, logger),
		modelCheckTimeout: defaultModelCheckTimeout,
		logger:            logger,
		sleep:             sleepContext,
	}
}

// SetModelCheckTimeout bounds GetModelInfo calls.
func (g *GeminiProvider) SetModelCheckTimeout(d time.Duration) {
	if d > 0 {
		g.modelCheckTimeout = d
	}
}

// GenerateStructured implements Provider with a schema-constrained JSON response
func (g *GeminiProvider) GenerateStructured(ctx context.Context, req Request) (*Response, error) {
	if req.Schema == nil {
		return nil, appErrors.NewInternalError(appErrors.ErrCodeInvalidRequest,
			"structured generation requires a schema", nil)
	}
	genaiConfig := g.baseConfig(req)
	genaiConfig.ResponseMIMEType = "application/json"
	genaiConfig.ResponseSchema = req.Schema
	return g.executeAIOperation(ctx, "generate_structured", req, genaiConfig)
}

// GenerateText implements Provider with a free-text response
func (g *GeminiProvider) GenerateText(ctx context.Context, req Request) (*Response, error) {
	return g.executeAIOperation(ctx, "generate_text", req, g.baseConfig(req))
}

func (g *GeminiProvider) baseConfig(req Request) *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{}

	temperature := req.Temperature
	if temperature == nil {
		temperature = g.config.Temperature
	}
	if temperature != nil && *temperature > 0 {
		t := *temperature
		genaiConfig.Temperature = &t
	}

	if g.useSystemPrompts() && req.SystemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return genaiConfig
}

func (g *GeminiProvider) useSystemPrompts() bool {
	return g.config.UseSystemPrompts == nil || *g.config.UseSystemPrompts
}

// buildContents puts the attachment first, then the prompt text. Without
// system instructions the system prompt is prepended to the user text.
func (g *GeminiProvider) buildContents(req Request) []*genai.Content {
	text := req.Prompt
	if !g.useSystemPrompts() && req.SystemPrompt != "" {
		text = req.SystemPrompt + "\n\n" + req.Prompt
	}
	if req.Attachment == nil || len(req.Attachment.Data) == 0 {
		return genai.Text(text)
	}
	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType),
		genai.NewPartFromText(text),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func (g *GeminiProvider) maxRetries() int {
	if g.config.MaxRetries == nil || *g.config.MaxRetries < 0 {
		return 0
	}
	return *g.config.MaxRetries
}

// executeAIOperation runs one generation call with tracing, the circuit
// breaker, the configured timeout and retries.
func (g *GeminiProvider) executeAIOperation(ctx context.Context, callType string, req Request, genaiConfig *genai.GenerateContentConfig) (*Response, error) {
	tracer := otel.Tracer("resumeparser.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+g.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.String("ai.operation", g.operation),
		attribute.String("ai.call_type", callType),
		attribute.Int("input.prompt_length", len(req.Prompt)),
		attribute.Bool("input.has_attachment", req.Attachment != nil),
	)
	if genaiConfig.Temperature != nil {
		span.SetAttributes(attribute.Float64("ai.temperature", float64(*genaiConfig.Temperature)))
	}

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	contents := g.buildContents(req)
	start := time.Now()
	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.generate(ctx, g.config.Model, contents, genaiConfig)
		})
	})
	duration := time.Since(start)

	if err != nil {
		appErr := classifyError(g.operation, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.Code)
		span.SetAttributes(attribute.Bool("success", false), attribute.String("error.code", appErr.Code))
		g.logger.LogError(appErr, "AI operation failed",
			"operation", g.operation,
			"model", g.config.Model,
			"duration_ms", duration.Milliseconds())
		return nil, appErr
	}

	text := result.Text()
	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("output.length", len(text)))

	g.logger.Debug("AI operation completed",
		"operation", g.operation,
		"call_type", callType,
		"model", g.config.Model,
		"duration_ms", duration.Milliseconds(),
		"output_length", len(text))

	return &Response{Text: text, Usage: tokenUsage, Model: g.config.Model}, nil
}

// executeWithRetry executes an AI call with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := g.maxRetries()
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", g.operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			if err := g.sleep(ctx, backoffDelay(attempt)); err != nil {
				return nil, err
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", g.operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", g.operation,
				"error", err.Error())
			break
		}
	}

	if maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", g.operation, maxRetries, lastErr)
}

// backoffDelay is 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s.
func backoffDelay(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if jitterBig, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(jitterBig.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.getModel(checkCtx, g.config.Model)
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", g.operation,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model != nil {
		modelInfo.DisplayName = model.DisplayName
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"operation", g.operation,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements Provider. The genai client holds no open streams.
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
