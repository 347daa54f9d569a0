package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"resumeparser/internal/config"
	appErrors "resumeparser/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

func testOperationConfig() *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-test",
		APIKey:           "test-key",
		Timeout:          timePtr(5 * time.Second),
		MaxRetries:       intPtr(0),
		Temperature:      float32Ptr(0.1),
		UseSystemPrompts: boolPtr(true),
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 8,
			TotalTokenCount:      20,
		},
	}
}

type recordedCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// fakeGemini returns a provider whose generation calls are served by
// responses in order; the last response repeats.
func fakeGemini(cfg *config.OperationAIConfig, responses ...func() (*genai.GenerateContentResponse, error)) (*GeminiProvider, *[]recordedCall, *[]time.Duration) {
	g := newGeminiProvider(cfg, "extract", nil)
	calls := &[]recordedCall{}
	sleeps := &[]time.Duration{}
	g.generate = func(_ context.Context, model string, contents []*genai.Content, gc *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		*calls = append(*calls, recordedCall{model: model, contents: contents, config: gc})
		i := min(len(*calls)-1, len(responses)-1)
		return responses[i]()
	}
	g.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
	return g, calls, sleeps
}

func succeed(text string) func() (*genai.GenerateContentResponse, error) {
	return func() (*genai.GenerateContentResponse, error) { return textResponse(text), nil }
}

func failWith(err error) func() (*genai.GenerateContentResponse, error) {
	return func() (*genai.GenerateContentResponse, error) { return nil, err }
}

func TestGenerateStructuredBuildsRequest(t *testing.T) {
	g, calls, _ := fakeGemini(testOperationConfig(), succeed(`{"name":"Jo"}`))

	resp, err := g.GenerateStructured(context.Background(), Request{
		Prompt:       "Extract the resume",
		SystemPrompt: "You are precise",
		Attachment:   &Attachment{MIMEType: "application/pdf", Data: []byte("%PDF-1.4")},
		Schema:       ResumeSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Jo"}`, resp.Text)
	assert.Equal(t, "gemini-test", resp.Model)
	assert.Equal(t, &TokenUsage{InputTokens: 12, OutputTokens: 8, TotalTokens: 20}, resp.Usage)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "gemini-test", call.model)
	assert.Equal(t, "application/json", call.config.ResponseMIMEType)
	assert.NotNil(t, call.config.ResponseSchema)
	require.NotNil(t, call.config.Temperature)
	assert.InDelta(t, 0.1, float64(*call.config.Temperature), 0.0001)
	require.NotNil(t, call.config.SystemInstruction)
	assert.Equal(t, "You are precise", call.config.SystemInstruction.Parts[0].Text)

	require.Len(t, call.contents, 1)
	parts := call.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), parts[0].InlineData.Data)
	assert.Equal(t, "Extract the resume", parts[1].Text)
}

func TestGenerateStructuredRequiresSchema(t *testing.T) {
	g, calls, _ := fakeGemini(testOperationConfig(), succeed("{}"))
	_, err := g.GenerateStructured(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
	assert.Empty(t, *calls)
}

func TestGenerateTextOptions(t *testing.T) {
	t.Run("request temperature wins", func(t *testing.T) {
		g, calls, _ := fakeGemini(testOperationConfig(), succeed("ok"))
		_, err := g.GenerateText(context.Background(), Request{Prompt: "p", Temperature: float32Ptr(0.7)})
		require.NoError(t, err)

		call := (*calls)[0]
		assert.InDelta(t, 0.7, float64(*call.config.Temperature), 0.0001)
		assert.Empty(t, call.config.ResponseMIMEType)
		assert.Nil(t, call.config.SystemInstruction)
		assert.Equal(t, "p", call.contents[0].Parts[0].Text)
	})

	t.Run("system prompt inlined when system instructions are off", func(t *testing.T) {
		cfg := testOperationConfig()
		cfg.UseSystemPrompts = boolPtr(false)
		g, calls, _ := fakeGemini(cfg, succeed("ok"))

		_, err := g.GenerateText(context.Background(), Request{Prompt: "user text", SystemPrompt: "system text"})
		require.NoError(t, err)

		call := (*calls)[0]
		assert.Nil(t, call.config.SystemInstruction)
		assert.Equal(t, "system text\n\nuser text", call.contents[0].Parts[0].Text)
	})

	t.Run("zero temperature left to the model", func(t *testing.T) {
		cfg := testOperationConfig()
		cfg.Temperature = float32Ptr(0)
		g, calls, _ := fakeGemini(cfg, succeed("ok"))

		_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
		require.NoError(t, err)
		assert.Nil(t, (*calls)[0].config.Temperature)
	})
}

func TestGeminiErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "quota", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}, code: appErrors.ErrCodeAIQuotaExceeded},
		{name: "too large", err: &googleapi.Error{Code: http.StatusRequestEntityTooLarge}, code: appErrors.ErrCodeAIInvalidRequest},
		{name: "server error", err: &googleapi.Error{Code: http.StatusInternalServerError}, code: appErrors.ErrCodeAIServiceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, calls, _ := fakeGemini(testOperationConfig(), failWith(tt.err))
			_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			assert.True(t, appErrors.IsCode(err, tt.code), "got %v", err)
			assert.Len(t, *calls, 1, "extraction config never retries")
		})
	}
}

func TestGeminiRetriesTransientErrors(t *testing.T) {
	cfg := testOperationConfig()
	cfg.MaxRetries = intPtr(2)
	g, calls, sleeps := fakeGemini(cfg,
		failWith(&googleapi.Error{Code: http.StatusServiceUnavailable}),
		succeed("recovered"))

	resp, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
	assert.Len(t, *calls, 2)
	require.Len(t, *sleeps, 1)
	assert.GreaterOrEqual(t, (*sleeps)[0], time.Second)
}

func TestGeminiDoesNotRetryInvalidRequests(t *testing.T) {
	cfg := testOperationConfig()
	cfg.MaxRetries = intPtr(3)
	g, calls, sleeps := fakeGemini(cfg, failWith(genai.APIError{Code: http.StatusBadRequest}))

	_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeAIInvalidRequest))
	assert.Len(t, *calls, 1)
	assert.Empty(t, *sleeps)
}

func TestGeminiDoesNotRetryQuotaErrors(t *testing.T) {
	cfg := testOperationConfig()
	cfg.MaxRetries = intPtr(3)
	g, calls, sleeps := fakeGemini(cfg, failWith(&googleapi.Error{Code: http.StatusTooManyRequests}))

	_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeAIQuotaExceeded), "got %v", err)
	assert.Len(t, *calls, 1)
	assert.Empty(t, *sleeps)
}

func TestGeminiOpenBreakerFailsFast(t *testing.T) {
	cfg := testOperationConfig()
	cfg.CircuitBreaker = breakerConfig(2, 0.5).CircuitBreaker
	g, calls, _ := fakeGemini(cfg, failWith(&googleapi.Error{Code: http.StatusInternalServerError}))

	for range 2 {
		_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
		assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeAIServiceFailed))
	}

	_, err := g.GenerateText(context.Background(), Request{Prompt: "p"})
	assert.True(t, appErrors.IsCode(err, appErrors.ErrCodeProviderUnavailable), "got %v", err)
	assert.Len(t, *calls, 2)

	stats := g.GetCircuitBreakerStats()
	assert.Equal(t, false, stats["overall_healthy"])
}

func TestGetModelInfo(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		g := newGeminiProvider(testOperationConfig(), "extract", nil)
		g.getModel = func(_ context.Context, model string) (*genai.Model, error) {
			return &genai.Model{Name: model, DisplayName: "Gemini Test", Version: "001"}, nil
		}
		info := g.GetModelInfo(context.Background())
		assert.True(t, info.Available)
		assert.Equal(t, "gemini-test", info.Name)
		assert.Equal(t, "Gemini Test", info.DisplayName)
		assert.Equal(t, "001", info.Version)
	})

	t.Run("unavailable", func(t *testing.T) {
		g := newGeminiProvider(testOperationConfig(), "extract", nil)
		g.getModel = func(context.Context, string) (*genai.Model, error) {
			return nil, errors.New("not found")
		}
		info := g.GetModelInfo(context.Background())
		assert.False(t, info.Available)
		assert.Contains(t, info.Error, "not found")
	})
}

func TestBackoffDelay(t *testing.T) {
	first := backoffDelay(1)
	assert.GreaterOrEqual(t, first, time.Second)
	assert.Less(t, first, 1100*time.Millisecond)

	second := backoffDelay(2)
	assert.GreaterOrEqual(t, second, 2*time.Second)

	assert.Equal(t, 30*time.Second, backoffDelay(10))
}

func TestExtractTokenUsage(t *testing.T) {
	assert.Nil(t, extractTokenUsage(nil))
	assert.Nil(t, extractTokenUsage(&genai.GenerateContentResponse{}))
	assert.Equal(t, int64(20), extractTokenUsage(textResponse("x")).TotalTokens)
}
