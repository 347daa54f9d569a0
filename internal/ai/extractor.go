package ai

import (
	"context"
	"encoding/json"

	"resumeparser/internal/errors"
	"resumeparser/internal/prompts"
	"resumeparser/internal/types"

	"google.golang.org/genai"
)

// Extractor turns a FileInput into model output. It never retries or
// degrades on its own: failures go back to the caller.
type Extractor struct {
	provider Provider
	logger   *errors.Logger
}

// NewExtractor returns an Extractor over provider. A nil provider makes
// every call fail with PROVIDER_UNAVAILABLE.
func NewExtractor(provider Provider, logger *errors.Logger) *Extractor {
	return &Extractor{provider: provider, logger: logger}
}

// Available reports whether a provider is configured.
func (e *Extractor) Available() bool {
	return e != nil && e.provider != nil
}

// NewRequest builds a request for input. Text is already embedded in the
// prompt; PDF bytes travel as an inline attachment.
func NewRequest(input types.FileInput, prompt prompts.Prompt) Request {
	req := Request{Prompt: prompt.User, SystemPrompt: prompt.System}
	if input.IsPDF() && len(input.FileData) > 0 {
		req.Attachment = &Attachment{MIMEType: types.PDFMIMEType, Data: input.FileData}
	}
	return req
}

func (e *Extractor) check(input types.FileInput) error {
	if !e.Available() {
		return errors.NewAIError(errors.ErrCodeProviderUnavailable, "No AI provider configured", nil)
	}
	if input.IsEmpty() {
		return errors.NewValidationError(errors.ErrCodeEmptyInput, "Input file has no content", nil)
	}
	return nil
}

// Extract runs a schema-constrained call and decodes the JSON into out.
func (e *Extractor) Extract(ctx context.Context, input types.FileInput, schema *genai.Schema, prompt prompts.Prompt, out any) (*TokenUsage, error) {
	if err := e.check(input); err != nil {
		return nil, err
	}

	req := NewRequest(input, prompt)
	req.Schema = schema
	resp, err := e.provider.GenerateStructured(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(resp.Text), out); err != nil {
		e.logger.Warn("Structured response did not decode",
			"file_name", input.FileName,
			"response_length", len(resp.Text),
			"error", err.Error())
		return resp.Usage, errors.NewAIError(errors.ErrCodeAIInvalidJSON, errors.InvalidJSONMessage, err)
	}
	return resp.Usage, nil
}

// Generate runs a free-text call for input.
func (e *Extractor) Generate(ctx context.Context, input types.FileInput, prompt prompts.Prompt) (*Response, error) {
	if err := e.check(input); err != nil {
		return nil, err
	}
	return e.provider.GenerateText(ctx, NewRequest(input, prompt))
}

// ExtractStructured is Extract for a typed result.
func ExtractStructured[T any](ctx context.Context, e *Extractor, input types.FileInput, schema *genai.Schema, prompt prompts.Prompt) (T, *TokenUsage, error) {
	var out T
	usage, err := e.Extract(ctx, input, schema, prompt, &out)
	if err != nil {
		var zero T
		return zero, usage, err
	}
	return out, usage, nil
}
