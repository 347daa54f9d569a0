package processor

import (
	"context"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Generator turns an uploaded resume into a ParsedResume.
type Generator struct {
	parser           *resumeParser
	summary          *SummaryEnforcer
	recorder         Recorder
	logger           *errors.Logger
	maxSummaryLength int
	deps             Dependencies
}

// NewGenerator returns a Generator over deps.
func NewGenerator(deps Dependencies) *Generator {
	deps = deps.withDefaults()
	return &Generator{
		parser:           newResumeParser(deps),
		summary:          NewSummaryEnforcer(deps),
		recorder:         deps.Recorder,
		logger:           deps.Logger,
		maxSummaryLength: deps.MaxSummaryLength,
		deps:             deps,
	}
}

// Process extracts input, applies custom and scores the result. AI
// failures fall back to the regex parser; only empty input is an error.
func (g *Generator) Process(ctx context.Context, input types.FileInput, custom types.Customizations) (*types.ProcessResult, error) {
	start := g.deps.now()
	ctx, span := tracer.Start(ctx, "processor.generate")
	defer span.End()

	if input.IsEmpty() {
		err := errors.NewValidationError(errors.ErrCodeEmptyInput, "Resume file has no content", nil).
			WithContext("file_name", input.FileName)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	requestID := g.deps.newID()
	logger := g.logger.With("request_id", requestID, "processing_type", types.ProcessingGenerate)
	logger.Debug("Generating resume", "file_name", input.FileName, "file_type", input.FileType, "file_size", input.FileSize)

	extraction, trace := g.parser.parse(ctx, input)

	method := types.MethodAI
	if trace.FellBack() {
		method = types.MethodRegexFallback
	}

	resume := ApplyCustomizations(extraction.Data, custom)
	resume = g.summary.Enforce(ctx, resume, g.maxSummaryLength)
	resume = resume.Normalize()

	result := &types.ProcessResult{
		Data: resume,
		Meta: types.Meta{
			RequestID:        requestID,
			Method:           method,
			Confidence:       extraction.Confidence,
			ProcessingType:   types.ProcessingGenerate,
			ProcessingTimeMs: elapsedMs(start, g.deps.now()),
			FallbackReason:   userFacingReason(trace),
		},
	}

	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("method", string(method)),
		attribute.Int("confidence", result.Meta.Confidence),
	)
	g.recorder.RecordResult(ctx, result.Meta, input.FileSize)
	logger.Info("Resume generated",
		"method", method,
		"confidence", result.Meta.Confidence,
		"processing_time_ms", result.Meta.ProcessingTimeMs)
	return result, nil
}
