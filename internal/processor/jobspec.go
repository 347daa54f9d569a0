package processor

import (
	"context"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/errors"
	"resumeparser/internal/prompts"
	"resumeparser/internal/regexparser"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const jobSpecOperation = "jobspec"

// JobSpecAnalysis is the best-effort reading of a job description.
type JobSpecAnalysis struct {
	Spec       types.ParsedJobSpec
	Confidence int
	Method     types.Method
	Trace      Trace
}

// Analyzer extracts a ParsedJobSpec with a schema-constrained model call
// and falls back to the regex job-spec parser.
type Analyzer struct {
	extractor *ai.Extractor
	prompts   *prompts.Builder
	regex     *regexparser.Parser
	scorer    confidence.Scorer[types.ParsedJobSpec]
	recorder  Recorder
	logger    *errors.Logger
	deps      Dependencies
}

// NewAnalyzer returns an Analyzer over deps.
func NewAnalyzer(deps Dependencies) *Analyzer {
	deps = deps.withDefaults()
	return &Analyzer{
		extractor: ai.NewExtractor(deps.JobSpec, deps.Logger),
		prompts:   deps.Prompts,
		regex:     deps.Regex,
		scorer:    confidence.NewJobSpecScorer(confidence.AICap),
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		deps:      deps,
	}
}

// Analyze reads pasted job-spec text. It never fails.
func (a *Analyzer) Analyze(ctx context.Context, text string) JobSpecAnalysis {
	return a.analyze(ctx, types.TextInput("job-spec.txt", text))
}

// Process analyzes a job-spec file and wraps the result in an envelope.
// Only empty input is an error.
func (a *Analyzer) Process(ctx context.Context, input types.FileInput) (*types.JobSpecResult, error) {
	start := a.deps.now()
	if input.IsEmpty() {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyInput, "Job specification has no content", nil).
			WithContext("file_name", input.FileName)
	}

	analysis := a.analyze(ctx, input)
	result := &types.JobSpecResult{
		Data: analysis.Spec,
		Meta: types.Meta{
			RequestID:        a.deps.newID(),
			Method:           analysis.Method,
			Confidence:       analysis.Confidence,
			ProcessingType:   types.ProcessingJobSpec,
			ProcessingTimeMs: elapsedMs(start, a.deps.now()),
			FallbackReason:   userFacingReason(analysis.Trace),
		},
	}
	a.recorder.RecordResult(ctx, result.Meta, input.FileSize)
	return result, nil
}

func (a *Analyzer) analyze(ctx context.Context, input types.FileInput) JobSpecAnalysis {
	ctx, span := tracer.Start(ctx, "processor.analyze_job_spec")
	defer span.End()

	var primary func(context.Context) Outcome[types.JobSpecExtraction]
	if a.extractor.Available() && !input.IsEmpty() {
		primary = func(ctx context.Context) Outcome[types.JobSpecExtraction] {
			return a.extractWithAI(ctx, input)
		}
	}

	extraction, trace := ExtractWithFallback(ctx, primary, func() types.JobSpecExtraction {
		return a.regex.ParseJobSpec(input.PlainText())
	})

	method := types.MethodAI
	if trace.FellBack() {
		method = types.MethodRegexFallback
		a.recorder.RecordFallback(ctx, jobSpecOperation, trace.Reason())
		if trace.Failure != FailureUnavailable {
			span.SetStatus(codes.Error, errString(trace.Err))
			a.logger.Warn("AI job-spec analysis failed, using regex parser",
				"failure", trace.Reason(),
				"error", errString(trace.Err))
		}
	}
	span.SetAttributes(
		attribute.String("method", string(method)),
		attribute.Int("confidence", extraction.Confidence),
		attribute.Int("required_skills", len(extraction.Data.RequiredSkills)),
	)

	return JobSpecAnalysis{
		Spec:       extraction.Data,
		Confidence: extraction.Confidence,
		Method:     method,
		Trace:      trace,
	}
}

func (a *Analyzer) extractWithAI(ctx context.Context, input types.FileInput) Outcome[types.JobSpecExtraction] {
	// PDF text is not available here; the marker tells the model to read the attachment.
	prompt, err := a.prompts.JobSpec(input.Content)
	if err != nil {
		return Failed[types.JobSpecExtraction](
			errors.NewInternalError(errors.ErrCodeInvalidConfig, "Failed to build job-spec prompt", err))
	}

	var (
		spec  types.ParsedJobSpec
		usage *ai.TokenUsage
	)
	start := a.deps.now()
	spec, usage, err = ai.ExtractStructured[types.ParsedJobSpec](ctx, a.extractor, input, ai.JobSpecSchema(), prompt)
	a.recorder.RecordAIOperation(ctx, jobSpecOperation, a.deps.now().Sub(start), usage, err)
	if err != nil {
		return Failed[types.JobSpecExtraction](err)
	}

	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return Failed[types.JobSpecExtraction](
			errors.NewAIError(errors.ErrCodeAIInvalidJSON, errors.InvalidJSONMessage, err))
	}
	return Succeeded(types.JobSpecExtraction{Data: spec, Confidence: a.scorer.Score(spec)})
}
