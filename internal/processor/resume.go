package processor

import (
	"context"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/errors"
	"resumeparser/internal/jsonrepair"
	"resumeparser/internal/prompts"
	"resumeparser/internal/regexparser"
	"resumeparser/internal/schemas"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

const (
	extractOperation = "extract"
	aiSourceName     = "ai"
	resumeVersion    = "1.0"
)

// resumeParser is the verbatim extraction step shared by Generator and
// Tailor: a free-text model call repaired into JSON, with the regex
// parser behind it.
type resumeParser struct {
	extractor *ai.Extractor
	prompts   *prompts.Builder
	regex     *regexparser.Parser
	scorer    confidence.Scorer[types.ParsedResume]
	recorder  Recorder
	logger    *errors.Logger
	now       func() time.Time
}

func newResumeParser(deps Dependencies) *resumeParser {
	return &resumeParser{
		extractor: ai.NewExtractor(deps.Extract, deps.Logger),
		prompts:   deps.Prompts,
		regex:     deps.Regex,
		scorer:    confidence.NewGeneratorScorer(),
		recorder:  deps.Recorder,
		logger:    deps.Logger,
		now:       deps.now,
	}
}

func (p *resumeParser) parse(ctx context.Context, input types.FileInput) (types.ExtractionResult, Trace) {
	ctx, span := tracer.Start(ctx, "processor.parse_resume")
	defer span.End()

	var primary func(context.Context) Outcome[types.ExtractionResult]
	if p.extractor.Available() {
		primary = func(ctx context.Context) Outcome[types.ExtractionResult] {
			return p.extractWithAI(ctx, input)
		}
	}

	result, trace := ExtractWithFallback(ctx, primary, func() types.ExtractionResult {
		return p.regex.Parse(input.PlainText())
	})

	span.SetAttributes(
		attribute.Bool("fallback", trace.FellBack()),
		attribute.Int("confidence", result.Confidence),
	)
	if trace.FellBack() {
		span.SetAttributes(attribute.String("fallback.reason", trace.Reason()))
		p.recorder.RecordFallback(ctx, extractOperation, trace.Reason())
		if trace.Failure == FailureUnavailable {
			p.logger.Debug("AI extraction unavailable, using regex parser", "file_name", input.FileName)
		} else {
			p.logger.Warn("AI extraction failed, using regex parser",
				"file_name", input.FileName,
				"failure", trace.Reason(),
				"error", errString(trace.Err))
		}
	}
	return result, trace
}

func (p *resumeParser) extractWithAI(ctx context.Context, input types.FileInput) Outcome[types.ExtractionResult] {
	prompt, err := p.prompts.Extraction(input)
	if err != nil {
		return Failed[types.ExtractionResult](
			errors.NewInternalError(errors.ErrCodeInvalidConfig, "Failed to build extraction prompt", err))
	}

	resp, err := timedGenerate(ctx, p.recorder, extractOperation, func(ctx context.Context) (*ai.Response, error) {
		return p.extractor.Generate(ctx, input, prompt)
	})
	if err != nil {
		return Failed[types.ExtractionResult](err)
	}

	resume, err := jsonrepair.CleanAndParse[types.ParsedResume](resp.Text,
		jsonrepair.WithSchema(schemas.Resume),
		jsonrepair.WithLogger(p.logger))
	if err != nil {
		return Failed[types.ExtractionResult](err)
	}

	resume = resume.Normalize()
	resume.Metadata = stampMetadata(resume.Metadata, aiSourceName, p.now())
	return Succeeded(types.ExtractionResult{Data: resume, Confidence: p.scorer.Score(resume)})
}

// stampMetadata fills in the bookkeeping fields, keeping any commentary.
func stampMetadata(md *types.Metadata, source string, now time.Time) *types.Metadata {
	out := types.Metadata{}
	if md != nil {
		out = *md
	}
	out.Source = source
	out.LastUpdated = now.UTC().Format(time.RFC3339)
	if out.Version == "" {
		out.Version = resumeVersion
	}
	return &out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// userFacingReason is the reason shown to callers for a fallback.
func userFacingReason(trace Trace) string {
	if !trace.FellBack() {
		return ""
	}
	if trace.Failure == FailureInvalidOutput {
		if appErr, ok := errors.AsAppError(trace.Err); ok {
			return appErr.Message
		}
		return errors.InvalidJSONMessage
	}
	return trace.Reason()
}
