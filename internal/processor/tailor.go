package processor

import (
	"context"
	"fmt"
	"strings"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/errors"
	"resumeparser/internal/jsonrepair"
	"resumeparser/internal/prompts"
	"resumeparser/internal/schemas"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	tailorOperation   = "tailor"
	tailoredSource    = "ai-tailored"
	untailoredComment = "Tailoring was skipped (%s). The original resume is returned unchanged."
)

// Tailor rewrites a resume toward a job specification. Tailoring is best
// effort: any failure returns the parsed original.
type Tailor struct {
	parser           *resumeParser
	analyzer         *Analyzer
	summary          *SummaryEnforcer
	provider         ai.Provider
	prompts          *prompts.Builder
	scorer           confidence.Scorer[types.ParsedResume]
	fetcher          JobSpecFetcher
	recorder         Recorder
	logger           *errors.Logger
	maxSummaryLength int
	maxJobSpecLength int
	deps             Dependencies
}

// NewTailor returns a Tailor over deps.
func NewTailor(deps Dependencies) *Tailor {
	deps = deps.withDefaults()
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = NewLocalFetcher(nil)
	}
	return &Tailor{
		parser:           newResumeParser(deps),
		analyzer:         NewAnalyzer(deps),
		summary:          NewSummaryEnforcer(deps),
		provider:         deps.Tailor,
		prompts:          deps.Prompts,
		scorer:           confidence.NewAIResumeScorer(),
		fetcher:          fetcher,
		recorder:         deps.Recorder,
		logger:           deps.Logger,
		maxSummaryLength: deps.MaxSummaryLength,
		maxJobSpecLength: deps.MaxJobSpecLength,
		deps:             deps,
	}
}

// Process parses input, analyzes the job specification, tailors the
// resume and scores the match. Invalid input or job context is an error;
// AI failures are not.
func (t *Tailor) Process(ctx context.Context, input types.FileInput, jobCtx types.UserAdditionalContext, custom types.Customizations) (*types.ProcessResult, error) {
	start := t.deps.now()
	ctx, span := tracer.Start(ctx, "processor.tailor")
	defer span.End()

	if input.IsEmpty() {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyInput, "Resume file has no content", nil).
			WithContext("file_name", input.FileName)
	}
	jobCtx = jobCtx.WithDefaults()
	if err := jobCtx.Validate(); err != nil {
		return nil, err
	}

	jobSpec, err := t.resolveJobSpec(ctx, jobCtx)
	if err != nil {
		return nil, err
	}
	jobSpecText := jobSpec.PlainText()

	requestID := t.deps.newID()
	logger := t.logger.With("request_id", requestID, "processing_type", types.ProcessingTailor)
	logger.Debug("Tailoring resume",
		"file_name", input.FileName,
		"tone", jobCtx.Tone,
		"job_spec_source", jobCtx.JobSpecSource,
		"job_spec_length", len([]rune(jobSpecText)))

	// parsing and job-spec analysis are independent
	var (
		original types.ExtractionResult
		trace    Trace
		analysis JobSpecAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		original, trace = t.parser.parse(gctx, input)
		return nil
	})
	g.Go(func() error {
		analysis = t.analyzer.analyze(gctx, jobSpec)
		return nil
	})
	_ = g.Wait()

	spec := analysis.Spec
	method := types.MethodAITailored
	resumeConfidence := original.Confidence
	var commentary string

	resume, err := t.tailor(ctx, original.Data, &spec, jobSpecText, jobCtx)
	if err != nil {
		logger.Warn("Tailoring failed, returning original resume",
			"failure", ClassifyFailure(err).String(),
			"error", err.Error())
		t.recorder.RecordFallback(ctx, tailorOperation, ClassifyFailure(err).String())
		resume = original.Data
		method = types.MethodOriginalUntailored
		commentary = fmt.Sprintf(untailoredComment, untailoredReason(err))
	} else {
		resumeConfidence = t.scorer.Score(resume)
		commentary = resume.Commentary()
	}

	resume = ApplyCustomizations(resume, custom)
	resume = t.summary.Enforce(ctx, resume, t.maxSummaryLength)
	resume = resume.Normalize()

	matchScore := confidence.JobMatchScore(resume, jobSpecText, &spec)
	tailoringConfidence := confidence.TailoringConfidence(confidence.TailoringInput{
		Resume:      resume,
		JobSpecText: jobSpecText,
		Tone:        jobCtx.Tone,
	})

	result := &types.ProcessResult{
		Data: resume,
		Meta: types.Meta{
			RequestID:           requestID,
			Method:              method,
			Confidence:          resumeConfidence,
			ProcessingType:      types.ProcessingTailor,
			AITailorCommentary:  commentary,
			JobMatchScore:       &matchScore,
			TailoringConfidence: &tailoringConfidence,
			ProcessingTimeMs:    elapsedMs(start, t.deps.now()),
			FallbackReason:      userFacingReason(trace),
			JobSpec:             &spec,
		},
	}

	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("method", string(method)),
		attribute.Float64("job_match_score", matchScore),
		attribute.Float64("tailoring_confidence", tailoringConfidence),
	)
	t.recorder.RecordResult(ctx, result.Meta, input.FileSize)
	logger.Info("Resume tailored",
		"method", method,
		"confidence", resumeConfidence,
		"job_match_score", matchScore,
		"tailoring_confidence", tailoringConfidence,
		"processing_time_ms", result.Meta.ProcessingTimeMs)
	return result, nil
}

// resolveJobSpec returns the job specification as a FileInput, reading
// uploads through the fetcher.
func (t *Tailor) resolveJobSpec(ctx context.Context, jobCtx types.UserAdditionalContext) (types.FileInput, error) {
	if strings.TrimSpace(jobCtx.JobSpecText) != "" {
		return types.TextInput("job-spec.txt", jobCtx.JobSpecText), nil
	}

	input, err := t.fetcher.Fetch(ctx, jobCtx.JobSpecFileURL)
	if err != nil {
		return types.FileInput{}, err
	}
	if input.IsPDF() {
		input.FallbackText = Truncate(input.FallbackText, t.maxJobSpecLength)
		return input, nil
	}
	if n := len([]rune(input.Content)); n > t.maxJobSpecLength {
		t.logger.Warn("Job specification truncated",
			"file_name", input.FileName,
			"length", n,
			"max_length", t.maxJobSpecLength)
		input = types.TextInput(input.FileName, Truncate(input.Content, t.maxJobSpecLength))
	}
	return input, nil
}

// tailor runs the rewrite call against the already-parsed original.
func (t *Tailor) tailor(ctx context.Context, original types.ParsedResume, spec *types.ParsedJobSpec, jobSpecText string, jobCtx types.UserAdditionalContext) (types.ParsedResume, error) {
	ctx, span := tracer.Start(ctx, "processor.tailor_resume")
	defer span.End()

	if t.provider == nil {
		return types.ParsedResume{}, errors.NewAIError(errors.ErrCodeProviderUnavailable, "No AI provider configured for tailoring", nil)
	}

	prompt, err := t.prompts.Tailor(prompts.TailorPromptInput{
		Resume:      original,
		JobSpec:     spec,
		JobSpecText: jobSpecText,
		Tone:        jobCtx.Tone,
		ExtraPrompt: jobCtx.ExtraPrompt,
	})
	if err != nil {
		return types.ParsedResume{}, errors.NewInternalError(errors.ErrCodeInvalidConfig, "Failed to build tailoring prompt", err)
	}

	resp, err := timedGenerate(ctx, t.recorder, tailorOperation, func(ctx context.Context) (*ai.Response, error) {
		return t.provider.GenerateText(ctx, ai.Request{Prompt: prompt.User, SystemPrompt: prompt.System})
	})
	if err != nil {
		return types.ParsedResume{}, err
	}

	tailored, err := jsonrepair.CleanAndParse[types.ParsedResume](resp.Text,
		jsonrepair.WithSchema(schemas.Resume),
		jsonrepair.WithLogger(t.logger))
	if err != nil {
		return types.ParsedResume{}, err
	}

	tailored = preserveCustomizations(tailored.Normalize(), original)
	tailored.Metadata = stampMetadata(tailored.Metadata, tailoredSource, t.deps.now())
	return tailored, nil
}

func untailoredReason(err error) string {
	switch ClassifyFailure(err) {
	case FailureUnavailable:
		return "AI tailoring is unavailable"
	case FailureInvalidOutput:
		return errors.InvalidJSONMessage
	default:
		if appErr, ok := errors.AsAppError(err); ok {
			return appErr.Message
		}
		return "the AI service failed"
	}
}
