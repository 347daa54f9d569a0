package processor

import (
	"context"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/prompts"
	"resumeparser/internal/regexparser"
	"resumeparser/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

const tracerName = "resumeparser.processor"

var tracer = otel.Tracer(tracerName)

// Recorder receives pipeline measurements.
type Recorder interface {
	RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error)
	RecordFallback(ctx context.Context, operation string, reason string)
	RecordResult(ctx context.Context, meta types.Meta, inputSize int64)
}

type noopRecorder struct{}

func (noopRecorder) RecordAIOperation(context.Context, string, time.Duration, *ai.TokenUsage, error) {}
func (noopRecorder) RecordFallback(context.Context, string, string)                                  {}
func (noopRecorder) RecordResult(context.Context, types.Meta, int64)                                 {}

// Dependencies wires the orchestrators. A nil provider disables AI for
// that step; the rest have usable zero values.
type Dependencies struct {
	Extract ai.Provider
	Tailor  ai.Provider
	JobSpec ai.Provider
	Summary ai.Provider

	Prompts  *prompts.Builder
	Regex    *regexparser.Parser
	Fetcher  JobSpecFetcher
	Recorder Recorder
	Logger   *errors.Logger

	// MaxSummaryLength enables summary enforcement when positive.
	MaxSummaryLength int
	// MaxJobSpecLength caps uploaded job specifications, in characters.
	MaxJobSpecLength int

	now   func() time.Time
	newID func() string
}

// NewDependencies builds Dependencies from configuration and the
// configured providers.
func NewDependencies(cfg *config.Config, providers *ai.Providers, fetcher JobSpecFetcher, logger *errors.Logger) Dependencies {
	return Dependencies{
		Extract:          providers.For(config.OperationExtract),
		Tailor:           providers.For(config.OperationTailor),
		JobSpec:          providers.For(config.OperationJobSpec),
		Summary:          providers.For(config.OperationSummary),
		Prompts:          prompts.NewBuilder(cfg.PromptConfig()),
		Regex:            regexparser.New(cfg.Regex.MaxConfidence),
		Fetcher:          fetcher,
		Logger:           logger,
		MaxSummaryLength: cfg.App.MaxSummaryLength,
		MaxJobSpecLength: cfg.App.MaxJobSpecLength,
	}
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Prompts == nil {
		d.Prompts = prompts.NewBuilder(prompts.PromptConfig{})
	}
	if d.Regex == nil {
		d.Regex = regexparser.New(regexparser.DefaultMaxConfidence)
	}
	if d.Recorder == nil {
		d.Recorder = noopRecorder{}
	}
	if d.MaxJobSpecLength <= 0 {
		d.MaxJobSpecLength = types.MaxJobSpecTextLength
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newID == nil {
		d.newID = uuid.NewString
	}
	return d
}

// Pipeline bundles the orchestrators sharing one set of dependencies.
type Pipeline struct {
	Generator *Generator
	Tailor    *Tailor
	JobSpec   *Analyzer
}

// NewPipeline builds every orchestrator from deps.
func NewPipeline(deps Dependencies) *Pipeline {
	deps = deps.withDefaults()
	return &Pipeline{
		Generator: NewGenerator(deps),
		Tailor:    NewTailor(deps),
		JobSpec:   NewAnalyzer(deps),
	}
}

// timedGenerate calls provider.GenerateText and reports the call to rec.
func timedGenerate(ctx context.Context, rec Recorder, operation string, call func(context.Context) (*ai.Response, error)) (*ai.Response, error) {
	start := time.Now()
	resp, err := call(ctx)
	var usage *ai.TokenUsage
	if resp != nil {
		usage = resp.Usage
	}
	rec.RecordAIOperation(ctx, operation, time.Since(start), usage, err)
	return resp, err
}

func elapsedMs(start, end time.Time) int64 {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
