package observability

import (
	"context"
	"fmt"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const metricPrefix = "resumeparser_"

// Metrics holds the custom instruments for the parsing pipeline. It
// satisfies processor.Recorder. A nil *Metrics records nothing.
type Metrics struct {
	flags config.CustomMetricsConfig

	// AI operation metrics
	AIDuration   metric.Float64Histogram
	AIRequests   metric.Int64Counter
	AIErrors     metric.Int64Counter
	AITokenUsage metric.Int64Histogram

	// Extraction metrics
	Fallbacks          metric.Int64Counter
	Confidence         metric.Int64Histogram
	JobMatchScore      metric.Float64Histogram
	DocumentsProcessed metric.Int64Counter
	ProcessingDuration metric.Float64Histogram
	InputSize          metric.Int64Histogram

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// NewMetrics creates every instrument on meter. flags decide which of them
// are fed at record time.
func NewMetrics(meter metric.Meter, flags config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{flags: flags}

	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createExtractionMetrics(meter); err != nil {
		return nil, err
	}

	var err error
	m.RateLimitHits, err = meter.Int64Counter(
		metricPrefix+"rate_limit_hits_total",
		metric.WithDescription("Total number of rate limited requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIDuration, err = meter.Float64Histogram(
		metricPrefix+"ai_request_duration_seconds",
		metric.WithDescription("Time spent waiting on AI providers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI duration metric: %w", err)
	}

	m.AIRequests, err = meter.Int64Counter(
		metricPrefix+"ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrors, err = meter.Int64Counter(
		metricPrefix+"ai_errors_total",
		metric.WithDescription("Total number of failed AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		metricPrefix+"ai_token_usage",
		metric.WithDescription("Token usage per AI request by token type"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

func (m *Metrics) createExtractionMetrics(meter metric.Meter) error {
	var err error

	m.Fallbacks, err = meter.Int64Counter(
		metricPrefix+"extraction_fallbacks_total",
		metric.WithDescription("Operations that fell back from AI"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallback metric: %w", err)
	}

	m.Confidence, err = meter.Int64Histogram(
		metricPrefix+"extraction_confidence",
		metric.WithDescription("Confidence score of returned results"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create confidence metric: %w", err)
	}

	m.JobMatchScore, err = meter.Float64Histogram(
		metricPrefix+"job_match_score",
		metric.WithDescription("Job match score of tailored resumes"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1),
	)
	if err != nil {
		return fmt.Errorf("failed to create job match metric: %w", err)
	}

	m.DocumentsProcessed, err = meter.Int64Counter(
		metricPrefix+"documents_processed_total",
		metric.WithDescription("Total number of processed documents"),
	)
	if err != nil {
		return fmt.Errorf("failed to create documents processed metric: %w", err)
	}

	m.ProcessingDuration, err = meter.Float64Histogram(
		metricPrefix+"processing_duration_seconds",
		metric.WithDescription("End to end processing time per document"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create processing duration metric: %w", err)
	}

	m.InputSize, err = meter.Int64Histogram(
		metricPrefix+"input_size_bytes",
		metric.WithDescription("Size of processed inputs"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create input size metric: %w", err)
	}

	return nil
}

// RecordAIOperation records one provider call.
func (m *Metrics) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, usage *ai.TokenUsage, err error) {
	if usage != nil {
		// tokens always go on the span for debugging
		oteltrace.SpanFromContext(ctx).SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	if m == nil || !m.flags.AIOperations.Enabled {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opt := metric.WithAttributes(attrs...)

	m.AIRequests.Add(ctx, 1, opt)
	if m.flags.AIOperations.TrackDuration {
		m.AIDuration.Record(ctx, duration.Seconds(), opt)
	}
	if err != nil {
		code := "unknown"
		if appErr, ok := errors.AsAppError(err); ok {
			code = appErr.Code
		}
		m.AIErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error_code", code),
		))
	}
	if usage != nil && m.flags.AIOperations.TrackTokenUsage {
		m.recordTokens(ctx, operation, usage)
	}
}

func (m *Metrics) recordTokens(ctx context.Context, operation string, usage *ai.TokenUsage) {
	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	}

	for _, tt := range tokenTypes {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordFallback counts an operation that gave up on AI.
func (m *Metrics) RecordFallback(ctx context.Context, operation, reason string) {
	oteltrace.SpanFromContext(ctx).AddEvent("fallback", oteltrace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))

	if m == nil || !m.flags.Extraction.Enabled || !m.flags.Extraction.TrackFallbacks {
		return
	}
	m.Fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}

// RecordResult records a finished generate, tailor or jobspec run.
func (m *Metrics) RecordResult(ctx context.Context, meta types.Meta, inputSize int64) {
	if m == nil || !m.flags.Extraction.Enabled {
		return
	}

	opt := metric.WithAttributes(
		attribute.String("processing_type", string(meta.ProcessingType)),
		attribute.String("method", string(meta.Method)),
	)

	m.DocumentsProcessed.Add(ctx, 1, opt)
	m.ProcessingDuration.Record(ctx, float64(meta.ProcessingTimeMs)/1000, opt)

	if m.flags.Extraction.TrackConfidence {
		m.Confidence.Record(ctx, int64(meta.Confidence), opt)
		if meta.JobMatchScore != nil {
			m.JobMatchScore.Record(ctx, *meta.JobMatchScore, opt)
		}
	}
	if m.flags.Extraction.TrackInputSizes && inputSize > 0 {
		m.InputSize.Record(ctx, inputSize, metric.WithAttributes(
			attribute.String("processing_type", string(meta.ProcessingType)),
		))
	}
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, route string) {
	if m == nil || !m.flags.Infrastructure.Enabled || !m.flags.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}
