package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	defaultServiceName        = "resumeparser"
	defaultCollectionInterval = 15 * time.Second
)

// Manager owns the OpenTelemetry providers, the custom metrics and the
// optional Prometheus endpoint for one process.
type Manager struct {
	cfg     config.ObservabilityConfig
	version string
	logger  *errors.Logger

	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	prometheus     *prometheusEndpoint

	// extraReaders lets tests attach a manual reader
	extraReaders  []sdkmetric.Reader
	shutdownFuncs []func(context.Context) error
}

// Option customizes a Manager before its providers are built.
type Option func(*Manager)

// WithMetricReader attaches an additional metric reader.
func WithMetricReader(reader sdkmetric.Reader) Option {
	return func(m *Manager) { m.extraReaders = append(m.extraReaders, reader) }
}

// NewManager builds tracing and metrics from cfg. When observability is
// disabled the manager is inert and every accessor returns a no-op.
func NewManager(cfg config.ObservabilityConfig, version string, logger *errors.Logger, opts ...Option) (*Manager, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}

	om := &Manager{cfg: cfg, version: version, logger: logger}
	for _, opt := range opts {
		opt(om)
	}
	if !cfg.Enabled {
		return om, nil
	}

	if err := om.initResource(); err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}
	if err := om.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(); err != nil {
		_ = om.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

func (om *Manager) initResource() error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.cfg.ServiceName),
			semconv.ServiceVersion(om.cfg.ServiceVersion),
			attribute.String("service.instance.id", om.serviceInstanceID()),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	om.resource = res
	return nil
}

func (om *Manager) initTracing() error {
	var exporter trace.SpanExporter
	var err error

	switch {
	case om.cfg.Console.Enabled:
		opts := []stdouttrace.Option{}
		if om.cfg.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case om.cfg.OTLP.Enabled:
		exporter, err = om.createOTLPExporter()
	default:
		exporter = noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.resource),
		trace.WithSampler(om.sampler()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

func (om *Manager) sampler() trace.Sampler {
	if !om.cfg.Tracing.Enabled {
		return trace.NeverSample()
	}
	rate := om.cfg.Tracing.SampleRate
	if rate <= 0 {
		rate = om.cfg.SampleRate
	}
	return trace.ParentBased(trace.TraceIDRatioBased(rate))
}

func (om *Manager) initMetrics() error {
	readers, err := om.setupMetricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.resource)}
	for _, reader := range readers {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := NewMetrics(mp.Meter(om.cfg.ServiceName), om.cfg.CustomMetrics)
	if err != nil {
		return err
	}
	om.metrics = metrics

	if om.prometheus != nil {
		om.prometheus.start(om.logger)
		om.shutdownFuncs = append(om.shutdownFuncs, om.prometheus.shutdown)
	}
	return nil
}

func (om *Manager) setupMetricReaders() ([]sdkmetric.Reader, error) {
	readers := append([]sdkmetric.Reader{}, om.extraReaders...)
	if !om.cfg.Metrics.Enabled {
		return readers, nil
	}

	interval := om.collectionInterval()

	if om.cfg.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.cfg.OTLP.Enabled {
		reader, err := om.createOTLPMetricsReader(interval)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.cfg.Prometheus.Enabled {
		endpoint, err := newPrometheusEndpoint(om.cfg.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		om.prometheus = endpoint
		readers = append(readers, endpoint.reader)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

// Metrics returns the custom instruments, or nil when observability is
// disabled. The nil value is safe to record into.
func (om *Manager) Metrics() *Metrics {
	if om == nil {
		return nil
	}
	return om.metrics
}

// HTTPMiddleware wraps a handler with otelhttp server instrumentation.
func (om *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if om == nil || !om.cfg.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}

	return otelhttp.NewMiddleware(
		om.cfg.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Tracer returns a tracer for the service
func (om *Manager) Tracer(name string) oteltrace.Tracer {
	if om == nil || !om.cfg.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// PrometheusHandler exposes the scrape handler, or nil when Prometheus is off.
func (om *Manager) PrometheusHandler() http.Handler {
	if om == nil || om.prometheus == nil {
		return nil
	}
	return om.prometheus.handler
}

// Shutdown flushes exporters and stops the Prometheus listener. Every
// component is shut down even when an earlier one fails.
func (om *Manager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	var errs []error
	for i := len(om.shutdownFuncs) - 1; i >= 0; i-- {
		if err := om.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	om.shutdownFuncs = nil
	return stderrors.Join(errs...)
}

type noOpSpanExporter struct{}

func (noOpSpanExporter) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }

func (noOpSpanExporter) Shutdown(context.Context) error { return nil }

func (om *Manager) createOTLPExporter() (trace.SpanExporter, error) {
	otlpConfig := om.cfg.OTLP

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return exporter, nil
}

func (om *Manager) createOTLPMetricsReader(interval time.Duration) (sdkmetric.Reader, error) {
	otlpConfig := om.cfg.OTLP

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(otlpConfig.Endpoint),
	}
	if otlpConfig.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlpConfig.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlpConfig.Headers))
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)), nil
}

func (om *Manager) serviceInstanceID() string {
	if om.cfg.ServiceInstance != "" {
		return om.cfg.ServiceInstance
	}
	return om.cfg.ServiceName + "-1"
}

func (om *Manager) collectionInterval() time.Duration {
	if om.cfg.Metrics.CollectionInterval > 0 {
		return om.cfg.Metrics.CollectionInterval
	}
	return defaultCollectionInterval
}
