package cli

import (
	"context"
	"fmt"
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/observability"
	"resumeparser/internal/processor"
)

var _ processor.Recorder = (*observability.Metrics)(nil)

const observabilityShutdownTimeout = 5 * time.Second

// runtimeOptions selects what differs between one-shot commands and serve
type runtimeOptions struct {
	// fetcher resolves uploaded job specifications; nil reads local paths
	fetcher processor.JobSpecFetcher
	// serving keeps the Prometheus exporter; one-shot commands drop it
	serving bool
}

// runtime is everything a command needs to run the pipeline
type runtime struct {
	providers     *ai.Providers
	observability *observability.Manager
	loader        *extract.Loader
	pipeline      *processor.Pipeline
	logger        *errors.Logger
}

func newRuntime(cfg *config.Config, logger *errors.Logger, opts runtimeOptions) (*runtime, error) {
	providers, err := ai.NewProviders(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI providers: %w", err)
	}

	obsCfg := cfg.Observability
	if !opts.serving {
		obsCfg.Prometheus.Enabled = false
	}
	om, err := observability.NewManager(obsCfg, Version, logger)
	if err != nil {
		_ = providers.Close()
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	loader := extract.NewLoader(cfg.App.MaxFileSize, logger)
	fetcher := opts.fetcher
	if fetcher == nil {
		fetcher = processor.NewLocalFetcher(loader)
	}

	deps := processor.NewDependencies(cfg, providers, fetcher, logger)
	deps.Recorder = om.Metrics()

	return &runtime{
		providers:     providers,
		observability: om,
		loader:        loader,
		pipeline:      processor.NewPipeline(deps),
		logger:        logger,
	}, nil
}

// close flushes telemetry and releases the AI clients
func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), observabilityShutdownTimeout)
	defer cancel()
	if err := rt.observability.Shutdown(ctx); err != nil {
		rt.logger.LogError(err, "Failed to shutdown observability")
	}
	if err := rt.providers.Close(); err != nil {
		rt.logger.LogError(err, "Failed to close AI providers")
	}
}
