package observability

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// prometheusEndpoint pairs the OTel Prometheus reader with the dedicated
// scrape listener that serves it.
type prometheusEndpoint struct {
	reader  sdkmetric.Reader
	handler http.Handler
	server  *http.Server
}

// newPrometheusEndpoint registers the exporter on a private registry so
// several managers can coexist in one process.
func newPrometheusEndpoint(cfg config.PrometheusConfig) (*prometheusEndpoint, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}

	path := cfg.Endpoint
	if path == "" {
		path = "/metrics"
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	var server *http.Server
	if cfg.Port != "" {
		server = &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}

	return &prometheusEndpoint{reader: exporter, handler: handler, server: server}, nil
}

func (p *prometheusEndpoint) start(logger *errors.Logger) {
	if p.server == nil {
		return
	}
	logger.Info("Starting Prometheus metrics server", "address", p.server.Addr)

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError(fmt.Errorf("prometheus listener: %w", err), "Prometheus server stopped")
		}
	}()
}

func (p *prometheusEndpoint) shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	return p.server.Shutdown(ctx)
}
