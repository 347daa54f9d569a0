package cli

import (
	"fmt"

	"resumeparser/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing the resume pipeline.

Available endpoints:
- POST /api/v1/generate: Extract structured data from a resume
- POST /api/v1/tailor: Tailor a resume to a job specification
- POST /api/v1/jobspec: Extract structured data from a job specification
- GET /health: Health check including AI model availability
- GET /stats: Server statistics and rate limiting info

Documents are sent as JSON with file bytes base64-encoded in "fileData",
or as text in "content". Add ?format=markdown or ?format=text to receive
a rendered result instead of JSON.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// flags win over the loaded config only when set
	v := viper.New()
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.host", cfg.Server.Host)
	if err := v.BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
		return err
	}
	if err := v.BindPFlag("server.host", cmd.Flags().Lookup("host")); err != nil {
		return err
	}
	settings := cfg.Server
	settings.Port = v.GetString("server.port")
	settings.Host = v.GetString("server.host")
	if settings.Port == "" {
		return fmt.Errorf("server port is required")
	}

	uploads := server.NewUploadStore()
	rt, err := newRuntime(cfg, logger, runtimeOptions{fetcher: uploads, serving: true})
	if err != nil {
		return err
	}
	defer rt.close()

	metricsPath := ""
	if cfg.Observability.Prometheus.Port == "" {
		metricsPath = cfg.Observability.Prometheus.Endpoint
	}

	serverCfg := server.ServerConfig{
		Host:               settings.Host,
		Port:               settings.Port,
		Version:            Version,
		APIKeys:            settings.APIKeys,
		ReadTimeout:        settings.ReadTimeout,
		WriteTimeout:       settings.WriteTimeout,
		IdleTimeout:        settings.IdleTimeout,
		HealthCheckTimeout: cfg.Observability.HealthCheck.Timeout,
		MaxRequestSize:     server.MaxRequestSizeFor(cfg.App.MaxFileSize),
		RateLimit:          &settings.RateLimit,
		MetricsPath:        metricsPath,
	}
	backend := server.Backend{
		Pipeline:      rt.pipeline,
		Providers:     rt.providers,
		Loader:        rt.loader,
		Uploads:       uploads,
		Observability: rt.observability,
	}
	return server.NewServer(serverCfg, backend, logger).Start(cmd.Context())
}
