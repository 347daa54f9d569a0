package server

import (
	"time"

	"resumeparser/internal/ai"
	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/observability"
	"resumeparser/internal/processor"
	"resumeparser/internal/types"
)

// DocumentPayload carries one uploaded document. FileData is base64 in
// JSON; Content is pasted text and is used only when FileData is empty.
type DocumentPayload struct {
	FileName string `json:"fileName,omitempty"`
	FileData []byte `json:"fileData,omitempty"`
	Content  string `json:"content,omitempty"`
}

// GenerateRequest represents the request body for the generate endpoint
type GenerateRequest struct {
	DocumentPayload
	Customizations types.Customizations `json:"customizations"`
}

// TailorRequest represents the request body for the tailor endpoint.
// JobSpecFile, when present, is staged and referenced from JobContext.
type TailorRequest struct {
	DocumentPayload
	Customizations types.Customizations        `json:"customizations"`
	JobContext     types.UserAdditionalContext `json:"jobContext"`
	JobSpecFile    *DocumentPayload            `json:"jobSpecFile,omitempty"`
}

// JobSpecRequest represents the request body for the jobspec endpoint
type JobSpecRequest struct {
	DocumentPayload
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	HealthCheckTimeout time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// MetricsPath mounts the Prometheus handler on the API listener when
	// Prometheus has no port of its own.
	MetricsPath string

	Pipeline      *processor.Pipeline
	Providers     *ai.Providers
	Loader        *extract.Loader
	Uploads       *UploadStore
	Observability *observability.Manager

	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host               string
	Port               string
	Version            string
	APIKeys            []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	HealthCheckTimeout time.Duration
	MaxRequestSize     int64
	RateLimit          *config.RateLimitConfig
	MetricsPath        string
}

// Backend is what the handlers run requests against. Observability may be
// nil; Uploads must be the fetcher the pipeline was built with for
// uploaded job specifications to resolve.
type Backend struct {
	Pipeline      *processor.Pipeline
	Providers     *ai.Providers
	Loader        *extract.Loader
	Uploads       *UploadStore
	Observability *observability.Manager
}

const defaultHealthCheckTimeout = 10 * time.Second

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, backend Backend, logger *errors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	if backend.Loader == nil {
		backend.Loader = extract.NewLoader(0, logger)
	}
	if backend.Uploads == nil {
		backend.Uploads = NewUploadStore()
	}
	if backend.Pipeline == nil {
		backend.Pipeline = processor.NewPipeline(processor.Dependencies{Fetcher: backend.Uploads, Logger: logger})
	}

	healthTimeout := cfg.HealthCheckTimeout
	if healthTimeout <= 0 {
		healthTimeout = defaultHealthCheckTimeout
	}

	return &Server{
		Host:               cfg.Host,
		Port:               cfg.Port,
		Version:            cfg.Version,
		APIKeys:            apiKeyMap,
		ReadTimeout:        cfg.ReadTimeout,
		WriteTimeout:       cfg.WriteTimeout,
		IdleTimeout:        cfg.IdleTimeout,
		HealthCheckTimeout: healthTimeout,
		MaxRequestSize:     cfg.MaxRequestSize,
		RateLimit:          cfg.RateLimit,
		RateLimiter:        rateLimiter,
		MetricsPath:        cfg.MetricsPath,
		Pipeline:           backend.Pipeline,
		Providers:          backend.Providers,
		Loader:             backend.Loader,
		Uploads:            backend.Uploads,
		Observability:      backend.Observability,
		Logger:             logger,
	}
}

// MaxRequestSizeFor sizes the body limit for files of up to maxFileSize
// bytes sent base64-encoded, plus room for the rest of the JSON.
func MaxRequestSizeFor(maxFileSize int64) int64 {
	if maxFileSize <= 0 {
		maxFileSize = extract.DefaultMaxFileSize
	}
	return maxFileSize*4/3 + 64*1024
}
