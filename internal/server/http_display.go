package server

import (
	"fmt"
	"io"
	"os"

	"resumeparser/internal/extract"
)

// displayOut is where the startup banner goes
var displayOut io.Writer = os.Stdout

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Fprintln(displayOut, "Available endpoints:")
	fmt.Fprintln(displayOut, "  GET  /health          - Health check")
	fmt.Fprintln(displayOut, "  GET  /stats           - Server statistics")
	fmt.Fprintln(displayOut, "  POST "+apiPrefix+"/generate - Parse a resume")
	fmt.Fprintln(displayOut, "  POST "+apiPrefix+"/tailor   - Tailor a resume to a job specification")
	fmt.Fprintln(displayOut, "  POST "+apiPrefix+"/jobspec  - Analyze a job specification")
	if s.MetricsPath != "" && s.Observability.PrometheusHandler() != nil {
		fmt.Fprintf(displayOut, "  GET  %-15s - Prometheus metrics\n", s.MetricsPath)
	}
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(displayOut, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Fprintln(displayOut, "Include 'X-API-Key: <your-key>' header in requests to "+apiPrefix+"/*")
	} else {
		fmt.Fprintln(displayOut, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(displayOut, "WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(displayOut, "Request size limit: %s (files up to %s)\n",
			extract.FormatFileSize(s.MaxRequestSize), extract.FormatFileSize(s.Loader.MaxFileSize()))
	} else {
		fmt.Fprintln(displayOut, "Request size limit: DISABLED")
		fmt.Fprintln(displayOut, "WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(displayOut, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(displayOut, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(displayOut, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(displayOut, "Rate limiting: DISABLED")
		fmt.Fprintln(displayOut, "WARNING: No rate limiting configured!")
	}
}
