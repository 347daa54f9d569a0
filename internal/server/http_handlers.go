package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"resumeparser/internal/errors"
)

// healthHandler reports service health including AI model availability.
// Running without any AI provider is healthy: the regex parser serves
// every request.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.HealthCheckTimeout)
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "resumeparser",
		"version": s.Version,
	}

	models := s.Providers.ModelInfo(ctx)
	response["ai_enabled"] = len(models) > 0
	response["ai_models"] = models
	response["circuit_breakers"] = s.Providers.Stats()

	status := http.StatusOK
	for _, info := range models {
		if info != nil && !info.Available {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, response, s.Logger)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumeparser",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_file_size_bytes":    s.Loader.MaxFileSize(),
			"staged_uploads":         s.Uploads.Len(),
		},
		"ai": s.Providers.Stats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response, s.Logger)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Content-Type must be application/json", err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("Request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewIOError(errors.ErrCodeInvalidRequest, "Failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Failed to parse JSON: %v", err), err)
	}

	return nil
}

// statusForError maps an error to the HTTP status returned to the client
func statusForError(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case errors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeIO:
		return http.StatusBadRequest
	case errors.ErrorTypeAI, errors.ErrorTypeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err using its AppError code and message when it has one
func writeAppError(w http.ResponseWriter, err error) int {
	status := statusForError(err)

	code := errors.ErrCodeInvalidRequest
	message := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		code = appErr.Code
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		// internal details stay in the logs
		message = "Internal server error"
		if code == errors.ErrCodeInvalidRequest {
			code = ""
		}
	}

	writeErrorResponse(w, http.StatusText(status), code, message, status)
	return status
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Code:    code,
		Message: message,
	}, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *errors.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogError(err, "Failed to encode response")
	}
}
