package ai

import (
	"context"
	"net"
	"net/http"

	appErrors "resumeparser/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// statusCode returns the HTTP status carried by a provider error, or 0.
func statusCode(err error) int {
	var apiErr genai.APIError
	if appErrors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if appErrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	var gErr *googleapi.Error
	if appErrors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

func isTimeout(err error) bool {
	if appErrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return appErrors.As(err, &netErr) && netErr.Timeout()
}

// classifyError maps provider failures onto the AppError taxonomy.
func classifyError(operation string, err error) *appErrors.AppError {
	if appErr, ok := appErrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case appErrors.Is(err, gobreaker.ErrOpenState), appErrors.Is(err, gobreaker.ErrTooManyRequests):
		return appErrors.NewAIError(appErrors.ErrCodeProviderUnavailable,
			"AI provider is temporarily unavailable for "+operation, err)
	case isTimeout(err):
		return appErrors.NewAIError(appErrors.ErrCodeAITimeout,
			"AI request timed out for "+operation, err)
	}

	code := statusCode(err)
	switch code {
	case http.StatusTooManyRequests:
		return appErrors.NewAIError(appErrors.ErrCodeAIQuotaExceeded,
			"AI quota exceeded for "+operation, err).WithContext("status_code", code)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return appErrors.NewAIError(appErrors.ErrCodeAIInvalidRequest,
			"AI provider rejected the request for "+operation, err).WithContext("status_code", code)
	}

	appErr := appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
		"Failed to generate content for "+operation, err)
	if code != 0 {
		appErr.WithContext("status_code", code)
	}
	return appErr
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if appErrors.Is(err, context.Canceled) {
		return false
	}

	// Network errors, including timeouts and refused connections
	var netErr net.Error
	if appErrors.As(err, &netErr) {
		return true
	}

	// 429 is not retried: quota exhaustion goes straight to the caller
	switch statusCode(err) {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
