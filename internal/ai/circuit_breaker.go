package ai

import (
	"fmt"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// CircuitBreaker wraps calls returning T. A nil breaker runs calls directly.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// AICircuitBreaker guards generation calls for one operation.
type AICircuitBreaker = CircuitBreaker[*genai.GenerateContentResponse]

// ModelCircuitBreaker guards model info lookups.
type ModelCircuitBreaker = CircuitBreaker[*genai.Model]

func newCircuitBreaker[T any](name, operation string, cfg config.CircuitBreakerConfig, trip func(gobreaker.Counts) bool, logger *errors.Logger) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation", operation,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// NewAICircuitBreaker creates the generation breaker for operation, or nil when disabled
func NewAICircuitBreaker(operation string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	cb := cfg.CircuitBreaker
	return newCircuitBreaker[*genai.GenerateContentResponse](
		fmt.Sprintf("AI-%s", operation), operation, cb,
		func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cb.MinRequests && failureRatio >= cb.FailureThreshold
		}, logger)
}

// NewModelCircuitBreaker creates the model info breaker for operation, or nil when disabled
func NewModelCircuitBreaker(operation string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	return newCircuitBreaker[*genai.Model](
		fmt.Sprintf("AI-Model-%s", operation), operation, cfg.CircuitBreaker,
		func(counts gobreaker.Counts) bool {
			// Health probes trip late
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.8
		}, logger)
}

// Execute runs fn under the breaker
func (cb *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *CircuitBreaker[T]) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed. A nil breaker is healthy.
func (cb *CircuitBreaker[T]) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
