package ai

import (
	"context"
	"fmt"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
)

// NewProvider creates the provider configured for one operation
func NewProvider(cfg *config.OperationAIConfig, op config.Operation, logger *errors.Logger) (Provider, error) {
	logger.Debug("Initializing AI provider",
		"provider", cfg.Provider,
		"operation", op,
		"model", cfg.Model,
		"has_api_key", cfg.APIKey != "")

	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("No API key configured for %s", op), nil)
	}

	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, string(op), logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// Providers holds one provider per operation. A nil entry means AI is
// unavailable for that operation and callers use their fallback.
type Providers struct {
	Extract Provider
	Tailor  Provider
	JobSpec Provider
	Summary Provider
}

// NewProviders builds providers for every operation that has an API key.
func NewProviders(cfg *config.Config, logger *errors.Logger) (*Providers, error) {
	p := &Providers{}
	for _, op := range config.Operations {
		opCfg := cfg.GetOperationConfig(op)
		if opCfg.APIKey == "" {
			logger.Warn("No API key configured, AI disabled for operation", "operation", op)
			continue
		}
		provider, err := NewProvider(&opCfg, op, logger)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		if g, ok := provider.(*GeminiProvider); ok {
			g.SetModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout)
		}
		p.set(op, provider)
	}
	return p, nil
}

func (p *Providers) set(op config.Operation, provider Provider) {
	switch op {
	case config.OperationExtract:
		p.Extract = provider
	case config.OperationTailor:
		p.Tailor = provider
	case config.OperationJobSpec:
		p.JobSpec = provider
	case config.OperationSummary:
		p.Summary = provider
	}
}

// For returns the provider for op, or nil.
func (p *Providers) For(op config.Operation) Provider {
	if p == nil {
		return nil
	}
	switch op {
	case config.OperationExtract:
		return p.Extract
	case config.OperationTailor:
		return p.Tailor
	case config.OperationJobSpec:
		return p.JobSpec
	case config.OperationSummary:
		return p.Summary
	}
	return nil
}

// Close closes every configured provider.
func (p *Providers) Close() error {
	var firstErr error
	for _, op := range config.Operations {
		if provider := p.For(op); provider != nil {
			if err := provider.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Stats reports circuit breaker state per operation.
func (p *Providers) Stats() map[string]any {
	stats := make(map[string]any, len(config.Operations))
	for _, op := range config.Operations {
		provider := p.For(op)
		switch r := provider.(type) {
		case nil:
			stats[string(op)] = map[string]any{"available": false}
		case StatsReporter:
			s := r.GetCircuitBreakerStats()
			s["available"] = true
			stats[string(op)] = s
		default:
			stats[string(op)] = map[string]any{"available": true}
		}
	}
	return stats
}

// ModelInfo checks model availability for every configured operation.
func (p *Providers) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	info := make(map[string]*ModelInfo)
	for _, op := range config.Operations {
		if provider := p.For(op); provider != nil {
			info[string(op)] = provider.GetModelInfo(ctx)
		}
	}
	return info
}
