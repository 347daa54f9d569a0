package config

import (
	"resumeparser/internal/prompts"
)

// Operation names an AI call site with its own settings.
type Operation string

const (
	OperationExtract Operation = "extract"
	OperationTailor  Operation = "tailor"
	OperationJobSpec Operation = "jobspec"
	OperationSummary Operation = "summary"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{OperationExtract, OperationTailor, OperationJobSpec, OperationSummary}

func (a *AIConfig) operation(op Operation) *OperationAIConfig {
	switch op {
	case OperationTailor:
		return &a.Tailor
	case OperationJobSpec:
		return &a.JobSpec
	case OperationSummary:
		return &a.Summary
	default:
		return &a.Extract
	}
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		use := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &use
	}
}

// GetOperationConfig returns the AI configuration for op with every unset
// field taken from the global values.
func (c *Config) GetOperationConfig(op Operation) OperationAIConfig {
	config := *c.AI.operation(op)
	c.applyOperationDefaults(&config)
	return config
}

// GetExtractConfig returns the AI configuration for resume extraction
func (c *Config) GetExtractConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationExtract)
}

// GetTailorConfig returns the AI configuration for tailoring
func (c *Config) GetTailorConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationTailor)
}

// GetJobSpecConfig returns the AI configuration for job-spec analysis
func (c *Config) GetJobSpecConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationJobSpec)
}

// GetSummaryConfig returns the AI configuration for summary rewriting
func (c *Config) GetSummaryConfig() OperationAIConfig {
	return c.GetOperationConfig(OperationSummary)
}

// PromptConfig collects the per-operation prompt overrides. Empty fields
// keep the built-in prompts.
func (c *Config) PromptConfig() prompts.PromptConfig {
	return prompts.PromptConfig{
		SystemPrompts: prompts.SystemPrompts{
			Extract: c.AI.Extract.Prompts.System,
			Tailor:  c.AI.Tailor.Prompts.System,
			JobSpec: c.AI.JobSpec.Prompts.System,
			Summary: c.AI.Summary.Prompts.System,
		},
		UserPrompts: prompts.UserPrompts{
			Extract: c.AI.Extract.Prompts.User,
			Tailor:  c.AI.Tailor.Prompts.User,
			JobSpec: c.AI.JobSpec.Prompts.User,
			Summary: c.AI.Summary.Prompts.User,
		},
	}
}
