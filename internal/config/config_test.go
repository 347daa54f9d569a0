package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     time.Minute,
			Temperature: 0.2,
			Extract: OperationAIConfig{
				CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 0.6},
			},
		},
		Regex:  RegexConfig{MaxConfidence: 40},
		Server: ServerConfig{Port: "8080"},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024,
			MaxJobSpecLength: 4000,
		},
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := writeConfigFile(t, `
ai:
  model: gemini-test
  apiKey: file-key
  tailor:
    model: gemini-pro-test
    maxRetries: 3
regex:
  maxConfidence: 30
app:
  maxJobSpecLength: 2000
`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Regex.MaxConfidence)
	assert.Equal(t, 2000, cfg.App.MaxJobSpecLength)
	assert.Equal(t, int64(5*1024*1024), cfg.App.MaxFileSize)

	tailor := cfg.GetTailorConfig()
	assert.Equal(t, "gemini-pro-test", tailor.Model)
	assert.Equal(t, "gemini", tailor.Provider)
	assert.Equal(t, "file-key", tailor.APIKey)
	require.NotNil(t, tailor.MaxRetries)
	assert.Equal(t, 3, *tailor.MaxRetries)
	require.NotNil(t, tailor.Timeout)
	assert.Equal(t, 90*time.Second, *tailor.Timeout)

	extract := cfg.GetExtractConfig()
	assert.Equal(t, "gemini-test", extract.Model)
	require.NotNil(t, extract.MaxRetries)
	assert.Equal(t, 0, *extract.MaxRetries)
	assert.True(t, extract.CircuitBreaker.Enabled)
	assert.True(t, cfg.HasAPIKey(OperationExtract))
}

func TestLoadConfigDefaultsToNoRetries(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfigFrom(writeConfigFile(t, "app:\n  logLevel: info\n"))
	require.NoError(t, err)

	for _, op := range Operations {
		opCfg := cfg.GetOperationConfig(op)
		require.NotNil(t, opCfg.MaxRetries, op)
		assert.Equal(t, 0, *opCfg.MaxRetries, op)
	}
}

func TestLoadConfigGlobalRetriesApplyToOperations(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfigFrom(writeConfigFile(t, "ai:\n  maxRetries: 2\n  extract:\n    maxRetries: 0\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, *cfg.GetOperationConfig(OperationExtract).MaxRetries)
	assert.Equal(t, 2, *cfg.GetOperationConfig(OperationTailor).MaxRetries)
	assert.Equal(t, 2, *cfg.GetOperationConfig(OperationJobSpec).MaxRetries)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("RESUMEPARSER_REGEX_MAXCONFIDENCE", "25")
	t.Setenv("RESUMEPARSER_SERVER_APIKEYS", "one, two")

	cfg, err := LoadConfigFrom(writeConfigFile(t, "server:\n  port: \"9000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Regex.MaxConfidence)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"one", "two"}, cfg.Server.APIKeys)
	assert.Equal(t, "env-gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "env-gemini-key", cfg.GetSummaryConfig().APIKey)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfigFrom(writeConfigFile(t, "app:\n  logLevel: debug\n"))
	require.NoError(t, err)

	for _, op := range Operations {
		assert.False(t, cfg.HasAPIKey(op), op)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadConfigFrom(writeConfigFile(t, "regex:\n  maxConfidence: 0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("missing prompt file", func(t *testing.T) {
		_, err := LoadConfigFrom(writeConfigFile(t, `
ai:
  summary:
    prompts:
      systemFile: /nonexistent/summary.md
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt file validation failed")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, errMsg: "timeout"},
		{name: "temperature too high", mutate: func(c *Config) { c.AI.Temperature = 2.5 }, errMsg: "temperature"},
		{name: "negative retries", mutate: func(c *Config) { c.AI.MaxRetries = -1 }, errMsg: "maxRetries"},
		{
			name:   "bad failure threshold",
			mutate: func(c *Config) { c.AI.Extract.CircuitBreaker.FailureThreshold = 1.5 },
			errMsg: "failureThreshold",
		},
		{
			name: "disabled breaker ignores threshold",
			mutate: func(c *Config) {
				c.AI.Extract.CircuitBreaker = CircuitBreakerConfig{Enabled: false, FailureThreshold: 5}
			},
		},
		{name: "regex confidence above 100", mutate: func(c *Config) { c.Regex.MaxConfidence = 101 }, errMsg: "maxConfidence"},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, errMsg: "port"},
		{name: "unsupported format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, errMsg: "format"},
		{name: "zero file size", mutate: func(c *Config) { c.App.MaxFileSize = 0 }, errMsg: "maxFileSize"},
		{name: "negative summary length", mutate: func(c *Config) { c.App.MaxSummaryLength = -1 }, errMsg: "maxSummaryLength"},
		{name: "zero job spec length", mutate: func(c *Config) { c.App.MaxJobSpecLength = 0 }, errMsg: "maxJobSpecLength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGetOperationConfigFallbacks(t *testing.T) {
	timeout := 5 * time.Second
	cfg := validConfig()
	cfg.AI.APIKey = "global-key"
	cfg.AI.MaxRetries = 2
	cfg.AI.JobSpec = OperationAIConfig{Model: "jobspec-model", Timeout: &timeout}

	jobSpec := cfg.GetJobSpecConfig()
	assert.Equal(t, "jobspec-model", jobSpec.Model)
	assert.Equal(t, "gemini", jobSpec.Provider)
	assert.Equal(t, "global-key", jobSpec.APIKey)
	assert.Equal(t, 5*time.Second, *jobSpec.Timeout)
	assert.Equal(t, 2, *jobSpec.MaxRetries)
	assert.InDelta(t, 0.2, float64(*jobSpec.Temperature), 0.0001)

	// Resolving must not write fallbacks back into the stored config.
	assert.Empty(t, cfg.AI.JobSpec.APIKey)
	assert.Nil(t, cfg.AI.JobSpec.MaxRetries)

	*jobSpec.MaxRetries = 9
	assert.Equal(t, 2, cfg.AI.MaxRetries)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a ,, b ,"))
	assert.Nil(t, splitAndTrim(" , "))
}
