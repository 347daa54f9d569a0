package config

import (
	"time"

	"github.com/spf13/viper"
)

type operationDefaults struct {
	timeout     time.Duration
	temperature float64
}

// Operations carry no retry default of their own and inherit ai.maxRetries,
// which is 0: a failed call is handed to the caller's fallback.
var perOperationDefaults = map[Operation]operationDefaults{
	OperationExtract: {timeout: 60 * time.Second, temperature: 0.1},
	OperationTailor:  {timeout: 90 * time.Second, temperature: 0.4},
	OperationJobSpec: {timeout: 45 * time.Second, temperature: 0.1},
	OperationSummary: {timeout: 30 * time.Second, temperature: 0.3},
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 0)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.useSystemPrompts", true)

	for _, op := range Operations {
		d := perOperationDefaults[op]
		prefix := "ai." + string(op)

		v.SetDefault(prefix+".provider", "")
		v.SetDefault(prefix+".model", "")
		v.SetDefault(prefix+".timeout", d.timeout)
		v.SetDefault(prefix+".apiKey", "")
		v.SetDefault(prefix+".temperature", d.temperature)
		v.SetDefault(prefix+".useSystemPrompts", true)

		v.SetDefault(prefix+".prompts.system", "")
		v.SetDefault(prefix+".prompts.systemFile", "")
		v.SetDefault(prefix+".prompts.user", "")
		v.SetDefault(prefix+".prompts.userFile", "")

		v.SetDefault(prefix+".circuitBreaker.enabled", true)
		v.SetDefault(prefix+".circuitBreaker.maxRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault(prefix+".circuitBreaker.minRequests", 3)
		v.SetDefault(prefix+".circuitBreaker.failureThreshold", 0.6)
	}

	// Regex fallback
	v.SetDefault("regex.maxConfidence", 40)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 5*1024*1024) // 5MB
	v.SetDefault("app.maxSummaryLength", 0)
	v.SetDefault("app.maxJobSpecLength", 4000)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.mount", defaultVaultMount)
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeparser")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.extraction.enabled", true)
	v.SetDefault("observability.customMetrics.extraction.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.extraction.trackConfidence", true)
	v.SetDefault("observability.customMetrics.extraction.trackInputSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
