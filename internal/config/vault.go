package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"resumeparser/internal/errors"

	"github.com/hashicorp/vault/api"
)

const (
	defaultVaultMount = "secret"
	vaultTimeout      = 10 * time.Second

	// Field names inside the KVv2 secrets.
	apiKeysField   = "keys"
	geminiKeyField = "api_key"
)

// VaultConfig holds Vault connection configuration
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`
	Mount     string `mapstructure:"mount"` // KVv2 mount, "secret" when empty

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets are secret paths relative to the KVv2 mount. Empty paths are
// skipped.
type VaultSecrets struct {
	// APIKeys holds a comma-separated "keys" field for the HTTP server.
	APIKeys string `mapstructure:"apiKeys"`
	// GeminiKey holds an "api_key" field used by every operation without a
	// key of its own.
	GeminiKey string `mapstructure:"geminiKey"`
	// OperationKeys overrides the Gemini key for single operations, e.g.
	// tailor: resumeparser/tailor-key
	OperationKeys map[Operation]string `mapstructure:"operationKeys"`
}

// kvReader is the part of *api.KVv2 the loader needs.
type kvReader interface {
	Get(ctx context.Context, secretPath string) (*api.KVSecret, error)
}

// VaultClient reads string fields from a KVv2 mount
type VaultClient struct {
	kv     kvReader
	mount  string
	logger *errors.Logger
}

// NewVaultClient connects to Vault. It returns nil when Vault is disabled.
func NewVaultClient(ctx context.Context, config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		logger.Debug("Vault integration disabled")
		return nil, nil
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}

	apiConfig := api.DefaultConfig()
	if config.Address != "" {
		apiConfig.Address = config.Address
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	health, err := client.Sys().HealthWithContext(ctx)
	if err != nil {
		logger.LogError(err, "Failed to connect to Vault", "address", apiConfig.Address)
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if health.Sealed {
		return nil, fmt.Errorf("vault at %s is sealed", apiConfig.Address)
	}

	mount := config.Mount
	if mount == "" {
		mount = defaultVaultMount
	}
	logger.Info("Connected to Vault",
		"address", apiConfig.Address,
		"version", health.Version,
		"mount", mount,
		"token", maskSecret(token))

	return newVaultClientFrom(client.KVv2(mount), mount, logger), nil
}

func newVaultClientFrom(kv kvReader, mount string, logger *errors.Logger) *VaultClient {
	return &VaultClient{kv: kv, mount: mount, logger: logger}
}

// resolveVaultToken prefers the configured token over the token file
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token
	if token == "" && config.TokenFile != "" {
		data, err := os.ReadFile(config.TokenFile)
		if err != nil {
			logger.LogError(err, "Failed to read Vault token file", "file", config.TokenFile)
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// String returns the string field key of the secret at path.
func (vc *VaultClient) String(ctx context.Context, path, key string) (string, error) {
	if vc == nil {
		return "", fmt.Errorf("vault client not initialized")
	}

	secret, err := vc.kv.Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s/%s: %w", vc.mount, path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret %s/%s has no data", vc.mount, path)
	}

	raw, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s/%s", key, vc.mount, path)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s/%s", key, vc.mount, path)
	}

	version := 0
	if secret.VersionMetadata != nil {
		version = secret.VersionMetadata.Version
	}
	vc.logger.Debug("Secret read from Vault",
		"path", path, "key", key, "version", version, "value", maskSecret(value))
	return value, nil
}

// secretBinding maps one Vault field onto the configuration.
type secretBinding struct {
	name  string
	path  string
	key   string
	apply func(value string)
}

// secretBindings lists what ApplyVaultSecrets loads, in application order:
// operation keys come after the shared Gemini key so they win.
func secretBindings(config *Config) []secretBinding {
	secrets := config.Vault.Secrets
	bindings := []secretBinding{
		{
			name: "API keys",
			path: secrets.APIKeys,
			key:  apiKeysField,
			apply: func(value string) {
				config.Server.APIKeys = splitAndTrim(value)
			},
		},
		{
			name:  "Gemini API key",
			path:  secrets.GeminiKey,
			key:   geminiKeyField,
			apply: func(value string) { applyGeminiKeyToConfig(config, value) },
		},
	}

	for _, op := range Operations {
		bindings = append(bindings, secretBinding{
			name:  fmt.Sprintf("%s API key", op),
			path:  secrets.OperationKeys[op],
			key:   geminiKeyField,
			apply: func(value string) { config.AI.operation(op).APIKey = value },
		})
	}
	return bindings
}

// ApplyVaultSecrets loads secrets from Vault and applies them to the config
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		logger.Debug("Vault integration disabled, skipping secret loading")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), vaultTimeout)
	defer cancel()

	client, err := NewVaultClient(ctx, config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return applySecrets(ctx, client, config, logger)
}

func applySecrets(ctx context.Context, client *VaultClient, config *Config, logger *errors.Logger) error {
	loaded := 0
	for _, b := range secretBindings(config) {
		if b.path == "" {
			continue
		}
		value, err := client.String(ctx, b.path, b.key)
		if err != nil {
			logger.LogError(err, "Failed to load secret from Vault", "secret", b.name, "path", b.path)
			return fmt.Errorf("failed to load %s from vault: %w", b.name, err)
		}
		if strings.TrimSpace(value) == "" {
			logger.Warn("Empty secret in Vault, keeping configured value", "secret", b.name, "path", b.path)
			continue
		}
		b.apply(value)
		loaded++
	}

	logger.Info("Applied secrets from Vault", "count", loaded)
	return nil
}

// applyGeminiKeyToConfig sets the global key and every operation key that
// is not explicitly configured
func applyGeminiKeyToConfig(config *Config, geminiKey string) {
	config.AI.APIKey = geminiKey
	for _, op := range Operations {
		if opCfg := config.AI.operation(op); opCfg.APIKey == "" {
			opCfg.APIKey = geminiKey
		}
	}
}

// maskSecret keeps the first and last four characters of long values.
func maskSecret(s string) string {
	switch {
	case len(s) > 8:
		return s[:4] + "****" + s[len(s)-4:]
	case len(s) > 0:
		return "****"
	default:
		return ""
	}
}
