package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"

	"github.com/spf13/cobra"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootOpts struct {
	configFile string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:   "resumeparser",
	Short: "Turn resumes into structured data and tailor them to job specifications",
	Long: `resumeparser extracts structured resume data from PDF or text files using
an AI model, falling back to a deterministic parser when the model is
unavailable. It can also tailor a resume toward a job specification and
analyze job specifications on their own.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntimeConfig,
}

// Execute runs the root command with ctx, which is cancelled on shutdown signals.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadRuntimeConfig loads configuration, applies Vault secrets and attaches
// the config and logger to the command context
func loadRuntimeConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigFrom(rootOpts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if rootOpts.logLevel != "" {
		cfg.App.LogLevel = rootOpts.logLevel
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets from vault: %w", err)
	}

	logger.Debug("Configuration loaded",
		"version", Version,
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider,
		"ai_enabled", cfg.HasAPIKey(config.OperationExtract))

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.configFile, "config", "", "Config file (default: ./config.yaml, $HOME/.resumeparser/config.yaml, /etc/resumeparser/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(tailorCmd)
	rootCmd.AddCommand(jobSpecCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
