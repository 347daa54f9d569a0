package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [resume-file]",
	Short: "Extract structured data from a resume",
	Long: `Extract structured resume data from a PDF or plain-text file.
The AI model is used when an API key is configured; otherwise, or when the
model fails, the built-in parser produces a lower-confidence result.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &generateOpts.output)
	},
	RunE: runGenerate,
}

var generateOpts struct {
	output common.CommandConfig
	custom customizationFlags
}

func init() {
	registerOutputFlags(generateCmd, &generateOpts.output)
	generateOpts.custom.register(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	custom, err := generateOpts.custom.build()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	logDetails := func(input types.FileInput, out common.CommandConfig) {
		logger.Info("Starting resume extraction",
			"file", input.FileName,
			"file_type", input.FileType,
			"file_size", input.FileSize,
			"output_format", out.OutputFormat)
	}

	generate := func(ctx context.Context, input types.FileInput) (*types.ProcessResult, error) {
		return rt.pipeline.Generator.Process(ctx, input, custom)
	}

	if err := common.RunFileCommand(cmd.Context(), newCommandRunner(cmd, rt), generateOpts.output, args[0], generate, logDetails); err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}
	logger.Info("Resume extraction completed successfully")
	return nil
}
