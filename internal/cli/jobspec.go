package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var jobSpecCmd = &cobra.Command{
	Use:     "jobspec [job-spec-file]",
	Aliases: []string{"analyze"},
	Short:   "Extract structured data from a job specification",
	Long: `Extract the title, company, required and preferred skills and
responsibilities from a job specification file (PDF or text).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &jobSpecOutput)
	},
	RunE: runJobSpec,
}

var jobSpecOutput common.CommandConfig

func init() {
	registerOutputFlags(jobSpecCmd, &jobSpecOutput)
}

func runJobSpec(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	rt, err := newRuntime(cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	logDetails := func(input types.FileInput, out common.CommandConfig) {
		logger.Info("Starting job specification analysis",
			"file", input.FileName,
			"file_type", input.FileType,
			"output_format", out.OutputFormat)
	}

	analyze := func(ctx context.Context, input types.FileInput) (*types.JobSpecResult, error) {
		return rt.pipeline.JobSpec.Process(ctx, input)
	}

	if err := common.RunFileCommand(cmd.Context(), newCommandRunner(cmd, rt), jobSpecOutput, args[0], analyze, logDetails); err != nil {
		return fmt.Errorf("failed to analyze job specification: %w", err)
	}
	return nil
}
