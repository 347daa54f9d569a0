package cli

import (
	"context"
	"fmt"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume-file]",
	Short: "Tailor a resume to a job specification",
	Long: `Tailor a resume toward a job specification using AI.
The job specification is given either as text (--job-spec-text) or as a
PDF or text file (--job-spec-file). When tailoring is unavailable the
original resume is returned with a commentary explaining why.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &tailorOpts.output)
	},
	RunE: runTailor,
}

type tailorOptions struct {
	output      common.CommandConfig
	custom      customizationFlags
	jobSpecText string
	jobSpecFile string
	tone        string
	extraPrompt string
}

var tailorOpts tailorOptions

func init() {
	registerOutputFlags(tailorCmd, &tailorOpts.output)
	tailorOpts.custom.register(tailorCmd)

	tailorCmd.Flags().StringVar(&tailorOpts.jobSpecText, "job-spec-text", "", "Job specification text (max 4000 characters)")
	tailorCmd.Flags().StringVar(&tailorOpts.jobSpecFile, "job-spec-file", "", "Job specification file (PDF or text)")
	tailorCmd.Flags().StringVar(&tailorOpts.tone, "tone", string(types.DefaultTone), "Tone: Formal, Neutral or Creative")
	tailorCmd.Flags().StringVar(&tailorOpts.extraPrompt, "extra-prompt", "", "Additional instructions for the tailoring model")

	tailorCmd.MarkFlagsMutuallyExclusive("job-spec-text", "job-spec-file")
	tailorCmd.MarkFlagsOneRequired("job-spec-text", "job-spec-file")

	_ = tailorCmd.RegisterFlagCompletionFunc("tone", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.ToneFormal), string(types.ToneNeutral), string(types.ToneCreative)}, cobra.ShellCompDirectiveNoFileComp
	})
}

// jobContext builds the tailoring controls from the command flags
func (o *tailorOptions) jobContext() (types.UserAdditionalContext, error) {
	tone, err := common.ParseTone(o.tone)
	if err != nil {
		return types.UserAdditionalContext{}, err
	}
	jobCtx := types.UserAdditionalContext{
		JobSpecText:    o.jobSpecText,
		JobSpecFileURL: o.jobSpecFile,
		Tone:           tone,
		ExtraPrompt:    o.extraPrompt,
	}
	return jobCtx.WithDefaults(), nil
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	jobCtx, err := tailorOpts.jobContext()
	if err != nil {
		return err
	}
	custom, err := tailorOpts.custom.build()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	logDetails := func(input types.FileInput, out common.CommandConfig) {
		logger.Info("Starting resume tailoring",
			"file", input.FileName,
			"job_spec_source", jobCtx.JobSpecSource,
			"tone", jobCtx.Tone,
			"output_format", out.OutputFormat)
	}

	tailor := func(ctx context.Context, input types.FileInput) (*types.ProcessResult, error) {
		return rt.pipeline.Tailor.Process(ctx, input, jobCtx, custom)
	}

	if err := common.RunFileCommand(cmd.Context(), newCommandRunner(cmd, rt), tailorOpts.output, args[0], tailor, logDetails); err != nil {
		return fmt.Errorf("failed to tailor resume: %w", err)
	}
	logger.Info("Resume tailoring completed successfully")
	return nil
}
