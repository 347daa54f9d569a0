package cli

import (
	"context"
	"fmt"
	"time"

	"resumeparser/internal/common"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [resume-file]",
	Short: "Regenerate structured resume data whenever the file changes",
	Long: `Run generate once, then watch the resume file and run it again after
every change until interrupted. Use -o to keep an output file up to date.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &watchOpts.output)
	},
	RunE: runWatch,
}

var watchOpts struct {
	output   common.CommandConfig
	custom   customizationFlags
	debounce time.Duration
}

func init() {
	registerOutputFlags(watchCmd, &watchOpts.output)
	watchOpts.custom.register(watchCmd)
	watchCmd.Flags().DurationVar(&watchOpts.debounce, "debounce", 500*time.Millisecond, "Quiet period after a change before regenerating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	custom, err := watchOpts.custom.build()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()

	runner := newCommandRunner(cmd, rt)
	path := args[0]
	generate := func(ctx context.Context, input types.FileInput) (*types.ProcessResult, error) {
		return rt.pipeline.Generator.Process(ctx, input, custom)
	}
	regenerate := func() {
		if err := common.RunFileCommand(ctx, runner, watchOpts.output, path, generate, nil); err != nil {
			logger.LogError(err, "Regeneration failed", "file", path)
			return
		}
		logger.Info("Resume regenerated", "file", path)
	}

	watcher, err := common.NewFileWatcher([]string{path}, watchOpts.debounce, func([]string) { regenerate() }, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	regenerate()

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	logger.Info("Watching for changes", "file", path, "debounce", watchOpts.debounce)
	<-ctx.Done()
	return nil
}
