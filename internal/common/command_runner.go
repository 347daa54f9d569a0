package common

import (
	"context"
	"time"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

// OperationFunc runs one orchestrator over a loaded input.
type OperationFunc[Output any] func(context.Context, types.FileInput) (Output, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc func(input types.FileInput, cfg CommandConfig)

// CommandRunner carries what every file-based command needs.
type CommandRunner struct {
	Files  *FileProcessor
	Output *OutputHandler
	Logger *errors.Logger
}

// NewCommandRunner wires a file processor and an output handler around logger.
func NewCommandRunner(files *FileProcessor, logger *errors.Logger) *CommandRunner {
	return &CommandRunner{
		Files:  files,
		Output: NewOutputHandler(files, logger),
		Logger: logger,
	}
}

// RunFileCommand loads path, runs operation on it and writes the formatted result.
func RunFileCommand[Output any](
	ctx context.Context,
	runner *CommandRunner,
	cmdConfig CommandConfig,
	path string,
	operation OperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	input, err := runner.Files.LoadInput(path)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	start := time.Now()
	result, err := operation(ctx, input)
	if err != nil {
		return err
	}
	runner.Logger.Debug("Command finished", "file", path, "duration", time.Since(start))

	return runner.Output.HandleOutput(result, cmdConfig)
}
