package common

import (
	"fmt"
	"os"
	"path/filepath"

	"resumeparser/internal/errors"
	"resumeparser/internal/extract"
	"resumeparser/internal/types"
)

// FileProcessor handles the file side of CLI commands
type FileProcessor struct {
	loader *extract.Loader
	logger *errors.Logger
}

// NewFileProcessor creates a file processor. A nil loader uses the default size limit.
func NewFileProcessor(loader *extract.Loader, logger *errors.Logger) *FileProcessor {
	if loader == nil {
		loader = extract.NewLoader(0, logger)
	}
	return &FileProcessor{loader: loader, logger: logger}
}

// LoadInput reads a resume or job spec from disk into a FileInput
func (fp *FileProcessor) LoadInput(filename string) (types.FileInput, error) {
	input, err := fp.loader.FromPath(filename)
	if err != nil {
		return types.FileInput{}, err
	}

	fp.logger.Debug("Loaded input file",
		"file", filename,
		"type", input.FileType,
		"size", extract.FormatFileSize(input.FileSize))
	return input, nil
}

// WriteFile writes content to a file, creating parent directories
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeDirectoryCreate,
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileWrite,
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile checks that an output path is writable. Empty means stdout.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	info, err := os.Stat(filename)
	if err == nil && info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeInvalidOutputFile,
			fmt.Sprintf("Output path is a directory: %s", filename), nil)
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeInvalidOutputFile,
			fmt.Sprintf("Invalid output file: %s", filename),
			fmt.Errorf("%s is not a directory", dir))
	}

	return nil
}
