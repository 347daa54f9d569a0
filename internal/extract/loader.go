// Package extract builds pipeline inputs from files on disk or uploaded
// bytes. It validates size and type and never interprets resume content.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// DefaultMaxFileSize is used when no limit is configured.
const DefaultMaxFileSize = 5 * 1024 * 1024

// Loader turns files into types.FileInput.
type Loader struct {
	maxFileSize int64
	logger      *errors.Logger
}

// NewLoader returns a Loader rejecting files above maxFileSize bytes.
func NewLoader(maxFileSize int64, logger *errors.Logger) *Loader {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Loader{maxFileSize: maxFileSize, logger: logger}
}

// MaxFileSize returns the configured limit in bytes.
func (l *Loader) MaxFileSize() int64 {
	return l.maxFileSize
}

// FromPath reads and classifies a local file.
func (l *Loader) FromPath(path string) (types.FileInput, error) {
	if strings.TrimSpace(path) == "" {
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeFileNotFound, "File path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.FileInput{}, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return types.FileInput{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Path is a directory, not a file: %s", path), nil)
	}
	if info.Size() > l.maxFileSize {
		return types.FileInput{}, l.tooLarge(filepath.Base(path), info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		return types.FileInput{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", path), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.Warn("Failed to close file", "filename", path, "error", err)
		}
	}()

	// one extra byte detects files that grew after Stat
	data, err := io.ReadAll(io.LimitReader(file, l.maxFileSize+1))
	if err != nil {
		return types.FileInput{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", path), err)
	}
	return l.FromBytes(filepath.Base(path), data)
}

// FromBytes classifies an in-memory payload by its content. Only PDF and
// UTF-8 text are accepted.
func (l *Loader) FromBytes(name string, data []byte) (types.FileInput, error) {
	size := int64(len(data))
	if size == 0 {
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("File is empty: %s", name), nil)
	}
	if size > l.maxFileSize {
		return types.FileInput{}, l.tooLarge(name, size)
	}

	detected := mimetype.Detect(data)
	switch {
	case detected.Is(types.PDFMIMEType):
		input := types.PDFInput(name, data)
		input.FallbackText = l.pdfText(name, data)
		return input, nil
	case isText(detected, data):
		if ext := strings.ToLower(filepath.Ext(name)); ext == ".pdf" {
			return types.FileInput{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("File %s has a .pdf extension but is not a PDF", name), nil)
		}
		text := string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
		if strings.TrimSpace(text) == "" {
			return types.FileInput{}, errors.NewValidationError(errors.ErrCodeEmptyInput,
				fmt.Sprintf("File has no text: %s", name), nil)
		}
		return types.TextInput(name, text), nil
	default:
		return types.FileInput{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported file type %s for %s", detected.String(), name), nil).
			WithContext("mime_type", detected.String())
	}
}

// FromText wraps pasted text.
func (l *Loader) FromText(name, text string) (types.FileInput, error) {
	return l.FromBytes(name, []byte(text))
}

func (l *Loader) tooLarge(name string, size int64) error {
	return errors.NewValidationError(errors.ErrCodeFileTooLarge,
		fmt.Sprintf("File %s is %s, larger than the %s limit", name, FormatFileSize(size), FormatFileSize(l.maxFileSize)), nil).
		WithContext("file_size", size).
		WithContext("max_file_size", l.maxFileSize)
}

// pdfText is best effort: failures only cost the regex fallback its input.
func (l *Loader) pdfText(name string, data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("PDF text extraction panicked", "file_name", name, "panic", fmt.Sprint(r))
			text = ""
		}
	}()

	text, err := ExtractPDFText(data)
	if err != nil {
		l.logger.Debug("PDF text extraction failed", "file_name", name, "error", err.Error())
		return ""
	}
	return text
}

// ExtractPDFText returns the plain text of a PDF document.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func isText(detected *mimetype.MIME, data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
