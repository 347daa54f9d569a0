package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestFromPathText(t *testing.T) {
	path := writeFile(t, "resume.txt", []byte("\xef\xbb\xbfJane Doe\nSoftware Engineer\n"))

	input, err := NewLoader(1024, nil).FromPath(path)
	require.NoError(t, err)

	assert.Equal(t, types.FileTypeText, input.FileType)
	assert.Equal(t, "resume.txt", input.FileName)
	assert.Equal(t, "Jane Doe\nSoftware Engineer\n", input.Content)
	assert.Empty(t, input.FileData)
	assert.Equal(t, input.Content, input.PlainText())
}

func TestFromBytesPDF(t *testing.T) {
	// not a parseable document; text extraction fails quietly
	data := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\nnot really a pdf body\n")

	input, err := NewLoader(1024, nil).FromBytes("resume.pdf", data)
	require.NoError(t, err)

	assert.True(t, input.IsPDF())
	assert.Equal(t, types.PDFContentMarker, input.Content)
	assert.Equal(t, data, input.FileData)
	assert.Equal(t, int64(len(data)), input.FileSize)
	assert.Empty(t, input.FallbackText)
}

func TestFromBytesRejects(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		code string
	}{
		{name: "empty", file: "a.txt", data: nil, code: errors.ErrCodeEmptyInput},
		{name: "whitespace only", file: "a.txt", data: []byte(" \n\t "), code: errors.ErrCodeEmptyInput},
		{name: "too large", file: "a.txt", data: []byte(strings.Repeat("a", 65)), code: errors.ErrCodeFileTooLarge},
		{name: "binary", file: "a.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), code: errors.ErrCodeInvalidFormat},
		{name: "invalid utf8", file: "a.txt", data: []byte{'a', 0xff, 0xfe, 'b'}, code: errors.ErrCodeInvalidFormat},
		{name: "fake pdf extension", file: "a.pdf", data: []byte("just text"), code: errors.ErrCodeInvalidFormat},
	}

	loader := NewLoader(64, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.FromBytes(tt.file, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestFromPathErrors(t *testing.T) {
	loader := NewLoader(16, nil)

	_, err := loader.FromPath("")
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileNotFound))

	_, err = loader.FromPath(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileNotFound))

	_, err = loader.FromPath(t.TempDir())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFormat))

	_, err = loader.FromPath(writeFile(t, "big.txt", []byte(strings.Repeat("x", 17))))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileTooLarge))
}

func TestNewLoaderDefaultLimit(t *testing.T) {
	assert.Equal(t, int64(DefaultMaxFileSize), NewLoader(0, nil).MaxFileSize())
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatFileSize(tt.size))
	}
}
