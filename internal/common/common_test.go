package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFileProcessorLoadInput(t *testing.T) {
	fp := NewFileProcessor(nil, nil)

	input, err := fp.LoadInput(writeTemp(t, "resume.txt", "Jane Doe\nEngineer\n"))
	require.NoError(t, err)
	assert.Equal(t, types.FileTypeText, input.FileType)
	assert.Equal(t, "resume.txt", input.FileName)

	_, err = fp.LoadInput(filepath.Join(t.TempDir(), "missing.txt"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeFileNotFound))
}

func TestFileProcessorWriteFile(t *testing.T) {
	fp := NewFileProcessor(nil, nil)
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	require.NoError(t, fp.WriteFile(path, "{}"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()
	regular := writeTemp(t, "file.txt", "x")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "stdout", path: ""},
		{name: "new file in existing dir", path: filepath.Join(dir, "out.md")},
		{name: "new file in missing dir", path: filepath.Join(dir, "a", "out.md")},
		{name: "directory", path: dir, wantErr: true},
		{name: "parent is a file", path: filepath.Join(regular, "out.md"), wantErr: true},
	}

	fp := NewFileProcessor(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fp.ValidateOutputFile(tt.path)
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidOutputFile), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOutputHandler(t *testing.T) {
	result := types.ProcessResult{
		Data: types.ParsedResume{Name: "Jane Doe"}.Normalize(),
		Meta: types.Meta{Method: types.MethodAI, Confidence: 90},
	}

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		oh := NewOutputHandler(NewFileProcessor(nil, nil), nil).WithStdout(&buf)

		require.NoError(t, oh.HandleOutput(result, CommandConfig{OutputFormat: "markdown"}))
		assert.Contains(t, buf.String(), "# Jane Doe")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		oh := NewOutputHandler(NewFileProcessor(nil, nil), nil)

		require.NoError(t, oh.HandleOutput(&result, CommandConfig{OutputFile: path, OutputFormat: "json"}))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"name": "Jane Doe"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		oh := NewOutputHandler(NewFileProcessor(nil, nil), nil).WithStdout(&bytes.Buffer{})
		err := oh.HandleOutput(result, CommandConfig{OutputFormat: "yaml"})
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidFormat))
	})
}

func TestRunFileCommand(t *testing.T) {
	var buf bytes.Buffer
	runner := NewCommandRunner(NewFileProcessor(nil, nil), nil)
	runner.Output.WithStdout(&buf)

	path := writeTemp(t, "resume.txt", "Jane Doe")
	var logged string
	err := RunFileCommand(context.Background(), runner, CommandConfig{OutputFormat: "json"}, path,
		func(_ context.Context, input types.FileInput) (map[string]string, error) {
			return map[string]string{"content": input.Content}, nil
		},
		func(input types.FileInput, _ CommandConfig) { logged = input.FileName })
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", logged)
	assert.Contains(t, buf.String(), `"content": "Jane Doe"`)

	err = RunFileCommand(context.Background(), runner, CommandConfig{OutputFormat: "json"}, path,
		func(context.Context, types.FileInput) (string, error) { return "", fmt.Errorf("boom") }, nil)
	assert.EqualError(t, err, "boom")
}

func TestFileWatcherDebouncesChanges(t *testing.T) {
	path := writeTemp(t, "resume.txt", "v1")

	var mu sync.Mutex
	var calls [][]string
	notified := make(chan struct{}, 10)

	fw, err := NewFileWatcher([]string{path}, 50*time.Millisecond, func(changed []string) {
		mu.Lock()
		calls = append(calls, changed)
		mu.Unlock()
		notified <- struct{}{}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	assert.True(t, fw.IsRunning())
	assert.Error(t, fw.Start(), "second start is rejected")

	// several writes inside the debounce window collapse into one callback
	for i := range 3 {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("version %d", i+2)), 0600))
	}

	select {
	case <-notified:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	mu.Lock()
	require.Len(t, calls, 1)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, []string{abs}, calls[0])
	mu.Unlock()

	require.NoError(t, fw.Stop())
	assert.False(t, fw.IsRunning())
	assert.NoError(t, fw.Stop(), "stop is idempotent")
}

func TestNewFileWatcherValidation(t *testing.T) {
	_, err := NewFileWatcher(nil, 0, func([]string) {}, nil)
	assert.Error(t, err)

	_, err = NewFileWatcher([]string{"resume.txt"}, 0, nil, nil)
	assert.Error(t, err)

	fw, err := NewFileWatcher([]string{"resume.txt"}, 0, func([]string) {}, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultDebounceDelay, fw.debounceDelay)
	assert.True(t, filepath.IsAbs(fw.WatchedFiles()[0]))
}
