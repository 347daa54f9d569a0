package common

import (
	"testing"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "markdown", "text"}

	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: configured},
		{name: "markdown", format: "markdown", supported: configured},
		{name: "text", format: "text", supported: configured},
		{
			name:          "unknown format",
			format:        "yaml",
			supported:     configured,
			expectedError: "unsupported output format 'yaml'. Supported formats: [json markdown text]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			supported:     configured,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json markdown text]",
		},
		{
			name:          "restricted to json",
			format:        "markdown",
			supported:     []string{"json"},
			expectedError: "unsupported output format 'markdown'. Supported formats: [json]",
		},
		{name: "no restriction configured", format: "html", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.expectedError {
				t.Errorf("Expected error '%s', got '%v'", tt.expectedError, err)
			}
		})
	}
}

func TestParseColors(t *testing.T) {
	tests := []struct {
		name        string
		pairs       []string
		expected    map[string]string
		expectError bool
	}{
		{
			name:     "no flags",
			pairs:    nil,
			expected: nil,
		},
		{
			name:     "single pair",
			pairs:    []string{"primary=#112233"},
			expected: map[string]string{"primary": "#112233"},
		},
		{
			name:     "whitespace is trimmed and later keys win",
			pairs:    []string{" accent = red ", "accent=blue"},
			expected: map[string]string{"accent": "blue"},
		},
		{
			name:        "missing separator",
			pairs:       []string{"primary"},
			expectError: true,
		},
		{
			name:        "empty value",
			pairs:       []string{"primary="},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseColors(tt.pairs)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("Expected %d colors, got %d", len(tt.expected), len(result))
			}
			for key, want := range tt.expected {
				if result[key] != want {
					t.Errorf("Expected color[%s] = '%s', got '%s'", key, want, result[key])
				}
			}
		})
	}
}

func TestParseTone(t *testing.T) {
	tests := []struct {
		input       string
		expected    types.Tone
		expectError bool
	}{
		{input: "", expected: types.ToneNeutral},
		{input: "formal", expected: types.ToneFormal},
		{input: "CREATIVE", expected: types.ToneCreative},
		{input: " Neutral ", expected: types.ToneNeutral},
		{input: "sarcastic", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tone, err := ParseTone(tt.input)
			if tt.expectError {
				if !errors.IsCode(err, errors.ErrCodeInvalidJobContext) {
					t.Errorf("Expected INVALID_JOB_CONTEXT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if tone != tt.expected {
				t.Errorf("Expected tone '%s', got '%s'", tt.expected, tone)
			}
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
