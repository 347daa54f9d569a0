package common

import (
	"fmt"
	"slices"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

// ValidateOutputFormat checks format against the configured formats. An
// empty list allows anything the formatter registry knows.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ParseColors turns repeated key=value flags into a color map.
func ParseColors(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	colors := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("color must be key=value, got %q", pair), nil)
		}
		colors[key] = value
	}
	return colors, nil
}

// ParseTone maps a case-insensitive tone name to a Tone. Empty selects the default.
func ParseTone(name string) (types.Tone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.DefaultTone, nil
	}

	for _, tone := range []types.Tone{types.ToneFormal, types.ToneNeutral, types.ToneCreative} {
		if strings.EqualFold(name, string(tone)) {
			return tone, nil
		}
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidJobContext,
		fmt.Sprintf("unknown tone %q: expected Formal, Neutral or Creative", name), nil)
}
