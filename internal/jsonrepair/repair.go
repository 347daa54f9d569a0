// Package jsonrepair recovers JSON documents from free-text model output.
package jsonrepair

import (
	"encoding/json"
	"strings"

	"resumeparser/internal/errors"
	"resumeparser/internal/schemas"
)

// maxSnippet bounds the cleaned text echoed into logs on failure.
const maxSnippet = 200

var invisibleReplacer = strings.NewReplacer(
	"\uFEFF", "",
	"\u200B", "",
	"\u200C", "",
	"\u200D", "",
	"\u2060", "",
	"\u00A0", " ",
)

type options struct {
	schema schemas.Name
	logger *errors.Logger
}

// Option configures CleanAndParse.
type Option func(*options)

// WithSchema validates the parsed document against a bundled schema.
func WithSchema(name schemas.Name) Option {
	return func(o *options) { o.schema = name }
}

// WithLogger logs a bounded snippet of unusable output.
func WithLogger(logger *errors.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Clean applies the text-level repairs: invisible characters, code fences,
// first balanced object and trailing commas.
func Clean(raw string) string {
	text := invisibleReplacer.Replace(raw)
	text = StripFences(text)
	if obj, ok := ExtractBalancedObject(text); ok {
		text = obj
	}
	return RemoveTrailingCommas(text)
}

// CleanAndParse recovers a T from raw model output. Any failure, whether a
// parse error or a schema mismatch, is reported as ErrCodeAIInvalidJSON.
func CleanAndParse[T any](raw string, opts ...Option) (T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var out, zero T
	cleaned := Clean(raw)

	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return zero, invalid(o.logger, cleaned, err, "parse")
	}
	if o.schema != "" {
		if err := schemas.Validate(o.schema, []byte(cleaned)); err != nil {
			return zero, invalid(o.logger, cleaned, err, "schema")
		}
	}
	return out, nil
}

// StripFences removes a leading ```json or ``` fence and a trailing ``` fence.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			lang := strings.TrimSpace(text[:nl])
			if lang == "" || (len(lang) < 20 && !strings.ContainsAny(lang, "{[ ")) {
				text = text[nl+1:]
			}
		} else {
			text = strings.TrimPrefix(text, "json")
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ExtractBalancedObject returns the first complete {...} span in s. Braces
// inside double-quoted strings, including escaped quotes, are ignored.
func ExtractBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// RemoveTrailingCommas drops commas that directly precede } or ], outside
// of string literals.
func RemoveTrailingCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			sb.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		if c == ',' && closesNext(s[i+1:]) {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func closesNext(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '}' || rest[0] == ']')
}

func invalid(logger *errors.Logger, cleaned string, cause error, stage string) error {
	logger.Warn("Unusable AI JSON output",
		"stage", stage,
		"snippet", snippet(cleaned),
		"error", cause.Error())
	return errors.NewAIError(errors.ErrCodeAIInvalidJSON, errors.InvalidJSONMessage, cause).
		WithContext("stage", stage)
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippet {
		return s
	}
	return string(r[:maxSnippet]) + "..."
}
