package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"resumeparser/internal/types"
)

// Format names
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

const (
	kindAny     = "any"
	kindResume  = "ProcessResult"
	kindJobSpec = "JobSpecResult"
)

// Formatter renders one kind of result
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry maps format -> data kind -> formatter
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter
}

// NewFormatterRegistry creates a registry with the default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, kindAny, JSONFormatter{})
	registry.RegisterFormatter(FormatText, kindResume, ResumeTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, kindResume, ResumeMarkdownFormatter{})
	registry.RegisterFormatter(FormatText, kindJobSpec, JobSpecTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, kindJobSpec, JobSpecMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a formatter for a format and data kind
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format renders data with the most specific formatter registered for format.
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := dataKind(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[kindAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns registered format names in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.ProcessResult:
		if v != nil {
			return *v
		}
	case *types.JobSpecResult:
		if v != nil {
			return *v
		}
	}
	return data
}

func dataKind(data any) string {
	switch data.(type) {
	case types.ProcessResult:
		return kindResume
	case types.JobSpecResult:
		return kindJobSpec
	default:
		return kindAny
	}
}

// JSONFormatter renders any value as indented JSON
type JSONFormatter struct{}

func (JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (JSONFormatter) SupportedType() string {
	return kindAny
}

// GlobalRegistry is the registry used by the CLI
var GlobalRegistry = NewFormatterRegistry()
