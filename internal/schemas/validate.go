// Package schemas holds the JSON Schema contracts for model output and
// validates documents against them.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchemaJSON string

//go:embed jobspec.schema.json
var jobSpecSchemaJSON string

// Name identifies a bundled schema.
type Name string

const (
	Resume  Name = "resume"
	JobSpec Name = "jobspec"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema Name
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s schema validation failed:", ve.Schema)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, err.Field, err.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

var (
	compileOnce sync.Once
	compiled    map[Name]*gojsonschema.Schema
	compileErr  error
)

func load() (map[Name]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[Name]*gojsonschema.Schema, 2)
		for name, src := range map[Name]string{Resume: resumeSchemaJSON, JobSpec: jobSpecSchemaJSON} {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = fmt.Errorf("failed to compile %s schema: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// Validate checks a JSON document against the named schema.
func Validate(name Name, document []byte) error {
	all, err := load()
	if err != nil {
		return err
	}
	schema, ok := all[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to load document for %s schema: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// ValidateResume validates a ParsedResume document.
func ValidateResume(document []byte) error {
	return Validate(Resume, document)
}

// ValidateJobSpec validates a ParsedJobSpec document.
func ValidateJobSpec(document []byte) error {
	return Validate(JobSpec, document)
}

// Source returns the raw schema text, used when embedding it in prompts.
func Source(name Name) string {
	switch name {
	case Resume:
		return resumeSchemaJSON
	case JobSpec:
		return jobSpecSchemaJSON
	default:
		return ""
	}
}
