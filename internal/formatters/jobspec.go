package formatters

import (
	"fmt"
	"strings"

	"resumeparser/internal/types"
)

// JobSpecTextFormatter renders a JobSpecResult as plain text
type JobSpecTextFormatter struct{}

func (JobSpecTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobSpecResult)
	if !ok {
		return "", fmt.Errorf("expected JobSpecResult, got %T", data)
	}
	spec := result.Data

	var output strings.Builder

	output.WriteString("=== JOB SPECIFICATION ===\n\n")
	output.WriteString(fmt.Sprintf("Position: %s\n", spec.PositionTitle))
	if spec.YearsExperience != nil {
		output.WriteString(fmt.Sprintf("Experience: %d+ years\n", *spec.YearsExperience))
	}
	output.WriteString("\n")

	writeTextList(&output, "Required Skills", spec.RequiredSkills)
	writeTextList(&output, "Responsibilities", spec.Responsibilities)
	writeTextList(&output, "Company Values", spec.CompanyValues)

	output.WriteString("=== PROCESSING ===\n")
	writeMetaText(&output, result.Meta)

	return output.String(), nil
}

func (JobSpecTextFormatter) SupportedType() string {
	return kindJobSpec
}

// JobSpecMarkdownFormatter renders a JobSpecResult as Markdown
type JobSpecMarkdownFormatter struct{}

func (JobSpecMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobSpecResult)
	if !ok {
		return "", fmt.Errorf("expected JobSpecResult, got %T", data)
	}
	spec := result.Data

	var output strings.Builder

	output.WriteString("# " + spec.PositionTitle + "\n\n")
	if spec.YearsExperience != nil {
		output.WriteString(fmt.Sprintf("**Experience:** %d+ years\n\n", *spec.YearsExperience))
	}

	writeMarkdownList(&output, "Required Skills", spec.RequiredSkills)
	writeMarkdownList(&output, "Responsibilities", spec.Responsibilities)
	writeMarkdownList(&output, "Company Values", spec.CompanyValues)

	output.WriteString("---\n\n")
	output.WriteString(fmt.Sprintf("*Method: %s, confidence %d/100*\n", result.Meta.Method, result.Meta.Confidence))

	return output.String(), nil
}

func (JobSpecMarkdownFormatter) SupportedType() string {
	return kindJobSpec
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title + ":\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}

func writeMarkdownList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("## " + title + "\n\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}
