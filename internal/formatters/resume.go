package formatters

import (
	"fmt"
	"slices"
	"strings"

	"resumeparser/internal/types"
)

// ResumeTextFormatter renders a ProcessResult as plain text
type ResumeTextFormatter struct{}

func (ResumeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ProcessResult)
	if !ok {
		return "", fmt.Errorf("expected ProcessResult, got %T", data)
	}
	resume := result.Data

	var output strings.Builder

	output.WriteString("=== " + strings.ToUpper(resume.Name) + " ===\n")
	if resume.Title != "" {
		output.WriteString(resume.Title + "\n")
	}
	for _, line := range contactLines(resume.Contact) {
		output.WriteString(line + "\n")
	}
	output.WriteString("\n")

	if resume.Summary != "" {
		output.WriteString("=== SUMMARY ===\n")
		output.WriteString(resume.Summary)
		output.WriteString("\n\n")
	}

	if len(resume.Experience) > 0 {
		output.WriteString("=== EXPERIENCE ===\n")
		for _, exp := range resume.Experience {
			output.WriteString(experienceHeading(exp) + "\n")
			for _, detail := range exp.Details {
				output.WriteString(fmt.Sprintf("  - %s\n", detail))
			}
			output.WriteString("\n")
		}
	}

	if len(resume.Education) > 0 {
		output.WriteString("=== EDUCATION ===\n")
		for _, edu := range resume.Education {
			output.WriteString(educationLine(edu) + "\n")
		}
		output.WriteString("\n")
	}

	if len(resume.Certifications) > 0 {
		output.WriteString("=== CERTIFICATIONS ===\n")
		for _, cert := range resume.Certifications {
			output.WriteString(certificationLine(cert) + "\n")
		}
		output.WriteString("\n")
	}

	if len(resume.Skills) > 0 {
		output.WriteString("=== SKILLS ===\n")
		output.WriteString(strings.Join(resume.Skills, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString("=== PROCESSING ===\n")
	writeMetaText(&output, result.Meta)

	return output.String(), nil
}

func (ResumeTextFormatter) SupportedType() string {
	return kindResume
}

// ResumeMarkdownFormatter renders a ProcessResult as Markdown
type ResumeMarkdownFormatter struct{}

func (ResumeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ProcessResult)
	if !ok {
		return "", fmt.Errorf("expected ProcessResult, got %T", data)
	}
	resume := result.Data

	var output strings.Builder

	output.WriteString("# " + resume.Name + "\n\n")
	if resume.ProfileImage != "" {
		output.WriteString(fmt.Sprintf("![%s](%s)\n\n", resume.Name, resume.ProfileImage))
	}
	if resume.Title != "" {
		output.WriteString("**" + resume.Title + "**\n\n")
	}
	if lines := contactLines(resume.Contact); len(lines) > 0 {
		output.WriteString(strings.Join(lines, " | "))
		output.WriteString("\n\n")
	}

	if resume.Summary != "" {
		output.WriteString("## Summary\n\n")
		output.WriteString(resume.Summary)
		output.WriteString("\n\n")
	}

	if len(resume.Experience) > 0 {
		output.WriteString("## Experience\n\n")
		for _, exp := range resume.Experience {
			output.WriteString("### " + experienceHeading(exp) + "\n\n")
			for _, detail := range exp.Details {
				output.WriteString(fmt.Sprintf("- %s\n", detail))
			}
			output.WriteString("\n")
		}
	}

	if len(resume.Education) > 0 {
		output.WriteString("## Education\n\n")
		for _, edu := range resume.Education {
			output.WriteString("- " + educationLine(edu) + "\n")
		}
		output.WriteString("\n")
	}

	if len(resume.Certifications) > 0 {
		output.WriteString("## Certifications\n\n")
		for _, cert := range resume.Certifications {
			output.WriteString("- " + certificationLine(cert) + "\n")
		}
		output.WriteString("\n")
	}

	if len(resume.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		output.WriteString(strings.Join(resume.Skills, ", "))
		output.WriteString("\n\n")
	}

	output.WriteString("---\n\n")
	output.WriteString(fmt.Sprintf("*Method: %s, confidence %d/100*\n", result.Meta.Method, result.Meta.Confidence))
	if result.Meta.JobMatchScore != nil {
		output.WriteString(fmt.Sprintf("\n*Job match: %.0f%%*\n", *result.Meta.JobMatchScore*100))
	}
	if result.Meta.AITailorCommentary != "" {
		output.WriteString("\n> " + result.Meta.AITailorCommentary + "\n")
	}

	return output.String(), nil
}

func (ResumeMarkdownFormatter) SupportedType() string {
	return kindResume
}

func writeMetaText(output *strings.Builder, meta types.Meta) {
	output.WriteString(fmt.Sprintf("Method: %s\n", meta.Method))
	output.WriteString(fmt.Sprintf("Confidence: %d/100\n", meta.Confidence))
	if meta.FallbackReason != "" {
		output.WriteString(fmt.Sprintf("Fallback reason: %s\n", meta.FallbackReason))
	}
	if meta.JobMatchScore != nil {
		output.WriteString(fmt.Sprintf("Job match: %.0f%%\n", *meta.JobMatchScore*100))
	}
	if meta.TailoringConfidence != nil {
		output.WriteString(fmt.Sprintf("Tailoring confidence: %.2f\n", *meta.TailoringConfidence))
	}
	if meta.AITailorCommentary != "" {
		output.WriteString(fmt.Sprintf("Commentary: %s\n", meta.AITailorCommentary))
	}
	if meta.ProcessingTimeMs > 0 {
		output.WriteString(fmt.Sprintf("Processing time: %dms\n", meta.ProcessingTimeMs))
	}
}

func contactLines(c types.Contact) []string {
	return slices.DeleteFunc([]string{c.Email, c.Phone, c.Location, c.Website, c.GitHub, c.LinkedIn}, func(s string) bool {
		return s == ""
	})
}

func experienceHeading(exp types.ExperienceEntry) string {
	heading := exp.Title
	if exp.Company != "" {
		if heading != "" {
			heading += " at "
		}
		heading += exp.Company
	}
	if exp.Duration != "" {
		heading += " (" + exp.Duration + ")"
	}
	return heading
}

func educationLine(edu types.EducationEntry) string {
	line := edu.Degree + ", " + edu.Institution
	if edu.Duration != "" {
		line += " (" + edu.Duration + ")"
	}
	if edu.Note != "" {
		line += ": " + edu.Note
	}
	return line
}

func certificationLine(cert types.CertificationEntry) string {
	line := cert.Name
	if cert.Issuer != "" {
		line += ", " + cert.Issuer
	}
	if cert.Date != "" {
		line += " (" + cert.Date + ")"
	}
	return line
}
