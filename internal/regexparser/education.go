package regexparser

import (
	"regexp"
	"strings"

	"resumeparser/internal/types"
)

var (
	institutionRe = regexp.MustCompile(`(?:\p{Lu}[\p{L}.&'\-]*\s+)*(?:University|College|Institute|Academy|School)\b(?:\s+of)?(?:\s+(?:the\s+)?\p{Lu}[\p{L}.&'\-]*)*`)
	degreeRe      = regexp.MustCompile(`\b(?:(?:Bachelor|Master|Associate|Doctor)(?:'s)?|Ph\.?\s?D\.?|MBA|BSc|MSc|B\.S\.|M\.S\.|B\.A\.|M\.A\.)(?:\s+of)?[^,|;\n]*|\bDiploma[^,|;\n]*`)
	yearRangeRe   = regexp.MustCompile(`(?i)\b\d{4}\s*(?:-|–|—|to)\s*(?:\d{4}|Present|Current)\b`)
)

const maxPlaceholderNote = 200

func extractEducation(text string) []types.EducationEntry {
	body, ok := sectionBody(text, SectionEducation)
	if !ok {
		return []types.EducationEntry{}
	}

	var (
		entries []types.EducationEntry
		current *types.EducationEntry
	)
	flush := func() {
		if current == nil {
			return
		}
		if current.Institution == "" {
			current.Institution = types.UnknownInstitution
		}
		if current.Degree == "" {
			current.Degree = types.UnknownDegree
		}
		if current.Duration == "" {
			current.Duration = types.UnknownDuration
		}
		entries = append(entries, *current)
		current = nil
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "*•-"))
		if line == "" {
			continue
		}
		inst := strings.TrimSpace(institutionRe.FindString(line))
		degree := strings.TrimSpace(degreeRe.FindString(line))
		years := yearRangeRe.FindString(line)

		if inst == "" && degree == "" && years == "" {
			if current != nil {
				current.Note = joinNote(current.Note, line)
			}
			continue
		}

		// a field already filled on the open record means a new one starts here
		if current == nil ||
			(inst != "" && current.Institution != "") ||
			(degree != "" && current.Degree != "") ||
			(years != "" && current.Duration != "") {
			flush()
			current = &types.EducationEntry{}
		}
		if inst != "" {
			current.Institution = inst
		}
		if degree != "" {
			if years != "" {
				degree = strings.Replace(degree, years, "", 1)
			}
			current.Degree = strings.Trim(degree, " -–()")
		}
		if years != "" {
			current.Duration = years
		}
	}
	flush()

	if len(entries) == 0 {
		placeholder := types.EducationEntry{
			Degree:      types.UnknownDegree,
			Institution: types.UnknownInstitution,
			Duration:    types.UnknownDuration,
		}
		if note := strings.Join(strings.Fields(body), " "); note != "" {
			placeholder.Note = truncateRunes(note, maxPlaceholderNote)
		}
		entries = append(entries, placeholder)
	}
	return entries
}

func joinNote(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "; " + line
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
