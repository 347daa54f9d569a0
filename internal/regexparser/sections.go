package regexparser

import (
	"regexp"
	"slices"
	"strings"
)

// Section is a canonical resume section.
type Section string

const (
	SectionSummary        Section = "SUMMARY"
	SectionExperience     Section = "EXPERIENCE"
	SectionEducation      Section = "EDUCATION"
	SectionCertifications Section = "CERTIFICATIONS"
	SectionSkills         Section = "SKILLS"
	SectionProjects       Section = "PROJECTS"
	SectionPreferences    Section = "PREFERENCES"
)

// sectionSynonyms lists the header spellings recognized for each section.
var sectionSynonyms = map[Section][]string{
	SectionSummary:        {"SUMMARY", "PROFESSIONAL SUMMARY", "PROFILE", "ABOUT", "ABOUT ME", "OBJECTIVE"},
	SectionExperience:     {"EXPERIENCE", "WORK EXPERIENCE", "PROFESSIONAL EXPERIENCE", "EMPLOYMENT HISTORY", "WORK HISTORY"},
	SectionEducation:      {"EDUCATION", "ACADEMIC BACKGROUND", "EDUCATION AND TRAINING"},
	SectionCertifications: {"CERTIFICATIONS", "CERTIFICATES", "LICENSES AND CERTIFICATIONS", "LICENSES & CERTIFICATIONS"},
	SectionSkills:         {"SKILLS", "TECHNICAL SKILLS", "CORE COMPETENCIES", "KEY SKILLS"},
	SectionProjects:       {"PROJECTS", "PERSONAL PROJECTS", "SELECTED PROJECTS"},
	SectionPreferences:    {"PREFERENCES", "JOB PREFERENCES", "WORK PREFERENCES"},
}

// endHeadersFor returns every known header except the section's own.
func endHeadersFor(section Section) []string {
	var out []string
	for s, syns := range sectionSynonyms {
		if s != section {
			out = append(out, syns...)
		}
	}
	return out
}

// isSectionKeyword reports whether line is exactly a known header.
func isSectionKeyword(line string) bool {
	upper := strings.ToUpper(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	for _, syns := range sectionSynonyms {
		if slices.Contains(syns, upper) {
			return true
		}
	}
	return false
}

// headerPattern matches a header line: a synonym at line start followed by
// a colon or the end of the line. Longer synonyms are tried first.
func headerPattern(synonyms []string) *regexp.Regexp {
	sorted := slices.Clone(synonyms)
	slices.SortFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	quoted := make([]string, len(sorted))
	for i, s := range sorted {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + strings.Join(quoted, "|") + `)[ \t]*(?::|$)`)
}

// sectionPatterns holds the compiled start and end header patterns per section.
type sectionPatterns struct {
	start *regexp.Regexp
	end   *regexp.Regexp
}

var (
	compiledSections = compileSections()
	anyHeader        = headerPattern(allHeaders())
)

func compileSections() map[Section]sectionPatterns {
	out := make(map[Section]sectionPatterns, len(sectionSynonyms))
	for section, syns := range sectionSynonyms {
		out[section] = sectionPatterns{start: headerPattern(syns), end: headerPattern(endHeadersFor(section))}
	}
	return out
}

func allHeaders() []string {
	var all []string
	for _, syns := range sectionSynonyms {
		all = append(all, syns...)
	}
	return all
}

// extractSectionContent returns the body following the first start header,
// up to the first end header or the end of text.
func extractSectionContent(text string, start, end []string) (string, bool) {
	if len(start) == 0 {
		return "", false
	}
	var endRe *regexp.Regexp
	if len(end) > 0 {
		endRe = headerPattern(end)
	}
	return sectionBetween(text, headerPattern(start), endRe)
}

// sectionBetween is extractSectionContent over compiled patterns; a nil end
// runs the body to the end of text.
func sectionBetween(text string, start, end *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]

	if end != nil {
		// skip the remainder of the header line so ^ cannot match inside it
		offset := len(body)
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			offset = nl
		}
		if endLoc := end.FindStringIndex(body[offset:]); endLoc != nil {
			body = body[:offset+endLoc[0]]
		}
	}
	return strings.TrimSpace(body), true
}

// sectionBody extracts a canonical section, ending at any other header.
func sectionBody(text string, section Section) (string, bool) {
	p, ok := compiledSections[section]
	if !ok {
		return "", false
	}
	return sectionBetween(text, p.start, p.end)
}
