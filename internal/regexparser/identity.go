package regexparser

import (
	"regexp"
	"strings"

	"resumeparser/internal/types"
)

var (
	properNameRe  = regexp.MustCompile(`^\p{Lu}[\p{L}'.\-]*(?:,?\s+\p{Lu}[\p{L}'.\-]*)+$`)
	allCapsNameRe = regexp.MustCompile(`^\p{Lu}[\p{Lu}\s'.\-]*\p{Lu}$`)
	currentRoleRe = regexp.MustCompile(`(?im)^[ \t]*Current Role:[ \t]*(.+?)[ \t]*$`)

	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{8,20}\d`)
	linkedInRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_\-%]+/?`)
	gitHubRe    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-]+`)
	websiteRe   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s,|)]+`)
	locationRe  = regexp.MustCompile(`\b(\p{Lu}\p{Ll}+(?:\s\p{Lu}\p{Ll}+)?),\s(\p{Lu}\p{Ll}+(?:\s\p{Lu}\p{Ll}+)?|\p{Lu}{2,3})\b`)
	locLabelRe  = regexp.MustCompile(`(?im)^[ \t]*(?:Location|Address|Based in):[ \t]*(.+?)[ \t]*$`)
	hasDigitsRe = regexp.MustCompile(`\d`)

	contactSeparatorRe = regexp.MustCompile(`[|•·]`)
)

// extractName returns the first line that looks like a proper name.
func extractName(lines []string) string {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || len(line) >= 50 || isSectionKeyword(line) {
			continue
		}
		if properNameRe.MatchString(line) || allCapsNameRe.MatchString(line) {
			return line
		}
	}
	return types.UnknownName
}

// extractTitle only trusts an explicit "Current Role:" line.
func extractTitle(text string) string {
	if m := currentRoleRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractContact scans the whole document; each field is set only when
// its pattern matches.
func extractContact(text, name string) types.Contact {
	var c types.Contact

	c.Email = emailRe.FindString(text)
	c.Phone = findPhone(text)
	c.LinkedIn = strings.TrimSuffix(linkedInRe.FindString(text), "/")
	c.GitHub = gitHubRe.FindString(text)
	c.Website = findWebsite(text)
	c.Location = findLocation(text, name)

	return c
}

func findPhone(text string) string {
	for _, candidate := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 10 && digits <= 15 {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func findWebsite(text string) string {
	for _, u := range websiteRe.FindAllString(text, -1) {
		lower := strings.ToLower(u)
		if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
			continue
		}
		return strings.TrimRight(u, ".;")
	}
	return ""
}

// findLocation prefers a labelled line anywhere in the document, then a
// "City, Country" pair in the preamble before the first section header.
// Section bodies are skipped because skill lists such as "Go, Python" have
// the same shape.
func findLocation(text, name string) string {
	if m := locLabelRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, line := range strings.Split(preamble(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == name || jobTitleKeywordRe.MatchString(line) || companyLabelRe.MatchString(line) {
			continue
		}
		for _, seg := range contactSeparatorRe.Split(line, -1) {
			seg = strings.TrimSpace(seg)
			if seg == "" || strings.Contains(seg, "@") || hasDigitsRe.MatchString(seg) {
				continue
			}
			if m := locationRe.FindStringSubmatch(seg); m != nil {
				return m[1] + ", " + m[2]
			}
		}
	}
	return ""
}

func preamble(text string) string {
	if loc := anyHeader.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	return text
}

// extractSummary flattens the summary section into one paragraph.
func extractSummary(text string) string {
	body, ok := sectionBody(text, SectionSummary)
	if !ok {
		return ""
	}
	return strings.Join(strings.Fields(body), " ")
}
