package regexparser

import (
	"regexp"
	"strings"

	"resumeparser/internal/types"
)

// learningPlatforms double as issuers and as label words that never start
// a certification title.
var learningPlatforms = []string{
	"Coursera", "Udemy", "edX", "LinkedIn Learning", "Pluralsight", "Udacity",
	"DataCamp", "Codecademy", "freeCodeCamp", "Skillsoft", "Google Cloud Skills Boost",
}

var (
	certLabelWordRe = regexp.MustCompile(`(?i)^(?:Course|Issuer|Issued|Issuing|Credential\s*ID|Credential|Date|Expires|Expiration|Certificate\s*URL|URL)\b`)
	issuerLabelRe   = regexp.MustCompile(`(?i)^(?:Issuer|Issued by|Issuing Organization|Provider):?\s*(.+)$`)
	issuerPrepRe    = regexp.MustCompile(`(?i)^(?:from|by)\s+(.+)$`)
	titleIssuerRe   = regexp.MustCompile(`^(.+?)\s+(?:by|from)\s+(\p{Lu}.+)$`)
	certDateLabelRe = regexp.MustCompile(`(?i)^(?:Date|Issued|Issue Date|Completed):?\s*(.+)$`)
	monthDateRe     = regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}\b`)
	credentialIDRe  = regexp.MustCompile(`(?i)Credential\s*ID:?\s*(\S+)`)
	capitalWordRe   = regexp.MustCompile(`\p{Lu}\p{L}{3,}`)
	platformRe      = buildPlatformRe()
)

func buildPlatformRe() *regexp.Regexp {
	quoted := make([]string, len(learningPlatforms))
	for i, p := range learningPlatforms {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func extractCertifications(text string) []types.CertificationEntry {
	body, ok := sectionBody(text, SectionCertifications)
	if !ok {
		return []types.CertificationEntry{}
	}

	entries := []types.CertificationEntry{}
	var current *types.CertificationEntry
	flush := func() {
		if current != nil && current.Name != "" {
			entries = append(entries, *current)
		}
		current = nil
	}
	setIssuer := func(v string) {
		if current != nil && current.Issuer == "" {
			current.Issuer = strings.TrimSpace(v)
		}
	}
	setDate := func(v string) {
		if current != nil && current.Date == "" {
			current.Date = strings.TrimSpace(v)
		}
	}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(raw), "*•-"))
		if line == "" {
			continue
		}

		if m := credentialIDRe.FindStringSubmatch(line); m != nil {
			if current != nil && current.ID == "" {
				current.ID = m[1]
			}
			continue
		}
		if m := issuerLabelRe.FindStringSubmatch(line); m != nil {
			setIssuer(m[1])
			continue
		}
		if m := certDateLabelRe.FindStringSubmatch(line); m != nil {
			setDate(m[1])
			continue
		}
		if m := issuerPrepRe.FindStringSubmatch(line); m != nil && current != nil {
			setIssuer(m[1])
			continue
		}
		if platformRe.MatchString(line) && strings.EqualFold(strings.TrimSpace(platformRe.FindString(line)), line) {
			setIssuer(line)
			continue
		}
		if d := monthDateRe.FindString(line); d != "" && len(strings.TrimSpace(strings.Replace(line, d, "", 1))) < 4 {
			setDate(d)
			continue
		}

		if isCertTitle(line) {
			flush()
			current = &types.CertificationEntry{Name: line}
			if m := titleIssuerRe.FindStringSubmatch(line); m != nil {
				current.Name = strings.TrimSpace(m[1])
				current.Issuer = strings.TrimSpace(m[2])
			}
			if current.Issuer == "" {
				if p := platformRe.FindString(line); p != "" {
					current.Issuer = p
				}
			}
			if d := monthDateRe.FindString(line); d != "" {
				current.Date = d
			}
			continue
		}

		if current != nil {
			if p := platformRe.FindString(line); p != "" {
				setIssuer(p)
			}
			if d := monthDateRe.FindString(line); d != "" {
				setDate(d)
			}
		}
	}
	flush()
	return entries
}

// isCertTitle: 3-100 characters, no leading label or platform word, and at
// least one capitalized word of four or more letters.
func isCertTitle(line string) bool {
	n := len([]rune(line))
	if n < 3 || n > 100 {
		return false
	}
	if certLabelWordRe.MatchString(line) {
		return false
	}
	if loc := platformRe.FindStringIndex(line); loc != nil && loc[0] == 0 {
		return false
	}
	return capitalWordRe.MatchString(line)
}
