package regexparser

import (
	"regexp"
	"strings"

	"resumeparser/internal/types"
)

var (
	companyLabelRe    = regexp.MustCompile(`(?i)^[ \t]*Company:[ \t]*(.*)$`)
	inlineRoleRe      = regexp.MustCompile(`(?i)^(.*?)[\s|,;\-–]*\bRole:[ \t]*(.*)$`)
	roleLabelRe       = regexp.MustCompile(`(?i)^[ \t]*(?:Role|Title|Position):[ \t]*(.+)$`)
	dateLabelRe       = regexp.MustCompile(`(?i)^[ \t]*(?:Date|Dates|Duration|Period):[ \t]*(.+)$`)
	jobTitleKeywordRe = regexp.MustCompile(`(?i)\b(?:engineer|developer|manager|designer|consultant|specialist|analyst|lead|ui[/-]?ux|development)\b`)
	bulletRe          = regexp.MustCompile(`^[ \t]*[*•\-][ \t]*(.*)$`)
	sectionLabelRe    = regexp.MustCompile(`(?i)^[ \t]*(?:key[ \t]+)?(?:responsibilities|achievements|accomplishments|description|duties|highlights)[ \t]*:?[ \t]*$`)

	dateToken   = `(?:(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})`
	dateRangeRe = regexp.MustCompile(`(?i)` + dateToken + `\s*(?:-|–|—|to)\s*(?:` + dateToken + `|Present|Current|Now)`)
)

// expState is the position of the experience scanner within a job block.
type expState int

const (
	// AwaitingHeader: no entry is open.
	AwaitingHeader expState = iota
	// InLabelledFields: an entry is open and no bullet is being accumulated.
	InLabelledFields
	// AccumulatingBullet: bare lines extend the last detail.
	AccumulatingBullet
)

func (s expState) String() string {
	switch s {
	case AwaitingHeader:
		return "AwaitingHeader"
	case InLabelledFields:
		return "InLabelledFields"
	case AccumulatingBullet:
		return "AccumulatingBullet"
	default:
		return "unknown"
	}
}

// experienceScanner turns the experience section into entries, one line at a time.
type experienceScanner struct {
	state   expState
	current types.ExperienceEntry
	entries []types.ExperienceEntry
}

func extractExperience(text string) []types.ExperienceEntry {
	body, ok := sectionBody(text, SectionExperience)
	if !ok {
		return []types.ExperienceEntry{}
	}
	s := &experienceScanner{}
	for _, line := range strings.Split(body, "\n") {
		s.feed(line)
	}
	s.flush()
	if s.entries == nil {
		return []types.ExperienceEntry{}
	}
	return s.entries
}

// isBlockStart reports whether a line opens a new job: a Company: label, or
// a non-bullet line holding a comma and a job-title keyword.
func isBlockStart(line string) bool {
	if companyLabelRe.MatchString(line) {
		return true
	}
	if bulletRe.MatchString(line) || roleLabelRe.MatchString(line) || dateLabelRe.MatchString(line) {
		return false
	}
	return strings.Contains(line, ",") && jobTitleKeywordRe.MatchString(line)
}

func (s *experienceScanner) feed(raw string) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return
	}

	if isBlockStart(line) {
		// labelled fields seen before the Company: line belong to the same job
		if s.state == AwaitingHeader || s.current.Company != "" || len(s.current.Details) > 0 {
			s.flush()
		}
		s.header(line)
		s.state = InLabelledFields
		return
	}

	if s.state == AwaitingHeader {
		s.current = types.ExperienceEntry{}
		s.state = InLabelledFields
	}

	switch {
	case roleLabelRe.MatchString(line):
		s.current.Title = strings.TrimSpace(roleLabelRe.FindStringSubmatch(line)[1])
		s.state = InLabelledFields
	case dateLabelRe.MatchString(line):
		s.current.Duration = strings.TrimSpace(dateLabelRe.FindStringSubmatch(line)[1])
		s.state = InLabelledFields
	case sectionLabelRe.MatchString(line):
		s.state = InLabelledFields
	case bulletRe.MatchString(line):
		detail := strings.TrimSpace(bulletRe.FindStringSubmatch(line)[1])
		if detail != "" {
			s.current.Details = append(s.current.Details, detail)
			s.state = AccumulatingBullet
		}
	case dateRangeRe.MatchString(line) && s.current.Duration == "":
		s.current.Duration = dateRangeRe.FindString(line)
	case s.state == AccumulatingBullet:
		last := len(s.current.Details) - 1
		s.current.Details[last] = s.current.Details[last] + " " + line
	default:
		// a bare line before any bullet opens its own detail
		s.current.Details = append(s.current.Details, line)
		s.state = AccumulatingBullet
	}
}

// header parses the first line of a block into company and title.
func (s *experienceScanner) header(line string) {
	if m := companyLabelRe.FindStringSubmatch(line); m != nil {
		rest := strings.TrimSpace(m[1])
		if rm := inlineRoleRe.FindStringSubmatch(rest); rm != nil {
			rest = strings.TrimSpace(rm[1])
			if title := strings.TrimSpace(rm[2]); title != "" {
				s.current.Title = title
			}
		}
		if d := dateRangeRe.FindString(rest); d != "" {
			s.current.Duration = d
			rest = strings.TrimSpace(strings.Replace(rest, d, "", 1))
		}
		s.current.Company = strings.Trim(rest, " \t|,;()-–")
		return
	}

	if d := dateRangeRe.FindString(line); d != "" {
		if s.current.Duration == "" {
			s.current.Duration = d
		}
		line = strings.TrimSpace(strings.Replace(line, d, "", 1))
	}
	title, company, _ := strings.Cut(line, ",")
	if s.current.Title == "" {
		s.current.Title = strings.Trim(title, " \t|;()-–")
	}
	s.current.Company = strings.Trim(company, " \t|,;()-–")
}

// flush emits the open entry if it carries anything useful.
func (s *experienceScanner) flush() {
	e := s.current
	s.current = types.ExperienceEntry{}
	s.state = AwaitingHeader

	details := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if d = strings.TrimSpace(d); d != "" {
			details = append(details, d)
		}
	}
	e.Details = details
	if e.Company == "" && e.Title == "" && len(e.Details) == 0 {
		return
	}
	s.entries = append(s.entries, e)
}
