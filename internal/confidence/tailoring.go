package confidence

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumeparser/internal/types"
)

// Job-match component weights.
const (
	skillMatchWeight      = 0.4
	experienceMatchWeight = 0.4
	titleMatchWeight      = 0.2
)

// TailoringWeights are the fractions awarded to a tailoring pass.
var TailoringWeights = Weights{
	"commentary":  0.3,
	"jobSpecText": 0.3,
	"tone":        0.2,
	"skills":      0.1,
	"experience":  0.1,
}

// TailoringInput gathers the signals used by TailoringConfidence.
type TailoringInput struct {
	Resume      types.ParsedResume
	JobSpecText string
	Tone        types.Tone
}

var tailoringChecks = map[string]Check[TailoringInput]{
	"commentary":  func(in TailoringInput) float64 { return boolCredit(in.Resume.Commentary() != "") },
	"jobSpecText": func(in TailoringInput) float64 { return boolCredit(len([]rune(strings.TrimSpace(in.JobSpecText))) > 50) },
	"tone":        func(in TailoringInput) float64 { return boolCredit(in.Tone != "" && in.Tone != types.DefaultTone) },
	"skills":      func(in TailoringInput) float64 { return boolCredit(len(in.Resume.Skills) > 0) },
	"experience":  func(in TailoringInput) float64 { return boolCredit(len(in.Resume.Experience) > 0) },
}

// TailoringConfidence returns a 0-1 score for a tailoring pass.
func TailoringConfidence(in TailoringInput) float64 {
	var total float64
	for name, weight := range TailoringWeights {
		total += weight * clamp01(tailoringChecks[name](in))
	}
	return round2(math.Min(total, 1))
}

// MatchBreakdown exposes the individual job-match components.
type MatchBreakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Title      float64 `json:"title"`
	Total      float64 `json:"total"`
}

var wordSplitter = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)

// JobMatch scores how well a resume fits a job description on a 0-1 scale.
// spec may be nil when job-spec analysis produced nothing.
func JobMatch(resume types.ParsedResume, jobSpecText string, spec *types.ParsedJobSpec) MatchBreakdown {
	haystack := strings.ToLower(jobSpecText)
	if spec != nil {
		haystack += "\n" + strings.ToLower(spec.PositionTitle)
		haystack += "\n" + strings.ToLower(strings.Join(spec.RequiredSkills, "\n"))
	}

	var b MatchBreakdown
	b.Skills = math.Min(skillOverlap(resume.Skills, haystack)*skillMatchWeight, skillMatchWeight)
	b.Experience = math.Min(experienceOverlap(resume.Experience, jobSpecText)*experienceMatchWeight, experienceMatchWeight)
	if titleMatches(resume.Title, haystack, spec) {
		b.Title = titleMatchWeight
	}
	b.Total = round2(math.Min(b.Skills+b.Experience+b.Title, 1))
	return b
}

// JobMatchScore is JobMatch(...).Total.
func JobMatchScore(resume types.ParsedResume, jobSpecText string, spec *types.ParsedJobSpec) float64 {
	return JobMatch(resume, jobSpecText, spec).Total
}

func skillOverlap(skills []string, haystack string) float64 {
	var considered, matched int
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == strings.ToLower(types.SkillsNotFound) {
			continue
		}
		considered++
		if containsTerm(haystack, s) {
			matched++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(matched) / float64(considered)
}

// experienceOverlap returns the share of job-text keywords (longer than
// three characters) that appear in any experience detail.
func experienceOverlap(entries []types.ExperienceEntry, jobSpecText string) float64 {
	keywords := keywordSet(jobSpecText)
	if len(keywords) == 0 {
		return 0
	}
	var sb strings.Builder
	for _, e := range entries {
		for _, d := range e.Details {
			sb.WriteString(strings.ToLower(d))
			sb.WriteByte('\n')
		}
	}
	details := sb.String()
	if details == "" {
		return 0
	}
	matched := 0
	for _, k := range keywords {
		if containsTerm(details, k) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func keywordSet(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wordSplitter.Split(strings.ToLower(text), -1) {
		if len([]rune(w)) <= 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func titleMatches(title, haystack string, spec *types.ParsedJobSpec) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return false
	}
	if containsTerm(haystack, t) {
		return true
	}
	if spec != nil {
		pos := strings.ToLower(strings.TrimSpace(spec.PositionTitle))
		return pos != "" && containsTerm(t, pos)
	}
	return false
}

// containsTerm reports whether term occurs in text as a whole term: the
// runes on either side must not be letters, digits, '+' or '#', so "c"
// does not match inside "react" and "c" does not match "c++".
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isTermRune(before)) && (end == len(text) || !isTermRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isTermRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
