// Package confidence turns extraction results into heuristic 0-100 scores.
// Weights are plain data so they can be inspected and tested on their own.
package confidence

import (
	"math"
	"strings"

	"resumeparser/internal/types"
)

// AICap is the ceiling applied to every AI-path score.
const AICap = 95

// Weights maps a signal name to the points it contributes at full credit.
type Weights map[string]float64

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Check returns the fraction of credit, in [0,1], that v earns for a signal.
type Check[T any] func(v T) float64

// Scorer combines weights with per-signal checks and a ceiling.
type Scorer[T any] struct {
	Weights Weights
	Checks  map[string]Check[T]
	Cap     int
}

// Score returns the capped, rounded score for v.
func (s Scorer[T]) Score(v T) int {
	var total float64
	for name, weight := range s.Weights {
		check, ok := s.Checks[name]
		if !ok {
			continue
		}
		total += weight * clamp01(check(v))
	}
	score := int(math.Round(total))
	if score > s.Cap {
		score = s.Cap
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Breakdown reports the points each signal contributed, before capping.
func (s Scorer[T]) Breakdown(v T) map[string]float64 {
	out := make(map[string]float64, len(s.Weights))
	for name, weight := range s.Weights {
		if check, ok := s.Checks[name]; ok {
			out[name] = weight * clamp01(check(v))
		}
	}
	return out
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func boolCredit(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// RegexWeights are the point values awarded by the regex parser. They sum
// past 100 on purpose; the cap decides the final ceiling.
var RegexWeights = Weights{
	"name":           20,
	"title":          15,
	"contact":        20,
	"summary":        10,
	"experience":     20,
	"education":      10,
	"certifications": 5,
	"skills":         10,
}

// AIResumeWeights apply to schema-constrained resume extraction.
var AIResumeWeights = Weights{
	"name":       25,
	"title":      20,
	"experience": 30,
	"skills":     15,
	"contact":    10,
}

// GeneratorWeights apply to the generator's free-text extraction.
var GeneratorWeights = Weights{
	"name":       25,
	"title":      25,
	"experience": 30,
	"skills":     10,
	"contact":    10,
}

// JobSpecWeights apply to job-spec extraction on either path.
var JobSpecWeights = Weights{
	"positionTitle":    25,
	"requiredSkills":   35,
	"yearsExperience":  15,
	"responsibilities": 15,
	"companyValues":    10,
}

var regexResumeChecks = map[string]Check[types.ParsedResume]{
	"name":           func(r types.ParsedResume) float64 { return boolCredit(r.HasRealName()) },
	"title":          func(r types.ParsedResume) float64 { return boolCredit(strings.TrimSpace(r.Title) != "") },
	"contact":        func(r types.ParsedResume) float64 { return boolCredit(!r.Contact.IsEmpty()) },
	"summary":        func(r types.ParsedResume) float64 { return boolCredit(len(strings.TrimSpace(r.Summary)) > 20) },
	"experience":     func(r types.ParsedResume) float64 { return boolCredit(len(r.Experience) > 0) },
	"education":      func(r types.ParsedResume) float64 { return boolCredit(len(r.Education) > 0) },
	"certifications": func(r types.ParsedResume) float64 { return boolCredit(len(r.Certifications) > 0) },
	"skills":         func(r types.ParsedResume) float64 { return boolCredit(r.HasRealSkills()) },
}

var aiResumeChecks = map[string]Check[types.ParsedResume]{
	"name":       func(r types.ParsedResume) float64 { return boolCredit(r.HasRealName()) },
	"title":      func(r types.ParsedResume) float64 { return boolCredit(strings.TrimSpace(r.Title) != "") },
	"experience": ExperienceCompleteness,
	"skills":     func(r types.ParsedResume) float64 { return boolCredit(r.HasRealSkills()) },
	"contact":    func(r types.ParsedResume) float64 { return boolCredit(!r.Contact.IsEmpty()) },
}

var jobSpecChecks = map[string]Check[types.ParsedJobSpec]{
	"positionTitle":    func(j types.ParsedJobSpec) float64 { return boolCredit(nonTrivialTitle(j.PositionTitle)) },
	"requiredSkills":   func(j types.ParsedJobSpec) float64 { return boolCredit(len(j.RequiredSkills) > 0) },
	"yearsExperience":  func(j types.ParsedJobSpec) float64 { return boolCredit(j.YearsExperience != nil) },
	"responsibilities": func(j types.ParsedJobSpec) float64 { return boolCredit(len(j.Responsibilities) > 0) },
	"companyValues":    func(j types.ParsedJobSpec) float64 { return boolCredit(len(j.CompanyValues) > 0) },
}

// NewRegexScorer scores regex resume extraction, capped at maxConfidence.
func NewRegexScorer(maxConfidence int) Scorer[types.ParsedResume] {
	return Scorer[types.ParsedResume]{Weights: RegexWeights, Checks: regexResumeChecks, Cap: maxConfidence}
}

// NewAIResumeScorer scores schema-constrained resume extraction.
func NewAIResumeScorer() Scorer[types.ParsedResume] {
	return Scorer[types.ParsedResume]{Weights: AIResumeWeights, Checks: aiResumeChecks, Cap: AICap}
}

// NewGeneratorScorer scores the generator's extraction.
func NewGeneratorScorer() Scorer[types.ParsedResume] {
	return Scorer[types.ParsedResume]{Weights: GeneratorWeights, Checks: aiResumeChecks, Cap: AICap}
}

// NewJobSpecScorer scores job-spec extraction with the given ceiling.
func NewJobSpecScorer(maxConfidence int) Scorer[types.ParsedJobSpec] {
	return Scorer[types.ParsedJobSpec]{Weights: JobSpecWeights, Checks: jobSpecChecks, Cap: maxConfidence}
}

// ExperienceCompleteness averages, over all entries, the share of title,
// company, duration and details that are filled in.
func ExperienceCompleteness(r types.ParsedResume) float64 {
	if len(r.Experience) == 0 {
		return 0
	}
	var sum float64
	for _, e := range r.Experience {
		filled := 0
		if strings.TrimSpace(e.Title) != "" {
			filled++
		}
		if strings.TrimSpace(e.Company) != "" {
			filled++
		}
		if strings.TrimSpace(e.Duration) != "" {
			filled++
		}
		if len(e.Details) > 0 {
			filled++
		}
		sum += float64(filled) / 4
	}
	return sum / float64(len(r.Experience))
}

var trivialTitles = map[string]bool{
	"":         true,
	"unknown":  true,
	"n/a":      true,
	"position": true,
	"job":      true,
	"role":     true,
}

func nonTrivialTitle(title string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	return len(t) >= 3 && !trivialTitles[t]
}
