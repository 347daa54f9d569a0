// Package regexparser is the deterministic, AI-free resume segmenter used
// when model extraction is unavailable or fails.
package regexparser

import (
	"strings"
	"time"

	"resumeparser/internal/confidence"
	"resumeparser/internal/types"
)

// DefaultMaxConfidence keeps regex results below typical AI scores.
const DefaultMaxConfidence = 40

// SourceName is recorded in metadata for regex results.
const SourceName = "regex-fallback"

// Parser extracts resumes and job specs with fixed rules.
type Parser struct {
	maxConfidence int
	resumeScorer  confidence.Scorer[types.ParsedResume]
	jobSpecScorer confidence.Scorer[types.ParsedJobSpec]
	now           func() time.Time
}

// New returns a Parser whose scores never exceed maxConfidence.
func New(maxConfidence int) *Parser {
	if maxConfidence <= 0 || maxConfidence > 100 {
		maxConfidence = DefaultMaxConfidence
	}
	return &Parser{
		maxConfidence: maxConfidence,
		resumeScorer:  confidence.NewRegexScorer(maxConfidence),
		jobSpecScorer: confidence.NewJobSpecScorer(maxConfidence),
		now:           time.Now,
	}
}

// MaxConfidence returns the configured ceiling.
func (p *Parser) MaxConfidence() int {
	return p.maxConfidence
}

// ParseWithRegex parses content with the default ceiling.
func ParseWithRegex(content string) types.ExtractionResult {
	return New(DefaultMaxConfidence).Parse(content)
}

// Parse never fails: degenerate input yields placeholder data with a low score.
func (p *Parser) Parse(content string) types.ExtractionResult {
	text := normalizeText(content)
	lines := strings.Split(text, "\n")

	name := extractName(lines)
	resume := types.ParsedResume{
		Name:           name,
		Title:          extractTitle(text),
		Summary:        extractSummary(text),
		Contact:        extractContact(text, name),
		Experience:     extractExperience(text),
		Education:      extractEducation(text),
		Certifications: extractCertifications(text),
		Skills:         extractSkills(text),
		Metadata: &types.Metadata{
			LastUpdated: p.now().UTC().Format(time.RFC3339),
			Version:     "1.0",
			Source:      SourceName,
		},
	}
	resume = resume.Normalize()

	return types.ExtractionResult{
		Data:       resume,
		Confidence: p.resumeScorer.Score(resume),
	}
}

func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\t", " ")
}
