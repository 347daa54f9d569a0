package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

func sampleResume() types.ParsedResume {
	return types.ParsedResume{
		Name:       "Jane Doe",
		Title:      "Backend Engineer",
		Experience: []types.ExperienceEntry{{Title: "Engineer", Company: "Acme", Details: []string{"Built APIs"}}},
		Skills:     []string{"Go", "SQL"},
		Metadata:   &types.Metadata{Source: "ai", AICommentary: "internal"},
	}
}

func TestBuildTailorPromptTones(t *testing.T) {
	tests := []struct {
		tone types.Tone
		want string
	}{
		{types.ToneFormal, "conservative"},
		{types.ToneNeutral, "balanced"},
		{types.ToneCreative, "personality"},
		{types.Tone("Loud"), "balanced"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tone), func(t *testing.T) {
			out, err := BuildTailorPrompt(TailorPromptInput{Resume: sampleResume(), JobSpecText: "Go developer", Tone: tt.tone})
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestBuildTailorPromptEmbedsInputs(t *testing.T) {
	years := 5
	spec := &types.ParsedJobSpec{
		PositionTitle:    "Senior Go Engineer",
		RequiredSkills:   []string{"Go", "Kubernetes"},
		YearsExperience:  &years,
		Responsibilities: []string{"Own services"},
	}
	out, err := BuildTailorPrompt(TailorPromptInput{
		Resume:      sampleResume(),
		JobSpec:     spec,
		JobSpecText: "We are hiring a Go engineer.",
		Tone:        types.ToneFormal,
		ExtraPrompt: "Emphasize mentoring.",
	})
	require.NoError(t, err)

	assert.Contains(t, out, `"name": "Jane Doe"`)
	assert.Contains(t, out, `"details": [`)
	assert.NotContains(t, out, "internal", "metadata must not be embedded")
	assert.Contains(t, out, "Position: Senior Go Engineer")
	assert.Contains(t, out, "Required skills: Go, Kubernetes")
	assert.Contains(t, out, "Years of experience: 5")
	assert.Contains(t, out, "Responsibilities: Own services")
	assert.NotContains(t, out, "Company values:")
	assert.Contains(t, out, "We are hiring a Go engineer.")
	assert.Contains(t, out, "Emphasize mentoring.")
}

func TestTailoringRulesOrdered(t *testing.T) {
	out, err := BuildTailorPrompt(TailorPromptInput{Resume: sampleResume(), JobSpecText: "x"})
	require.NoError(t, err)

	last := -1
	for i, rule := range TailoringRules {
		idx := strings.Index(out, rule)
		require.GreaterOrEqual(t, idx, 0, "rule %d missing", i+1)
		assert.Greater(t, idx, last)
		last = idx
	}
	assert.Contains(t, out, "1. Preserve all factual information")
	assert.NotContains(t, out, "Additional Instructions")
}

func TestExtractionPrompt(t *testing.T) {
	b := NewBuilder(PromptConfig{})

	text, err := b.Extraction(types.TextInput("cv.txt", "JANE DOE\nSKILLS\nGo"))
	require.NoError(t, err)
	assert.Contains(t, text.User, "JANE DOE\nSKILLS\nGo")
	assert.Contains(t, text.System, "verbatim")
	assert.Contains(t, text.System, "synonyms")

	pdf, err := b.Extraction(types.PDFInput("cv.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)
	assert.Contains(t, pdf.User, "attached as a PDF")
	assert.NotContains(t, pdf.User, types.PDFContentMarker)
}

func TestJobSpecAndSummaryPrompts(t *testing.T) {
	b := NewBuilder(PromptConfig{})

	js, err := b.JobSpec("  React developer needed  ")
	require.NoError(t, err)
	assert.Contains(t, js.User, "-----\nReact developer needed\n-----")

	sum, err := b.Summary("Long summary", 120)
	require.NoError(t, err)
	assert.Contains(t, sum.User, "at most 120 characters")
	assert.Contains(t, sum.User, "Long summary")
}

func TestBuilderOverrides(t *testing.T) {
	b := NewBuilder(PromptConfig{
		SystemPrompts: SystemPrompts{Summary: "custom system"},
		UserPrompts:   UserPrompts{Summary: "Shorten to {{.MaxLength}}: {{.Summary}}"},
	})

	p, err := b.Summary("abc", 10)
	require.NoError(t, err)
	assert.Equal(t, Prompt{System: "custom system", User: "Shorten to 10: abc"}, p)

	// untouched operations keep their defaults
	js, err := b.JobSpec("x")
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemPrompts.JobSpec, js.System)
}

func TestBuilderInvalidTemplate(t *testing.T) {
	b := NewBuilder(PromptConfig{UserPrompts: UserPrompts{Tailor: "{{.Broken"}})
	_, err := b.Tailor(TailorPromptInput{Resume: sampleResume()})
	assert.Error(t, err)
}
