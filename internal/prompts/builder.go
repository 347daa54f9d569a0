// Package prompts builds the instruction text sent to the model for
// extraction, tailoring, job-spec analysis and summary rewriting.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"resumeparser/internal/types"
)

// Prompt is a system instruction plus the user message.
type Prompt struct {
	System string
	User   string
}

// toneGuidelines maps each tone to its language guideline.
var toneGuidelines = map[types.Tone]string{
	types.ToneFormal:   "Use conservative, professional language with no casual expressions.",
	types.ToneNeutral:  "Use balanced language that is clear and concise.",
	types.ToneCreative: "Use dynamic, energetic language that shows personality while staying professional.",
}

// TailoringRules are applied by the model in this order.
var TailoringRules = []string{
	"Preserve all factual information exactly: dates, company names, job titles, institutions and education.",
	"Optimize experience bullet points for relevance to the target job, reordering or rewording only what already exists.",
	"Inject keywords from the job specification naturally, and only where the resume already supports them.",
	"Maintain a simple ATS-parseable structure with no tables, graphics or special characters.",
	"Return output in the exact same JSON schema as the original resume, with no surrounding prose or code fences.",
	"Explain the changes you made in metadata.aiCommentary.",
}

// ToneGuideline returns the guideline for tone, defaulting to neutral.
func ToneGuideline(tone types.Tone) string {
	if g, ok := toneGuidelines[tone]; ok {
		return g
	}
	return toneGuidelines[types.DefaultTone]
}

// TailorPromptInput is the data embedded in a tailoring prompt.
type TailorPromptInput struct {
	Resume      types.ParsedResume
	JobSpec     *types.ParsedJobSpec
	JobSpecText string
	Tone        types.Tone
	ExtraPrompt string
}

// Builder renders prompts from a PromptConfig.
type Builder struct {
	config PromptConfig

	once      sync.Once
	templates map[string]*template.Template
	parseErr  error
}

// NewBuilder returns a Builder over cfg, with empty fields taken from the
// defaults.
func NewBuilder(cfg PromptConfig) *Builder {
	return &Builder{config: DefaultPromptConfig().Merge(cfg)}
}

var defaultBuilder = NewBuilder(PromptConfig{})

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

func (b *Builder) parse() error {
	b.once.Do(func() {
		b.templates = make(map[string]*template.Template)
		for name, text := range map[string]string{
			"extract": b.config.UserPrompts.Extract,
			"tailor":  b.config.UserPrompts.Tailor,
			"jobspec": b.config.UserPrompts.JobSpec,
			"summary": b.config.UserPrompts.Summary,
		} {
			t, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
			if err != nil {
				b.parseErr = fmt.Errorf("failed to parse %s prompt template: %w", name, err)
				return
			}
			b.templates[name] = t
		}
	})
	return b.parseErr
}

func (b *Builder) render(name string, data any) (string, error) {
	if err := b.parse(); err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := b.templates[name].Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Extraction builds the precision prompt. When the input is a PDF the
// document travels as an attachment and is not embedded.
func (b *Builder) Extraction(input types.FileInput) (Prompt, error) {
	user, err := b.render("extract", struct {
		Attached bool
		Content  string
	}{Attached: input.IsPDF(), Content: input.Content})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: b.config.SystemPrompts.Extract, User: user}, nil
}

// Tailor builds the rewrite prompt.
func (b *Builder) Tailor(in TailorPromptInput) (Prompt, error) {
	resume := in.Resume.Normalize()
	// the model should not see or echo our bookkeeping
	resume.Metadata = nil
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("failed to encode resume for tailoring: %w", err)
	}

	tone := in.Tone
	if _, ok := toneGuidelines[tone]; !ok {
		tone = types.DefaultTone
	}

	user, err := b.render("tailor", struct {
		Tone          types.Tone
		ToneGuideline string
		Rules         []string
		ResumeJSON    string
		JobSpec       *types.ParsedJobSpec
		JobSpecText   string
		ExtraPrompt   string
	}{
		Tone:          tone,
		ToneGuideline: ToneGuideline(tone),
		Rules:         TailoringRules,
		ResumeJSON:    string(resumeJSON),
		JobSpec:       in.JobSpec,
		JobSpecText:   strings.TrimSpace(in.JobSpecText),
		ExtraPrompt:   strings.TrimSpace(in.ExtraPrompt),
	})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: b.config.SystemPrompts.Tailor, User: user}, nil
}

// JobSpec builds the job description extraction prompt.
func (b *Builder) JobSpec(text string) (Prompt, error) {
	user, err := b.render("jobspec", struct{ Text string }{Text: strings.TrimSpace(text)})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: b.config.SystemPrompts.JobSpec, User: user}, nil
}

// Summary builds the summary shortening prompt.
func (b *Builder) Summary(summary string, maxLength int) (Prompt, error) {
	user, err := b.render("summary", struct {
		Summary   string
		MaxLength int
	}{Summary: summary, MaxLength: maxLength})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: b.config.SystemPrompts.Summary, User: user}, nil
}

// BuildTailorPrompt renders the default tailoring prompt.
func BuildTailorPrompt(in TailorPromptInput) (string, error) {
	p, err := defaultBuilder.Tailor(in)
	if err != nil {
		return "", err
	}
	return p.User, nil
}
