package prompts

// SystemPrompts contains the system-level instructions per operation.
type SystemPrompts struct {
	Extract string `json:"extract,omitempty"`
	Tailor  string `json:"tailor,omitempty"`
	JobSpec string `json:"jobSpec,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// UserPrompts contains text/template user prompts per operation.
type UserPrompts struct {
	Extract string `json:"extract,omitempty"`
	Tailor  string `json:"tailor,omitempty"`
	JobSpec string `json:"jobSpec,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// PromptConfig holds a full prompt set.
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// DefaultSystemPrompts provides the default system instructions.
var DefaultSystemPrompts = SystemPrompts{
	Extract: `You are a precise resume data extractor. Your only job is to copy information from the source document into the requested structure.

- Preserve the original wording verbatim
- Do NOT substitute synonyms, rephrase, summarize or embellish
- Do NOT invent information that is not present in the document
- Leave optional fields empty when the document does not contain them`,

	Tailor: `You are an expert resume writer with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every piece of information must be directly traceable to the source resume
- Optimize for relevance to the target role while keeping the resume ATS friendly`,

	JobSpec: `You are a recruitment analyst. Extract the structured requirements of a job description exactly as stated, without adding requirements that are not in the text.`,

	Summary: `You are a concise resume editor. You shorten professional summaries without changing their facts.`,
}

// DefaultUserPrompts provides the default user prompt templates.
var DefaultUserPrompts = UserPrompts{
	Extract: `Extract the resume below into JSON with the fields name, title, summary, contact (email, phone, location, website, github, linkedin), experience (title, company, duration, details), education (degree, institution, duration, note), certifications (name, issuer, date, id) and skills.

**Precision rules:**
1. Copy every bullet point into details exactly as written.
2. Keep job titles, company names, dates and degree names character for character.
3. Use empty arrays for sections that are missing. Never use null.
4. Respond with the JSON object only, without code fences or commentary.
{{if .Attached}}
The resume is attached as a PDF document.
{{else}}
**Resume:**
-----
{{.Content}}
-----
{{end}}`,

	Tailor: `Tailor the resume below for the target job.

**Tone:** {{.Tone}}. {{.ToneGuideline}}

**Rules (apply in order):**
{{range $i, $rule := .Rules}}{{inc $i}}. {{$rule}}
{{end}}
**Original Resume (JSON):**
-----
{{.ResumeJSON}}
-----

**Target Job:**
-----
{{- if .JobSpec}}
Position: {{.JobSpec.PositionTitle}}
Required skills: {{join .JobSpec.RequiredSkills ", "}}
{{- if .JobSpec.YearsExperience}}
Years of experience: {{deref .JobSpec.YearsExperience}}
{{- end}}
{{- if .JobSpec.Responsibilities}}
Responsibilities: {{join .JobSpec.Responsibilities "; "}}
{{- end}}
{{- if .JobSpec.CompanyValues}}
Company values: {{join .JobSpec.CompanyValues "; "}}
{{- end}}
{{- end}}
{{.JobSpecText}}
-----
{{- if .ExtraPrompt}}

**Additional Instructions:**
{{.ExtraPrompt}}
{{- end}}`,

	JobSpec: `Extract the job description below into JSON with positionTitle, requiredSkills (1 to 50 short skill names), yearsExperience (integer, omit when not stated), responsibilities and companyValues.

**Job Description:**
-----
{{.Text}}
-----`,

	Summary: `Rewrite the professional summary below in at most {{.MaxLength}} characters. Keep every fact, drop filler words, and respond with the rewritten summary text only.

**Summary:**
-----
{{.Summary}}
-----`,
}

// DefaultPromptConfig returns the built-in prompt set.
func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}

// Merge returns c with every non-empty field of override applied.
func (c PromptConfig) Merge(override PromptConfig) PromptConfig {
	pick := func(base, o string) string {
		if o != "" {
			return o
		}
		return base
	}
	c.SystemPrompts = SystemPrompts{
		Extract: pick(c.SystemPrompts.Extract, override.SystemPrompts.Extract),
		Tailor:  pick(c.SystemPrompts.Tailor, override.SystemPrompts.Tailor),
		JobSpec: pick(c.SystemPrompts.JobSpec, override.SystemPrompts.JobSpec),
		Summary: pick(c.SystemPrompts.Summary, override.SystemPrompts.Summary),
	}
	c.UserPrompts = UserPrompts{
		Extract: pick(c.UserPrompts.Extract, override.UserPrompts.Extract),
		Tailor:  pick(c.UserPrompts.Tailor, override.UserPrompts.Tailor),
		JobSpec: pick(c.UserPrompts.JobSpec, override.UserPrompts.JobSpec),
		Summary: pick(c.UserPrompts.Summary, override.UserPrompts.Summary),
	}
	return c
}
