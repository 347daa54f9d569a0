package types

import "strings"

// Tone selects the language register used when tailoring.
type Tone string

const (
	ToneFormal   Tone = "Formal"
	ToneNeutral  Tone = "Neutral"
	ToneCreative Tone = "Creative"
)

// DefaultTone is used when the user does not choose one.
const DefaultTone = ToneNeutral

// JobSpecSource records how the job specification was supplied.
type JobSpecSource string

const (
	JobSpecSourceUpload JobSpecSource = "upload"
	JobSpecSourcePasted JobSpecSource = "pasted"
)

// MaxJobSpecTextLength is the pasted job-spec limit in characters.
const MaxJobSpecTextLength = 4000

// UserAdditionalContext carries the user's tailoring controls. Exactly one
// of JobSpecText and JobSpecFileURL must be set.
type UserAdditionalContext struct {
	JobSpecSource  JobSpecSource `json:"jobSpecSource" validate:"required,oneof=upload pasted"`
	JobSpecText    string        `json:"jobSpecText,omitempty" validate:"max=4000"`
	JobSpecFileURL string        `json:"jobSpecFileUrl,omitempty"`
	Tone           Tone          `json:"tone" validate:"required,oneof=Formal Neutral Creative"`
	ExtraPrompt    string        `json:"extraPrompt,omitempty" validate:"max=2000"`
}

// WithDefaults fills in the tone and source when they are omitted.
func (c UserAdditionalContext) WithDefaults() UserAdditionalContext {
	if c.Tone == "" {
		c.Tone = DefaultTone
	}
	if c.JobSpecSource == "" {
		if strings.TrimSpace(c.JobSpecFileURL) != "" {
			c.JobSpecSource = JobSpecSourceUpload
		} else {
			c.JobSpecSource = JobSpecSourcePasted
		}
	}
	return c
}

// Customizations are user overrides applied after extraction.
type Customizations struct {
	ProfileImage string            `json:"profileImage,omitempty"`
	CustomColors map[string]string `json:"customColors,omitempty"`
}
