package types

import "strings"

// MaxRequiredSkills bounds ParsedJobSpec.RequiredSkills.
const MaxRequiredSkills = 50

// ParsedJobSpec is the normalized shape of a target job description.
type ParsedJobSpec struct {
	PositionTitle    string   `json:"positionTitle" validate:"required"`
	RequiredSkills   []string `json:"requiredSkills" validate:"min=1,max=50,dive,required"`
	YearsExperience  *int     `json:"yearsExperience,omitempty" validate:"omitempty,min=0,max=60"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	CompanyValues    []string `json:"companyValues,omitempty"`
}

// JobSpecExtraction is the job-spec counterpart of ExtractionResult.
type JobSpecExtraction = Extraction[ParsedJobSpec]

// Normalize trims entries, drops blanks and duplicates, and caps the skill list.
func (j ParsedJobSpec) Normalize() ParsedJobSpec {
	out := j
	out.PositionTitle = strings.TrimSpace(j.PositionTitle)
	out.RequiredSkills = dedupeTrimmed(j.RequiredSkills)
	if len(out.RequiredSkills) > MaxRequiredSkills {
		out.RequiredSkills = out.RequiredSkills[:MaxRequiredSkills]
	}
	out.Responsibilities = dedupeTrimmed(j.Responsibilities)
	out.CompanyValues = dedupeTrimmed(j.CompanyValues)
	if j.YearsExperience != nil {
		years := *j.YearsExperience
		out.YearsExperience = &years
	}
	return out
}

// Keywords returns the required skills lowercased for matching.
func (j ParsedJobSpec) Keywords() []string {
	var out []string
	for _, s := range j.RequiredSkills {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func dedupeTrimmed(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
