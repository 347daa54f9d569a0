package types

import "slices"

// EnhancedParsedResume is the richer shape used by design mapping. It
// widens ParsedResume field by field rather than embedding it.
type EnhancedParsedResume struct {
	Name           string                    `json:"name"`
	Title          string                    `json:"title"`
	Summary        string                    `json:"summary,omitempty"`
	ProfileImage   string                    `json:"profileImage,omitempty"`
	Contact        Contact                   `json:"contact"`
	Experience     []EnhancedExperienceEntry `json:"experience"`
	Education      []EnhancedEducationEntry  `json:"education"`
	Certifications []CertificationEntry      `json:"certifications"`
	Skills         CategorizedSkills         `json:"skills"`
	CustomColors   map[string]string         `json:"customColors,omitempty"`
	Metadata       *Metadata                 `json:"metadata,omitempty"`
}

// CategorizedSkills splits skills by kind; All is the flat union.
type CategorizedSkills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Languages []string `json:"languages"`
	All       []string `json:"all"`
}

type EnhancedExperienceEntry struct {
	Title            string   `json:"title,omitempty"`
	Company          string   `json:"company,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	Details          []string `json:"details"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
	Metrics          []string `json:"metrics,omitempty"`
}

type EnhancedEducationEntry struct {
	Degree          string   `json:"degree"`
	Institution     string   `json:"institution"`
	Duration        string   `json:"duration,omitempty"`
	Note            string   `json:"note,omitempty"`
	Honors          []string `json:"honors,omitempty"`
	RelevantCourses []string `json:"relevantCourses,omitempty"`
}

// Enhance widens a ParsedResume. Skills land in All only, since the flat
// list carries no category information.
func Enhance(r ParsedResume) EnhancedParsedResume {
	r = r.Normalize()
	out := EnhancedParsedResume{
		Name:           r.Name,
		Title:          r.Title,
		Summary:        r.Summary,
		ProfileImage:   r.ProfileImage,
		Contact:        r.Contact,
		Experience:     make([]EnhancedExperienceEntry, 0, len(r.Experience)),
		Education:      make([]EnhancedEducationEntry, 0, len(r.Education)),
		Certifications: r.Certifications,
		Skills: CategorizedSkills{
			Technical: []string{},
			Soft:      []string{},
			Languages: []string{},
			All:       r.Skills,
		},
		CustomColors: r.CustomColors,
		Metadata:     r.Metadata,
	}
	for _, e := range r.Experience {
		out.Experience = append(out.Experience, EnhancedExperienceEntry{
			Title:    e.Title,
			Company:  e.Company,
			Duration: e.Duration,
			Details:  e.Details,
		})
	}
	for _, e := range r.Education {
		out.Education = append(out.Education, EnhancedEducationEntry{
			Degree:      e.Degree,
			Institution: e.Institution,
			Duration:    e.Duration,
			Note:        e.Note,
		})
	}
	return out
}

// Flatten narrows an EnhancedParsedResume back to a ParsedResume.
// Achievements are kept as details so no content is lost.
func (e EnhancedParsedResume) Flatten() ParsedResume {
	out := ParsedResume{
		Name:           e.Name,
		Title:          e.Title,
		Summary:        e.Summary,
		ProfileImage:   e.ProfileImage,
		Contact:        e.Contact,
		Certifications: slices.Clone(e.Certifications),
		CustomColors:   e.CustomColors,
		Metadata:       e.Metadata,
	}

	skills := e.Skills.All
	if len(skills) == 0 {
		skills = slices.Concat(e.Skills.Technical, e.Skills.Soft, e.Skills.Languages)
	}
	out.Skills = slices.Clone(skills)

	for _, x := range e.Experience {
		details := slices.Clone(x.Details)
		for _, a := range x.Achievements {
			if !slices.Contains(details, a) {
				details = append(details, a)
			}
		}
		out.Experience = append(out.Experience, ExperienceEntry{
			Title:    x.Title,
			Company:  x.Company,
			Duration: x.Duration,
			Details:  details,
		})
	}
	for _, x := range e.Education {
		out.Education = append(out.Education, EducationEntry{
			Degree:      x.Degree,
			Institution: x.Institution,
			Duration:    x.Duration,
			Note:        x.Note,
		})
	}
	return out.Normalize()
}
