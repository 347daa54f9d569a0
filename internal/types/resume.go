// Package types holds the data contracts exchanged by the extraction,
// tailoring and output layers.
package types

import (
	"maps"
	"slices"
	"strings"
)

// Sentinel values produced when a field cannot be recovered.
const (
	UnknownName        = "Unknown Name"
	UnknownInstitution = "Unknown Institution"
	UnknownDegree      = "Unknown Degree"
	UnknownDuration    = "Unknown Duration"
	SkillsNotFound     = "Skills not found."
)

// ParsedResume is the canonical structured resume.
type ParsedResume struct {
	Name           string               `json:"name"`
	Title          string               `json:"title"`
	Summary        string               `json:"summary,omitempty"`
	ProfileImage   string               `json:"profileImage,omitempty"`
	Contact        Contact              `json:"contact"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Certifications []CertificationEntry `json:"certifications"`
	Skills         []string             `json:"skills"`
	CustomColors   map[string]string    `json:"customColors,omitempty"`
	Metadata       *Metadata            `json:"metadata,omitempty"`
}

// Contact holds optional contact channels.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// IsEmpty reports whether no contact field is set.
func (c Contact) IsEmpty() bool {
	return c == Contact{}
}

// ExperienceEntry is a single job.
type ExperienceEntry struct {
	Title    string   `json:"title,omitempty"`
	Company  string   `json:"company,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Details  []string `json:"details"`
}

// EducationEntry is a single degree or course of study.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration,omitempty"`
	Note        string `json:"note,omitempty"`
}

// CertificationEntry is a single certification.
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date,omitempty"`
	ID     string `json:"id,omitempty"`
}

// Metadata describes how and when a resume was produced.
type Metadata struct {
	LastUpdated  string `json:"lastUpdated,omitempty"`
	Version      string `json:"version,omitempty"`
	Source       string `json:"source,omitempty"`
	AICommentary string `json:"aiCommentary,omitempty"`
}

// Normalize returns a deep copy of r whose list fields are never nil.
func (r ParsedResume) Normalize() ParsedResume {
	out := r.Clone()
	if out.Experience == nil {
		out.Experience = []ExperienceEntry{}
	}
	for i := range out.Experience {
		if out.Experience[i].Details == nil {
			out.Experience[i].Details = []string{}
		}
	}
	if out.Education == nil {
		out.Education = []EducationEntry{}
	}
	if out.Certifications == nil {
		out.Certifications = []CertificationEntry{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	return out
}

// Clone returns a deep copy of r.
func (r ParsedResume) Clone() ParsedResume {
	out := r
	if r.Experience != nil {
		out.Experience = make([]ExperienceEntry, len(r.Experience))
		for i, e := range r.Experience {
			e.Details = slices.Clone(e.Details)
			out.Experience[i] = e
		}
	}
	out.Education = slices.Clone(r.Education)
	out.Certifications = slices.Clone(r.Certifications)
	out.Skills = slices.Clone(r.Skills)
	out.CustomColors = maps.Clone(r.CustomColors)
	if r.Metadata != nil {
		md := *r.Metadata
		out.Metadata = &md
	}
	return out
}

// Commentary returns the AI commentary, if any.
func (r ParsedResume) Commentary() string {
	if r.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(r.Metadata.AICommentary)
}

// HasRealName reports whether the name is present and not the placeholder.
func (r ParsedResume) HasRealName() bool {
	name := strings.TrimSpace(r.Name)
	return name != "" && name != UnknownName
}

// HasRealSkills reports whether skills hold anything besides the sentinel.
func (r ParsedResume) HasRealSkills() bool {
	for _, s := range r.Skills {
		if s = strings.TrimSpace(s); s != "" && s != SkillsNotFound {
			return true
		}
	}
	return false
}

// ExtractionResult is the output of any resume parsing strategy.
type ExtractionResult = Extraction[ParsedResume]

// Extraction pairs extracted data with a 0-100 confidence.
type Extraction[T any] struct {
	Data       T   `json:"data"`
	Confidence int `json:"confidence"`
}
