package regexparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

const sampleResume = `JANE DOE
Current Role: Senior Backend Engineer
jane.doe@example.com | +1 (555) 123-4567 | San Francisco, USA
linkedin.com/in/janedoe | github.com/janedoe | https://janedoe.dev

SUMMARY
Backend engineer with ten years of experience
building distributed systems.

EXPERIENCE
Company: Acme Corp | Role: Senior Backend Engineer
Date: Jan 2020 - Present
Responsibilities:
* Designed event pipelines
  processing 2M events per day
* Led migration to Kubernetes
Software Developer, Globex
Mar 2016 - Dec 2019
- Built billing APIs

EDUCATION
Bachelor of Science in Computer Science
Stanford University
2012 - 2016

CERTIFICATIONS
Certified Kubernetes Administrator
Issuer: CNCF
Credential ID: ABC-123
Jan 2021
Machine Learning Specialization
Coursera

SKILLS
Go, Python, SQL | Kubernetes
- Terraform
`

func TestParseFullResume(t *testing.T) {
	res := ParseWithRegex(sampleResume)
	r := res.Data

	assert.Equal(t, "JANE DOE", r.Name)
	assert.Equal(t, "Senior Backend Engineer", r.Title)
	assert.Equal(t, "Backend engineer with ten years of experience building distributed systems.", r.Summary)

	assert.Equal(t, types.Contact{
		Email:    "jane.doe@example.com",
		Phone:    "+1 (555) 123-4567",
		Location: "San Francisco, USA",
		Website:  "https://janedoe.dev",
		GitHub:   "github.com/janedoe",
		LinkedIn: "linkedin.com/in/janedoe",
	}, r.Contact)

	require.Len(t, r.Experience, 2)
	assert.Equal(t, types.ExperienceEntry{
		Title:    "Senior Backend Engineer",
		Company:  "Acme Corp",
		Duration: "Jan 2020 - Present",
		Details:  []string{"Designed event pipelines processing 2M events per day", "Led migration to Kubernetes"},
	}, r.Experience[0])
	assert.Equal(t, types.ExperienceEntry{
		Title:    "Software Developer",
		Company:  "Globex",
		Duration: "Mar 2016 - Dec 2019",
		Details:  []string{"Built billing APIs"},
	}, r.Experience[1])

	require.Len(t, r.Education, 1)
	assert.Equal(t, types.EducationEntry{
		Degree:      "Bachelor of Science in Computer Science",
		Institution: "Stanford University",
		Duration:    "2012 - 2016",
	}, r.Education[0])

	require.Len(t, r.Certifications, 2)
	assert.Equal(t, types.CertificationEntry{
		Name: "Certified Kubernetes Administrator", Issuer: "CNCF", Date: "Jan 2021", ID: "ABC-123",
	}, r.Certifications[0])
	assert.Equal(t, "Machine Learning Specialization", r.Certifications[1].Name)
	assert.Equal(t, "Coursera", r.Certifications[1].Issuer)

	assert.Equal(t, []string{"Go", "Python", "SQL", "Kubernetes", "Terraform"}, r.Skills)

	assert.Equal(t, DefaultMaxConfidence, res.Confidence)
	require.NotNil(t, r.Metadata)
	assert.Equal(t, SourceName, r.Metadata.Source)
}

func TestParseLabelledExperienceBlock(t *testing.T) {
	input := "EXPERIENCE\nRole: Senior Engineer\nCompany: Acme Corp\nDate: Jan 2020 - Present\n* Built a thing\n* Shipped a feature\nEDUCATION\n..."

	r := ParseWithRegex(input).Data

	require.Len(t, r.Experience, 1)
	e := r.Experience[0]
	assert.Equal(t, "Senior Engineer", e.Title)
	assert.Equal(t, "Acme Corp", e.Company)
	assert.Contains(t, e.Duration, "Jan 2020 - Present")
	assert.Equal(t, []string{"Built a thing", "Shipped a feature"}, e.Details)

	// the section exists but nothing matched, so one placeholder is emitted
	require.Len(t, r.Education, 1)
	assert.Equal(t, types.UnknownInstitution, r.Education[0].Institution)
	assert.Equal(t, types.UnknownDegree, r.Education[0].Degree)
	assert.Equal(t, types.UnknownDuration, r.Education[0].Duration)
}

func TestParseUnstructuredText(t *testing.T) {
	res := ParseWithRegex("just some lowercase notes\nwith nothing useful in them")

	assert.Equal(t, types.UnknownName, res.Data.Name)
	assert.Empty(t, res.Data.Experience)
	assert.Equal(t, []string{types.SkillsNotFound}, res.Data.Skills)
	assert.Zero(t, res.Confidence)

	withEmail := ParseWithRegex("reach me at someone@example.org")
	assert.Equal(t, "someone@example.org", withEmail.Data.Contact.Email)
	assert.Equal(t, 20, withEmail.Confidence)
}

func TestParseArraysNeverNil(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t",
		"}{][",
		"EXPERIENCE",
		"EXPERIENCE\n*\n-\n•",
		"SKILLS:\n,,,|||",
		"CERTIFICATIONS\nIssuer: nobody\nCredential ID: 1",
		strings.Repeat("x", 10000),
		"\x00\x01\x02",
	}
	for _, in := range inputs {
		res := ParseWithRegex(in)
		r := res.Data
		assert.NotNil(t, r.Experience, "experience for %q", in)
		assert.NotNil(t, r.Education, "education for %q", in)
		assert.NotNil(t, r.Certifications, "certifications for %q", in)
		assert.NotNil(t, r.Skills, "skills for %q", in)
		for _, e := range r.Experience {
			assert.NotNil(t, e.Details)
		}
		assert.LessOrEqual(t, res.Confidence, DefaultMaxConfidence)
	}
}

func TestParseConfidenceCeiling(t *testing.T) {
	assert.Equal(t, 30, New(30).Parse(sampleResume).Confidence)
	assert.Equal(t, 100, New(100).Parse(sampleResume).Confidence)
	assert.Equal(t, DefaultMaxConfidence, New(0).MaxConfidence())
}

func TestExtractSectionContent(t *testing.T) {
	text := "Jane\nSkills: Go, SQL\nWORK EXPERIENCE\nCompany: Acme\nEducation:\nMIT"

	body, ok := extractSectionContent(text, sectionSynonyms[SectionSkills], endHeadersFor(SectionSkills))
	require.True(t, ok)
	assert.Equal(t, "Go, SQL", body)

	body, ok = sectionBody(text, SectionExperience)
	require.True(t, ok)
	assert.Equal(t, "Company: Acme", body)

	body, ok = sectionBody(text, SectionEducation)
	require.True(t, ok)
	assert.Equal(t, "MIT", body)

	_, ok = sectionBody(text, SectionCertifications)
	assert.False(t, ok)
}

func TestSectionHeaderMustStartLine(t *testing.T) {
	_, ok := sectionBody("I have broad experience in Go", SectionExperience)
	assert.False(t, ok)

	_, ok = sectionBody("Skills used daily: Go", SectionSkills)
	assert.False(t, ok)
}
