package regexparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

func TestExtractEducationMultipleRecords(t *testing.T) {
	text := `EDUCATION
Master of Science, University of Toronto, 2017 - 2019
Thesis on distributed consensus
Bachelor of Engineering
Delhi Institute of Technology
2013 - 2017`

	got := extractEducation(text)

	require.Len(t, got, 2)
	assert.Equal(t, types.EducationEntry{
		Degree:      "Master of Science",
		Institution: "University of Toronto",
		Duration:    "2017 - 2019",
		Note:        "Thesis on distributed consensus",
	}, got[0])
	assert.Equal(t, "Bachelor of Engineering", got[1].Degree)
	assert.Equal(t, "Delhi Institute of Technology", got[1].Institution)
	assert.Equal(t, "2013 - 2017", got[1].Duration)
}

func TestExtractEducationDefaults(t *testing.T) {
	got := extractEducation("EDUCATION\nHarvard University")
	require.Len(t, got, 1)
	assert.Equal(t, "Harvard University", got[0].Institution)
	assert.Equal(t, types.UnknownDegree, got[0].Degree)
	assert.Equal(t, types.UnknownDuration, got[0].Duration)

	assert.Empty(t, extractEducation("no education section here"))
}

func TestExtractCertifications(t *testing.T) {
	text := `CERTIFICATIONS
AWS Solutions Architect by Amazon Web Services
Issued: March 2022
Credential ID: AWS-42
Issuer: Someone Else
Google Data Analytics
Coursera
from Google
Course: ignored label line`

	got := extractCertifications(text)

	require.Len(t, got, 2)
	assert.Equal(t, types.CertificationEntry{
		Name: "AWS Solutions Architect", Issuer: "Amazon Web Services", Date: "March 2022", ID: "AWS-42",
	}, got[0])
	assert.Equal(t, types.CertificationEntry{Name: "Google Data Analytics", Issuer: "Coursera"}, got[1])
}

func TestIsCertTitle(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Certified Scrum Master", true},
		{"ab", false},
		{"Issuer: Acme", false},
		{"Credential ID: 123", false},
		{"Coursera Machine Learning", false},
		{"all lowercase title", false},
		{"CKA 2021", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, isCertTitle(tt.line))
		})
	}
}

func TestExtractSkillsSplitting(t *testing.T) {
	got := extractSkills("TECHNICAL SKILLS\nLanguages: Go, Rust\n• Docker • Kubernetes\n* Terraform | Go")
	assert.Equal(t, []string{"Go", "Rust", "Docker", "Kubernetes", "Terraform"}, got)

	assert.Equal(t, []string{types.SkillsNotFound}, extractSkills("nothing"))
}

func TestExtractNameAndTitle(t *testing.T) {
	assert.Equal(t, "Maria Garcia", extractName([]string{"", "SUMMARY", "Maria Garcia", "ALAN TURING"}))
	assert.Equal(t, "Doe, Jane", extractName([]string{"Doe, Jane"}))
	assert.Equal(t, types.UnknownName, extractName([]string{"email: x@y.z", "123 Main St"}))

	assert.Equal(t, "Staff Engineer", extractTitle("Name\ncurrent role:   Staff Engineer  \n"))
	assert.Empty(t, extractTitle("Engineer"))
}

func TestFindPhoneDigitBounds(t *testing.T) {
	assert.Equal(t, "555-123-4567", findPhone("call 555-123-4567 today"))
	assert.Empty(t, findPhone("2019 - 2021"))
	assert.Empty(t, findPhone("1234567890123456789"))
}

func TestCompiledSectionsMatchExtractSectionContent(t *testing.T) {
	text := `Jane Doe
SUMMARY
Backend engineer.
Work Experience:
Engineer at Acme
TECHNICAL SKILLS
Go, SQL
Education
BSc, MIT
Certificates
CKA
Projects
resumeparser`

	require.Len(t, compiledSections, len(sectionSynonyms))
	for section, syns := range sectionSynonyms {
		t.Run(string(section), func(t *testing.T) {
			want, wantOK := extractSectionContent(text, syns, endHeadersFor(section))
			got, ok := sectionBody(text, section)
			assert.Equal(t, wantOK, ok)
			assert.Equal(t, want, got)
		})
	}

	body, ok := sectionBody(text, SectionSkills)
	require.True(t, ok)
	assert.Equal(t, "Go, SQL", body)
	assert.Equal(t, "Jane Doe\n", preamble(text))

	_, ok = sectionBody(text, Section("UNKNOWN"))
	assert.False(t, ok)
}
