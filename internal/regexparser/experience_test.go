package regexparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/types"
)

func TestExperienceScannerStates(t *testing.T) {
	s := &experienceScanner{}
	assert.Equal(t, AwaitingHeader, s.state)

	s.feed("Company: Initech")
	assert.Equal(t, InLabelledFields, s.state)

	s.feed("* Wrote TPS reports")
	assert.Equal(t, AccumulatingBullet, s.state)

	s.feed("every single week")
	assert.Equal(t, AccumulatingBullet, s.state)

	s.feed("Date: 2018 - 2019")
	assert.Equal(t, InLabelledFields, s.state)

	s.flush()
	assert.Equal(t, AwaitingHeader, s.state)
	require.Len(t, s.entries, 1)
	assert.Equal(t, []string{"Wrote TPS reports every single week"}, s.entries[0].Details)
	assert.Equal(t, "2018 - 2019", s.entries[0].Duration)
}

func TestExperienceContinuationBeforeBullet(t *testing.T) {
	text := "EXPERIENCE\nCompany: Initech\nMaintained legacy systems\nacross three regions\n* Automated deploys"

	entries := extractExperience(text)

	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Maintained legacy systems across three regions", "Automated deploys"}, entries[0].Details)
}

func TestExperienceBlockSplitting(t *testing.T) {
	text := `WORK EXPERIENCE
Lead Designer, Hooli (2019 - 2021)
* Ran the design system
* Led redesign, development of onboarding
Company: Pied Piper
Role: UI-UX Specialist
- Prototyped compression UI
Company: Raviga`

	entries := extractExperience(text)

	require.Len(t, entries, 3)
	assert.Equal(t, types.ExperienceEntry{
		Title:    "Lead Designer",
		Company:  "Hooli",
		Duration: "2019 - 2021",
		Details:  []string{"Ran the design system", "Led redesign, development of onboarding"},
	}, entries[0])
	assert.Equal(t, "Pied Piper", entries[1].Company)
	assert.Equal(t, "UI-UX Specialist", entries[1].Title)
	assert.Equal(t, []string{"Prototyped compression UI"}, entries[1].Details)
	assert.Equal(t, "Raviga", entries[2].Company)
	assert.Empty(t, entries[2].Details)
}

func TestExperienceSkipsEmptyBlocks(t *testing.T) {
	entries := extractExperience("EXPERIENCE\nResponsibilities:\n*\nSKILLS\nGo")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
