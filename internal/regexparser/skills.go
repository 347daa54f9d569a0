package regexparser

import (
	"regexp"
	"strings"

	"resumeparser/internal/types"
)

var (
	skillSplitRe  = regexp.MustCompile(`[,\n|•;]+`)
	skillLabelRe  = regexp.MustCompile(`^[\p{L} &/]{2,30}:\s*`)
	skillBulletRe = regexp.MustCompile(`^[*\-–]+\s*`)
)

func extractSkills(text string) []string {
	body, ok := sectionBody(text, SectionSkills)
	if !ok {
		return []string{types.SkillsNotFound}
	}

	var skills []string
	seen := make(map[string]bool)
	for _, piece := range skillSplitRe.Split(body, -1) {
		piece = strings.TrimSpace(piece)
		piece = skillBulletRe.ReplaceAllString(piece, "")
		piece = strings.TrimSpace(skillLabelRe.ReplaceAllString(piece, ""))
		piece = strings.Trim(piece, " .")
		if piece == "" {
			continue
		}
		key := strings.ToLower(piece)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, piece)
	}
	if len(skills) == 0 {
		return []string{types.SkillsNotFound}
	}
	return skills
}
