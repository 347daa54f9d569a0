package processor

import (
	"maps"
	"strings"

	"resumeparser/internal/types"
)

// ApplyCustomizations returns a copy of resume with the user overrides
// merged in. Empty values never clear an existing one, and colors merge
// key by key.
func ApplyCustomizations(resume types.ParsedResume, custom types.Customizations) types.ParsedResume {
	out := resume.Clone()

	if img := strings.TrimSpace(custom.ProfileImage); img != "" {
		out.ProfileImage = img
	}

	for key, value := range custom.CustomColors {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			continue
		}
		if out.CustomColors == nil {
			out.CustomColors = make(map[string]string, len(custom.CustomColors))
		}
		out.CustomColors[key] = value
	}
	return out
}

// preserveCustomizations copies the user-owned fields of original onto a
// model rewrite that dropped them.
func preserveCustomizations(rewritten, original types.ParsedResume) types.ParsedResume {
	return ApplyCustomizations(rewritten, types.Customizations{
		ProfileImage: original.ProfileImage,
		CustomColors: maps.Clone(original.CustomColors),
	})
}
