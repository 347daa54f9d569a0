package ai

import "google.golang.org/genai"

func stringSchema(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func stringArraySchema(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

// ResumeSchema is the response schema for structured resume extraction.
func ResumeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":    stringSchema("Full name of the candidate"),
			"title":   stringSchema("Current or most recent professional title"),
			"summary": stringSchema("Professional summary, verbatim"),
			"contact": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"email":    {Type: genai.TypeString},
					"phone":    {Type: genai.TypeString},
					"location": {Type: genai.TypeString},
					"website":  {Type: genai.TypeString},
					"github":   {Type: genai.TypeString},
					"linkedin": {Type: genai.TypeString},
				},
			},
			"experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    {Type: genai.TypeString},
						"company":  {Type: genai.TypeString},
						"duration": {Type: genai.TypeString},
						"details":  stringArraySchema("Bullet points, verbatim"),
					},
					Required: []string{"details"},
				},
			},
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"degree":      {Type: genai.TypeString},
						"institution": {Type: genai.TypeString},
						"duration":    {Type: genai.TypeString},
						"note":        {Type: genai.TypeString},
					},
					Required: []string{"degree", "institution"},
				},
			},
			"certifications": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":   {Type: genai.TypeString},
						"issuer": {Type: genai.TypeString},
						"date":   {Type: genai.TypeString},
						"id":     {Type: genai.TypeString},
					},
					Required: []string{"name", "issuer"},
				},
			},
			"skills": stringArraySchema("Skills as listed"),
		},
		Required: []string{"name", "title", "experience", "education", "certifications", "skills"},
	}
}

// JobSpecSchema is the response schema for job-spec analysis.
func JobSpecSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"positionTitle":    stringSchema("Title of the advertised position"),
			"requiredSkills":   stringArraySchema("Between 1 and 50 required skills or technologies"),
			"yearsExperience":  {Type: genai.TypeInteger, Description: "Minimum years of experience, if stated"},
			"responsibilities": stringArraySchema("Main responsibilities"),
			"companyValues":    stringArraySchema("Company values or culture points"),
		},
		Required: []string{"positionTitle", "requiredSkills"},
	}
}
