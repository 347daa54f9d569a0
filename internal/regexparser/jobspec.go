package regexparser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"resumeparser/internal/types"
)

var (
	jobTitleLabelRe  = regexp.MustCompile(`(?im)^[ \t]*(?:Job Title|Position|Title|Role)[ \t]*:[ \t]*(.+?)[ \t]*$`)
	jobTitlePhraseRe = regexp.MustCompile(`(?i)\b((?:(?:senior|junior|lead|staff|principal|head of)\s+)?(?:[\w+#./-]+\s+){0,2}(?:engineer|developer|manager|designer|consultant|specialist|analyst|architect|scientist|administrator))\b`)
	yearsRe          = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:-\s*\d{1,2}\s*)?(?:years?|yrs?)\b`)
	wordRe           = regexp.MustCompile(`[\p{L}][\p{L}\p{N}+#.\-]*`)
)

type jobSection string

const (
	jobRequirements     jobSection = "requirements"
	jobResponsibilities jobSection = "responsibilities"
	jobValues           jobSection = "values"
	jobOther            jobSection = "other"
)

var jobSectionHeaders = map[jobSection][]string{
	jobRequirements:     {"REQUIREMENTS", "REQUIRED SKILLS", "QUALIFICATIONS", "SKILLS", "MUST HAVE", "WHAT YOU BRING", "TECH STACK"},
	jobResponsibilities: {"RESPONSIBILITIES", "KEY RESPONSIBILITIES", "WHAT YOU'LL DO", "WHAT YOU WILL DO", "DUTIES", "THE ROLE"},
	jobValues:           {"OUR VALUES", "VALUES", "CULTURE", "WHAT WE VALUE", "WHY JOIN US"},
	jobOther:            {"BENEFITS", "ABOUT US", "ABOUT THE COMPANY", "NICE TO HAVE", "PERKS", "HOW TO APPLY", "COMPENSATION"},
}

// techTerm is a vocabulary entry; short ambiguous words match case-sensitively.
type techTerm struct {
	name string
	re   *regexp.Regexp
}

var techVocabulary = buildVocabulary(
	[]string{"Go", "Rust", "Swift", "Dart", "REST", "Spring", "Sketch"},
	[]string{
		"Golang", "Python", "Java", "JavaScript", "TypeScript", "Kotlin", "Scala", "Ruby", "Rails", "PHP",
		"C++", "C#", ".NET", "Elixir", "Haskell", "React", "React Native", "Angular", "Vue", "Svelte", "Next.js",
		"Node.js", "Django", "Flask", "FastAPI", "GraphQL", "gRPC", "HTML", "CSS", "Tailwind",
		"SQL", "PostgreSQL", "MySQL", "SQLite", "MongoDB", "Redis", "Cassandra", "DynamoDB", "Elasticsearch",
		"Kafka", "RabbitMQ", "Docker", "Kubernetes", "Terraform", "Ansible", "Helm", "AWS", "GCP", "Azure",
		"Linux", "Git", "CI/CD", "Jenkins", "GitHub Actions", "Prometheus", "Grafana", "OpenTelemetry",
		"Spark", "Hadoop", "Airflow", "dbt", "Snowflake", "BigQuery", "Machine Learning", "Deep Learning",
		"TensorFlow", "PyTorch", "NLP", "LLM", "Figma", "Agile", "Scrum", "Microservices", "Serverless",
	},
)

func buildVocabulary(caseSensitive, caseInsensitive []string) []techTerm {
	var out []techTerm
	add := func(term, flags string) {
		pattern := `(?:^|[^\p{L}\p{N}+#])` + regexp.QuoteMeta(term) + `(?:$|[^\p{L}\p{N}+#])`
		out = append(out, techTerm{name: term, re: regexp.MustCompile(flags + pattern)})
	}
	for _, t := range caseSensitive {
		add(t, "")
	}
	for _, t := range caseInsensitive {
		add(t, "(?i)")
	}
	return out
}

var stopWords = map[string]bool{
	"with": true, "that": true, "this": true, "will": true, "have": true, "from": true, "your": true,
	"they": true, "their": true, "about": true, "work": true, "team": true, "able": true, "must": true,
	"years": true, "experience": true, "looking": true, "needed": true, "join": true, "role": true,
	"ability": true, "strong": true, "including": true, "into": true, "more": true, "what": true,
	"using": true, "such": true, "other": true, "well": true, "within": true, "across": true,
}

// ParseJobSpec extracts a job specification without AI.
func (p *Parser) ParseJobSpec(text string) types.JobSpecExtraction {
	text = normalizeText(text)

	spec := types.ParsedJobSpec{
		PositionTitle:    jobSpecTitle(text),
		RequiredSkills:   jobSpecSkills(text),
		YearsExperience:  jobSpecYears(text),
		Responsibilities: jobSpecList(text, jobResponsibilities),
		CompanyValues:    jobSpecList(text, jobValues),
	}
	spec = spec.Normalize()

	return types.JobSpecExtraction{
		Data:       spec,
		Confidence: p.jobSpecScorer.Score(spec),
	}
}

func jobSpecTitle(text string) string {
	if m := jobTitleLabelRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := jobTitlePhraseRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) < 80 && !strings.HasSuffix(line, ":") {
			return line
		}
	}
	return ""
}

func jobSpecSkills(text string) []string {
	var skills []string

	if body, ok := extractSectionContent(text, jobSectionHeaders[jobRequirements], jobEndHeaders(jobRequirements)); ok {
		for _, item := range listItems(body) {
			if n := len([]rune(item)); n > 0 && n <= 40 && !strings.Contains(item, " and ") && len(strings.Fields(item)) <= 3 {
				skills = append(skills, item)
			}
		}
	}
	for _, term := range techVocabulary {
		if term.re.MatchString(text) {
			skills = append(skills, term.name)
		}
	}
	if len(skills) == 0 {
		skills = frequentKeywords(text, 10)
	}
	return skills
}

func jobSpecYears(text string) *int {
	m := yearsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &years
}

func jobSpecList(text string, section jobSection) []string {
	body, ok := extractSectionContent(text, jobSectionHeaders[section], jobEndHeaders(section))
	if !ok {
		return nil
	}
	return listItems(body)
}

// jobEndHeaders is every job-spec header outside own.
func jobEndHeaders(own jobSection) []string {
	var out []string
	for section, headers := range jobSectionHeaders {
		if section != own {
			out = append(out, headers...)
		}
	}
	return out
}

// listItems splits a section body into bullet lines, then comma lists.
func listItems(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(skillBulletRe.ReplaceAllString(strings.TrimLeft(strings.TrimSpace(line), "•"), ""))
		if line == "" {
			continue
		}
		if strings.Count(line, ",") >= 2 && len(strings.Fields(line)) <= 12 {
			for _, piece := range strings.Split(line, ",") {
				if piece = strings.Trim(strings.TrimSpace(piece), "."); piece != "" {
					out = append(out, piece)
				}
			}
			continue
		}
		out = append(out, strings.TrimSuffix(line, "."))
	}
	return out
}

// frequentKeywords returns the most frequent non-stopword terms, longest
// first among ties.
func frequentKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, w := range wordRe.FindAllString(text, -1) {
		w = strings.TrimRight(w, ".-")
		key := strings.ToLower(w)
		if len([]rune(key)) < 4 || stopWords[key] {
			continue
		}
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = w
		}
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = display[k]
	}
	return out
}
