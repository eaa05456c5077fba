package services

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"talentai/resume-screener/internal/models"
)

// EnrichmentService is the best-effort enrichment collaborator. Every method
// degrades to empty output rather than failing; scoring never depends on a
// field being present.
type EnrichmentService interface {
	Enrich(ctx context.Context, text string) models.Enrichments
	InferName(entities map[string][]string, text, filename string) string
}

type enrichmentService struct {
	gemini     GeminiService
	maxRetries int
}

// NewEnrichmentService builds the collaborator. gemini may be nil; the
// summary then always uses the heuristic fallback.
func NewEnrichmentService(gemini GeminiService, maxRetries int) EnrichmentService {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &enrichmentService{gemini: gemini, maxRetries: maxRetries}
}

var (
	orgSuffixRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&\-., ]+(?:Inc|LLC|Ltd|Corporation|Corp|Technologies|Systems|Labs|Solutions)\b`)
	orgPhraseRe = regexp.MustCompile(`\b[A-Z][A-Za-z]+(?:\s[A-Z][A-Za-z]+){0,3}\s(?:Company|Organization|University)\b`)
	yearRe      = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthYearRe = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\s+(19|20)\d{2}\b`)
)

var technicalSkills = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "php", "ruby", "go", "rust",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"react", "vue", "angular", "nextjs", "svelte", "node.js", "express", "django", "flask",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "gitlab", "github",
	"html", "css", "scss", "tailwind", "bootstrap", "webpack", "vite",
	"rest", "graphql", "api", "microservices", "serverless",
	"machine learning", "deep learning", "nlp", "computer vision", "tensorflow", "pytorch",
	"agile", "scrum", "jira", "figma", "adobe", "sketch",
	"linux", "windows", "macos", "devops", "ci/cd",
}

var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bachelor`),
	regexp.MustCompile(`(?i)master`),
	regexp.MustCompile(`(?i)phd`),
	regexp.MustCompile(`(?i)diploma`),
	regexp.MustCompile(`(?i)certificate`),
	regexp.MustCompile(`(?i)b\.?s\.?`),
	regexp.MustCompile(`(?i)m\.?s\.?`),
	regexp.MustCompile(`(?i)b\.?a\.?`),
	regexp.MustCompile(`(?i)m\.?a\.?`),
}

var jobTitles = []string{
	"engineer", "developer", "designer", "manager", "director", "analyst",
	"architect", "consultant", "specialist", "coordinator", "lead", "principal",
}

// Enrich implements EnrichmentService.
func (e *enrichmentService) Enrich(ctx context.Context, text string) models.Enrichments {
	return models.Enrichments{
		Entities:   e.extractEntities(text),
		Skills:     e.extractSkills(text),
		Education:  e.extractEducation(text),
		Experience: extractExperience(text),
		Summary:    e.generateSummary(ctx, text),
	}
}

func (e *enrichmentService) extractEntities(text string) map[string][]string {
	entities := map[string][]string{
		"PERSON":  {},
		"ORG":     {},
		"GPE":     {},
		"DATE":    {},
		"PRODUCT": {},
	}

	trimmed := text
	if len(trimmed) > 500000 {
		trimmed = trimmed[:500000]
	}

	appendUnique := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		for _, existing := range entities[label] {
			if existing == value {
				return
			}
		}
		entities[label] = append(entities[label], value)
	}

	for _, re := range []*regexp.Regexp{orgSuffixRe, orgPhraseRe} {
		for _, m := range re.FindAllString(trimmed, -1) {
			appendUnique("ORG", m)
		}
	}

	for _, re := range []*regexp.Regexp{yearRe, monthYearRe} {
		for _, m := range re.FindAllString(trimmed, -1) {
			appendUnique("DATE", m)
		}
	}

	return entities
}

var technicalSkillRes = func() map[string]*regexp.Regexp {
	isWord := func(r byte) bool {
		return r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
	}
	res := make(map[string]*regexp.Regexp, len(technicalSkills))
	for _, skill := range technicalSkills {
		// \b only works against word characters; "c++" and "c#" need the
		// boundary dropped on their symbol side.
		pattern := regexp.QuoteMeta(skill)
		if isWord(skill[0]) {
			pattern = `\b` + pattern
		}
		if isWord(skill[len(skill)-1]) {
			pattern += `\b`
		}
		res[skill] = regexp.MustCompile(pattern)
	}
	return res
}()

func (e *enrichmentService) extractSkills(text string) []string {
	textLower := strings.ToLower(text)

	var found []string
	for _, skill := range technicalSkills {
		if technicalSkillRes[skill].MatchString(textLower) {
			found = append(found, skill)
		}
		if len(found) >= 20 {
			break
		}
	}
	return found
}

func (e *enrichmentService) extractEducation(text string) []string {
	var education []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 5 || seen[trimmed] {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, pattern := range degreePatterns {
			if pattern.MatchString(lower) {
				education = append(education, trimmed)
				seen[trimmed] = true
				break
			}
		}
		if len(education) >= 5 {
			break
		}
	}
	return education
}

// extractExperience collects lines that look like job titles or roles.
func extractExperience(text string) []string {
	var experience []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 5 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, title := range jobTitles {
			if strings.Contains(lower, title) {
				if len(trimmed) > 100 {
					trimmed = trimmed[:100]
				}
				experience = append(experience, trimmed)
				break
			}
		}
		if len(experience) >= 10 {
			break
		}
	}
	return experience
}

// generateSummary prefers an abstractive Gemini summary and falls back to the
// first meaningful sentence when generation is unavailable or fails.
func (e *enrichmentService) generateSummary(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)

	if e.gemini != nil && len(text) > 100 {
		chunk := text
		if len(chunk) > 1500 {
			chunk = chunk[:1500]
		}
		prompt := "Summarize this resume excerpt in 2-3 sentences, focusing on role, experience, and key skills:\n\n" + chunk
		if summary, err := e.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, e.maxRetries); err == nil {
			summary = strings.TrimSpace(summary)
			if summary != "" {
				return summary
			}
		}
	}

	if len(text) > 300 {
		periodIndex := strings.Index(text, ".")
		if periodIndex > 50 && periodIndex < 300 {
			return text[:periodIndex+1]
		}
		return text[:300] + "..."
	}
	return text
}

// InferName implements EnrichmentService. It prefers PERSON entities, then a
// name-shaped line near the top of the resume, then the filename.
func (e *enrichmentService) InferName(entities map[string][]string, text, filename string) string {
	persons := entities["PERSON"]
	if len(persons) > 0 {
		longest := persons[0]
		for _, p := range persons[1:] {
			if len(p) > len(longest) {
				longest = p
			}
		}
		if words := len(strings.Fields(longest)); words >= 2 && words <= 5 {
			return strings.TrimSpace(longest)
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 8 {
		lines = lines[:8]
	}
	for _, line := range lines {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		lower := strings.ToLower(clean)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum") ||
			strings.Contains(lower, "profile") || strings.Contains(lower, "summary") {
			continue
		}
		parts := strings.Fields(clean)
		if len(parts) >= 2 && len(parts) <= 5 {
			first := []rune(parts[0])
			if unicode.IsLetter(first[0]) && unicode.IsUpper(first[0]) {
				return clean
			}
		}
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
