package services

import "strings"

// keywordVocabulary is the controlled vocabulary of screening keywords.
// Its order defines the canonical output order of extraction.
var keywordVocabulary = []string{
	"python", "javascript", "java", "react", "node", "sql", "cloud",
	"api", "database", "frontend", "backend", "fullstack", "mobile",
	"devops", "agile", "testing", "performance", "security", "scalability",
}

// keywordAliases maps canonical keywords to synonym substrings that count
// as a match for that keyword.
var keywordAliases = map[string][]string{
	"node":    {"node.js", "nodejs", "express"},
	"react":   {"react.js", "reactjs", "nextjs", "next.js"},
	"sql":     {"postgresql", "mysql", "psql", "mssql", "sqlite"},
	"cloud":   {"aws", "amazon web services", "gcp", "google cloud", "azure"},
	"devops":  {"ci/cd", "cicd", "pipeline", "docker", "kubernetes"},
	"testing": {"jest", "pytest", "unit testing", "e2e", "cypress"},
	"api":     {"rest", "graphql", "restful"},
}

type KeywordExtractor interface {
	Extract(text string) []string
	SkillMatchRatio(jobKeywords, resumeKeywords []string) float64
}

type keywordExtractor struct{}

func NewKeywordExtractor() KeywordExtractor {
	return &keywordExtractor{}
}

// Extract implements KeywordExtractor. A canonical keyword is emitted when
// the keyword itself or any of its aliases occurs as a substring of the
// lower-cased text. Output follows vocabulary order with duplicates
// suppressed.
func (ke *keywordExtractor) Extract(text string) []string {
	textLower := strings.ToLower(text)

	var found []string
	seen := make(map[string]bool)

	for _, keyword := range keywordVocabulary {
		if seen[keyword] {
			continue
		}
		if strings.Contains(textLower, keyword) {
			found = append(found, keyword)
			seen[keyword] = true
			continue
		}
		for _, alias := range keywordAliases[keyword] {
			if strings.Contains(textLower, alias) {
				found = append(found, keyword)
				seen[keyword] = true
				break
			}
		}
	}

	return found
}

// SkillMatchRatio implements KeywordExtractor. It is the fraction of job
// keywords also present in the resume, 0 when the job lists none.
func (ke *keywordExtractor) SkillMatchRatio(jobKeywords, resumeKeywords []string) float64 {
	if len(jobKeywords) == 0 {
		return 0
	}

	resumeSet := make(map[string]bool, len(resumeKeywords))
	for _, k := range resumeKeywords {
		resumeSet[k] = true
	}

	matched := 0
	for _, k := range jobKeywords {
		if resumeSet[k] {
			matched++
		}
	}

	return float64(matched) / float64(len(jobKeywords))
}
