package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"unicode"

	"talentai/resume-screener/internal/models"
)

const (
	semanticWeight = 0.85
	skillWeight    = 0.15

	maxEvidenceSnippets = 3
	evidenceCandidates  = 5
	evidenceSnippetLen  = 240
	skillEvidenceLen    = 200
)

// evidenceNoiseTokens disqualify a chunk snippet from serving as evidence.
var evidenceNoiseTokens = []string{"email", "phone", "linkedin", "github", "http", "@"}

// matchingSkillsDB is the fallback skill list used when the enrichment
// collaborator supplied no skills for a resume.
var matchingSkillsDB = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "php", "ruby", "go", "rust",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"react", "vue", "angular", "nextjs", "node.js", "express", "django", "flask",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git",
	"rest", "graphql", "api", "microservices",
	"machine learning", "deep learning", "tensorflow", "pytorch",
}

type ScorerService interface {
	ScoreResumes(ctx context.Context, jobDescription string, resumes []models.ProcessedResume) ([]models.Candidate, error)
}

type scorerService struct {
	embedder  Embedder
	chunker   TextChunker
	keywords  KeywordExtractor
	chunkSize int
}

func NewScorerService(embedder Embedder, chunker TextChunker, keywords KeywordExtractor, chunkSize int) ScorerService {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &scorerService{
		embedder:  embedder,
		chunker:   chunker,
		keywords:  keywords,
		chunkSize: chunkSize,
	}
}

// ScoreResumes implements ScorerService. The job description is embedded
// once; each resume is chunked, embedded, and scored against it. Resumes
// that fail processing are skipped, and the batch only fails when none
// survive. The final order is by match percentage descending with ties
// keeping input order. Output is fully determined by the input and the
// embedder; candidate ids are assigned at the HTTP boundary.
func (s *scorerService) ScoreResumes(ctx context.Context, jobDescription string, resumes []models.ProcessedResume) ([]models.Candidate, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if len(resumes) == 0 {
		return nil, ErrNoResumes
	}

	// Embedding cache lives for this scoring pass only.
	embedder := newEmbeddingCache(s.embedder)

	jobEmbedding, err := embedder.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	jobKeywords := s.keywords.Extract(jobDescription)

	var candidates []models.Candidate
	for _, resume := range resumes {
		candidate, err := s.scoreResume(ctx, embedder, jobDescription, jobEmbedding, jobKeywords, resume)
		if err != nil {
			log.Printf("⚠️  Skipping resume %s: %v\n", resume.Filename, err)
			continue
		}
		candidates = append(candidates, *candidate)
	}

	if len(candidates) == 0 {
		return nil, ErrNoValidResumes
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchPercentage > candidates[j].MatchPercentage
	})

	return candidates, nil
}

func (s *scorerService) scoreResume(
	ctx context.Context,
	embedder Embedder,
	jobDescription string,
	jobEmbedding []float32,
	jobKeywords []string,
	resume models.ProcessedResume,
) (*models.Candidate, error) {
	rawText := resume.RawText
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyResumeText
	}

	chunks := s.chunker.ChunkText(rawText, s.chunkSize)

	chunkEmbeddings := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		emb, err := embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk: %w", err)
		}
		chunkEmbeddings = append(chunkEmbeddings, emb)
	}

	stats := AggregateSimilarities(jobEmbedding, chunkEmbeddings)
	semanticScore := stats.Mean

	evidence := s.collectEvidence(chunks, stats.Scores, jobKeywords)

	resumeKeywords := s.keywords.Extract(rawText)
	skillRatio := s.keywords.SkillMatchRatio(jobKeywords, resumeKeywords)

	resumeKeywordSet := make(map[string]bool, len(resumeKeywords))
	for _, k := range resumeKeywords {
		resumeKeywordSet[k] = true
	}

	var missingSkills []string
	for _, k := range jobKeywords {
		if !resumeKeywordSet[k] {
			missingSkills = append(missingSkills, k)
		}
	}

	skillEvidence := make(map[string]string)
	for _, k := range jobKeywords {
		if !resumeKeywordSet[k] {
			continue
		}
		skillEvidence[k] = findKeywordSnippet(rawText, chunks, k)
	}

	skills := resume.Enrichments.Skills
	if len(skills) == 0 {
		skills = matchingSkills(rawText, jobDescription)
	}

	combinedScore := semanticWeight*semanticScore + skillWeight*skillRatio
	matchPercentage := clampPercentage(math.Round(combinedScore * 100))

	entities := resume.Enrichments.Entities
	organizations := entities["ORG"]

	experience := organizations
	if len(experience) > 5 {
		experience = experience[:5]
	}

	education := resume.Enrichments.Education
	if len(education) > 3 {
		education = education[:3]
	}

	return &models.Candidate{
		Name:             resume.Name,
		Filename:         resume.Filename,
		Score:            combinedScore,
		MatchPercentage:  matchPercentage,
		SemanticScore:    semanticScore,
		SkillMatchRatio:  skillRatio,
		ExperienceSignal: math.Min(1.0, float64(len(organizations))/8.0),
		Summary:          resume.Enrichments.Summary,
		Skills:           skills,
		Experience:       experience,
		Education:        education,
		Feedback:         buildFeedback(semanticScore, skillRatio, skills, entities),
		Evidence:         evidence,
		Improvements:     buildImprovements(jobKeywords, resumeKeywordSet, skills),
		JDSkills:         jobKeywords,
		MissingSkills:    missingSkills,
		SkillEvidence:    skillEvidence,
		RawText:          rawText,
	}, nil
}

// collectEvidence picks the best-matching chunks as human-readable evidence.
// The top candidates by similarity are truncated, screened for contact noise,
// and annotated with the job keywords they contain.
func (s *scorerService) collectEvidence(chunks []string, scores []float64, jobKeywords []string) []string {
	jobKeywordSet := make(map[string]bool, len(jobKeywords))
	for _, k := range jobKeywords {
		jobKeywordSet[k] = true
	}

	indices := RankIndices(scores)
	if len(indices) > evidenceCandidates {
		indices = indices[:evidenceCandidates]
	}

	var evidence []string
	for _, idx := range indices {
		snippet := strings.TrimSpace(truncateRunes(chunks[idx], evidenceSnippetLen))
		lower := strings.ToLower(snippet)

		noisy := false
		for _, token := range evidenceNoiseTokens {
			if strings.Contains(lower, token) {
				noisy = true
				break
			}
		}
		if noisy {
			continue
		}

		var matched []string
		for _, k := range s.keywords.Extract(snippet) {
			if jobKeywordSet[k] {
				matched = append(matched, k)
			}
		}
		if len(matched) > 0 {
			snippet = fmt.Sprintf("%s  | matched: %s", snippet, strings.Join(matched, ", "))
		}

		evidence = append(evidence, snippet)
		if len(evidence) >= maxEvidenceSnippets {
			break
		}
	}

	return evidence
}

// findKeywordSnippet locates the first line, or failing that the first
// chunk, containing the keyword. The literal "found" marks keywords matched
// only through the whole-text pass.
func findKeywordSnippet(rawText string, chunks []string, keyword string) string {
	for _, line := range strings.Split(rawText, "\n") {
		if strings.Contains(strings.ToLower(line), keyword) {
			return truncateRunes(strings.TrimSpace(line), skillEvidenceLen)
		}
	}
	for _, chunk := range chunks {
		if strings.Contains(strings.ToLower(chunk), keyword) {
			return truncateRunes(strings.TrimSpace(chunk), skillEvidenceLen)
		}
	}
	return "found"
}

// matchingSkills derives display skills from the resume text when enrichment
// supplied none; a skill counts only when the job description mentions it too.
func matchingSkills(resumeText, jobDescription string) []string {
	resumeLower := strings.ToLower(resumeText)
	jobLower := strings.ToLower(jobDescription)

	var matched []string
	for _, skill := range matchingSkillsDB {
		if strings.Contains(resumeLower, skill) && strings.Contains(jobLower, skill) {
			matched = append(matched, titleCase(skill))
		}
		if len(matched) >= 10 {
			break
		}
	}
	return matched
}

func buildFeedback(semanticScore, skillRatio float64, skills []string, entities map[string][]string) string {
	var parts []string

	switch {
	case semanticScore > 0.75:
		parts = append(parts, "Strong semantic match with job requirements.")
	case semanticScore > 0.5:
		parts = append(parts, "Good match with job requirements.")
	case semanticScore > 0.3:
		parts = append(parts, "Moderate match with job requirements.")
	default:
		parts = append(parts, "Limited semantic match with job requirements.")
	}

	switch {
	case skillRatio > 0.7:
		parts = append(parts, fmt.Sprintf("Excellent skill alignment with %d relevant skills identified.", len(skills)))
	case skillRatio > 0.4:
		parts = append(parts, fmt.Sprintf("Good skill overlap with %d relevant skills.", len(skills)))
	case skillRatio > 0.1:
		parts = append(parts, fmt.Sprintf("Some skill overlap with %d relevant skills.", len(skills)))
	default:
		parts = append(parts, "Limited skill overlap with job requirements.")
	}

	if len(entities["ORG"]) > 0 {
		parts = append(parts, fmt.Sprintf("Candidate has experience at %d organizations.", len(entities["ORG"])))
	}

	if len(entities["DATE"]) > 0 {
		parts = append(parts, "Strong educational background indicated.")
	}

	return strings.Join(parts, " ")
}

func buildImprovements(jobKeywords []string, resumeKeywordSet map[string]bool, matchedSkills []string) []string {
	var improvements []string

	var gaps []string
	for _, k := range jobKeywords {
		if !resumeKeywordSet[k] {
			gaps = append(gaps, k)
		}
	}
	if len(gaps) > 5 {
		gaps = gaps[:5]
	}
	for _, gap := range gaps {
		improvements = append(improvements, fmt.Sprintf("Strengthen experience with %s: build a small project or certification.", gap))
	}

	threshold := len(jobKeywords) / 2
	if threshold < 3 {
		threshold = 3
	}
	if len(matchedSkills) < threshold {
		improvements = append(improvements, "Highlight concrete achievements using metrics to improve semantic relevance.")
	}

	if len(improvements) == 0 {
		improvements = append(improvements, "Great alignment. Emphasize recent work matching the job requirements.")
	}

	return improvements
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func clampPercentage(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
