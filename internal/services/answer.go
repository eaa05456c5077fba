package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"talentai/resume-screener/internal/models"
)

const (
	maxAnswerSnippets  = 3
	answerSnippetLen   = 250
	sectionLineLen     = 200
	contextWindow      = 10
	broadScanLimit     = 50
	defaultQueryChunks = 400
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]\s+`)
	queryTokenRe    = regexp.MustCompile(`[A-Za-z]{4,}`)
	yearsMentionRe  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*years?\b`)
	gpaValueRe      = regexp.MustCompile(`(?i)\b(CGPA|GPA)\s*[:\-]?\s*(\d+(?:\.\d+)?)`)
	gpaMentionRe    = regexp.MustCompile(`(?i)\b(CGPA|GPA)\b`)
)

var leadershipQuestionTerms = []string{
	"lead", "leader", "managed", "manage", "team lead", "leadership",
	"supervis", "responsib", "owned", "ownership", "accountable",
	"coordinated", "organized",
}

var leadershipEvidenceTerms = []string{
	"led", "managed", "team lead", "leadership", "supervised", "mentored",
	"responsible for", "owned", "coordinated", "organized",
}

var experienceQuestionTerms = []string{"year", "experience", "exp"}

var gpaQuestionTerms = []string{"cgpa", "gpa"}

var educationQuestionTerms = []string{
	"education", "college", "university", "degree", "btech", "b.tech",
	"b sc", "bsc", "mtech", "m.tech", "msc", "b.e", "be",
}

var educationLineTerms = []string{
	"university", "college", "institute", "school", "b.tech", "btech",
	"b.e", "be", "m.tech", "mtech", "m.sc", "msc", "b.sc", "bsc", "cgpa", "gpa",
}

var institutionTerms = []string{"university", "college", "institute", "school"}

var webProjectTerms = []string{
	"web", "website", "frontend", "backend", "full stack", "fullstack",
	"react", "next", "node", "express", "django", "flask", "html", "css",
	"javascript", "typescript", "api",
}

var mlProjectTerms = []string{
	"machine learning", "ml", "deep learning", "cnn", "lstm", "pytorch",
	"tensorflow", "model", "classification", "prediction",
}

var projectQuestionTerms = append(append([]string{"project", "projects"}, webProjectTerms...), mlProjectTerms...)

var projectActionTerms = []string{
	"built", "developed", "implemented", "designed", "created",
	"classification", "prediction", "api", "app", "web", "model",
}

type scoredSentence struct {
	score float64
	text  string
}

// qaState carries everything the intent rules can read: the literal question,
// the cleaned document views, the query keyword set, and the similarity-ranked
// sentence pools.
type qaState struct {
	question      string
	questionLower string
	cleanText     string
	lines         []string
	headings      []sectionHeading
	queryKeywords map[string]bool
	scored        []scoredSentence
	topSentences  []scoredSentence
}

// intentRule pairs a predicate on the question with a handler producing the
// answer and its evidence. Rules are evaluated in fixed priority order and
// the first match wins; the ordering is load-bearing.
type intentRule struct {
	name    string
	matches func(st *qaState) bool
	handle  func(st *qaState) (string, []scoredSentence)
}

type AnswerService interface {
	Answer(ctx context.Context, question, resumeText, conversationID string, history []models.ConversationEntry) (*models.AnswerResult, error)
}

type answerService struct {
	embedder  Embedder
	chunker   TextChunker
	chatStore *ChatStore
	chunkSize int
	rules     []intentRule
}

func NewAnswerService(embedder Embedder, chunker TextChunker, chatStore *ChatStore, chunkSize int) AnswerService {
	if chunkSize <= 0 {
		chunkSize = defaultQueryChunks
	}
	s := &answerService{
		embedder:  embedder,
		chunker:   chunker,
		chatStore: chatStore,
		chunkSize: chunkSize,
	}
	s.rules = []intentRule{
		{name: "leadership", matches: questionMentions(leadershipQuestionTerms), handle: s.answerLeadership},
		{name: "experience", matches: questionMentions(experienceQuestionTerms), handle: s.answerExperience},
		{name: "gpa", matches: questionMentions(gpaQuestionTerms), handle: s.answerGPA},
		{name: "education", matches: questionMentions(educationQuestionTerms), handle: s.answerEducation},
		{name: "projects", matches: questionMentions(projectQuestionTerms), handle: s.answerProjects},
		{name: "general", matches: func(*qaState) bool { return true }, handle: s.answerGeneral},
	}
	return s
}

// Answer implements AnswerService.
func (s *answerService) Answer(ctx context.Context, question, resumeText, conversationID string, history []models.ConversationEntry) (*models.AnswerResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResumeText
	}

	cleanText := StripArtifacts(resumeText)
	if strings.TrimSpace(cleanText) == "" {
		return nil, ErrEmptyResumeText
	}

	lines := CleanLines(cleanText)

	st := &qaState{
		question:      question,
		questionLower: strings.ToLower(question),
		cleanText:     cleanText,
		lines:         lines,
		headings:      findHeadings(lines),
	}

	// The conversation context biases the embedded query only; intent
	// detection always sees the literal question.
	contextPrefix := s.conversationContext(conversationID, history)
	query := question
	if contextPrefix != "" {
		query = contextPrefix + " | " + question
	}

	st.queryKeywords = make(map[string]bool)
	for _, token := range queryTokenRe.FindAllString(query, -1) {
		st.queryKeywords[strings.ToLower(token)] = true
	}

	if err := s.scoreSentences(ctx, st, query); err != nil {
		return nil, err
	}

	answer, evidence := s.dispatch(st)
	answer = strings.TrimSpace(answer)

	// Best-effort transcript append; never affects the returned answer.
	if conversationID != "" && s.chatStore != nil {
		s.chatStore.Add(conversationID, "user", question)
		s.chatStore.Add(conversationID, "assistant", answer)
	}

	result := &models.AnswerResult{
		Answer:   answer,
		Snippets: make([]string, 0, len(evidence)),
		Scores:   make([]float64, 0, len(evidence)),
	}
	for _, e := range evidence {
		result.Snippets = append(result.Snippets, strings.TrimSpace(e.text))
		result.Scores = append(result.Scores, e.score)
	}

	return result, nil
}

// conversationContext merges the persistent transcript with the transient
// history supplied by the caller, cache entries first, keeping the most
// recent 10 combined turns rendered as "Role: text" pairs.
func (s *answerService) conversationContext(conversationID string, history []models.ConversationEntry) string {
	var merged []models.ConversationEntry

	if conversationID != "" && s.chatStore != nil {
		stored := s.chatStore.Get(conversationID)
		if len(stored) > contextWindow {
			stored = stored[len(stored)-contextWindow:]
		}
		for _, m := range stored {
			merged = append(merged, models.ConversationEntry{Role: m.Role, Text: m.Text})
		}
	}

	if len(history) > contextWindow {
		history = history[len(history)-contextWindow:]
	}
	merged = append(merged, history...)

	if len(merged) > contextWindow {
		merged = merged[len(merged)-contextWindow:]
	}

	var pairs []string
	for _, entry := range merged {
		text := strings.TrimSpace(entry.Text)
		if text == "" || IsNoise(text) {
			continue
		}
		prefix := "Assistant:"
		if entry.Role == "user" {
			prefix = "User:"
		}
		pairs = append(pairs, prefix+" "+text)
	}

	return strings.Join(pairs, " | ")
}

// scoreSentences embeds the query and every document chunk, then scores each
// non-noise sentence as its chunk's cosine similarity plus a small boost for
// query keyword hits. The top 3 distinct sentences become the default
// evidence pool.
func (s *answerService) scoreSentences(ctx context.Context, st *qaState, query string) error {
	embedder := newEmbeddingCache(s.embedder)

	queryEmbedding, err := embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed question: %w", err)
	}

	chunks := s.chunker.ChunkText(st.cleanText, s.chunkSize)

	for _, chunk := range chunks {
		chunkEmbedding, err := embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}
		similarity := CosineSimilarity(queryEmbedding, chunkEmbedding)

		for _, sentence := range sentenceSplitRe.Split(chunk, -1) {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" || IsNoise(sentence) {
				continue
			}

			lower := strings.ToLower(sentence)
			hits := 0
			for token := range st.queryKeywords {
				if strings.Contains(lower, token) {
					hits++
				}
			}
			boost := 0.0
			if hits > 0 {
				boost = 0.02 * float64(hits)
				if boost > 0.1 {
					boost = 0.1
				}
			}

			st.scored = append(st.scored, scoredSentence{score: similarity + boost, text: sentence})
		}
	}

	sort.SliceStable(st.scored, func(i, j int) bool {
		return st.scored[i].score > st.scored[j].score
	})

	seen := make(map[string]bool)
	for _, sc := range st.scored {
		text := truncateRunes(sc.text, answerSnippetLen)
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		st.topSentences = append(st.topSentences, scoredSentence{score: sc.score, text: text})
		if len(st.topSentences) >= maxAnswerSnippets {
			break
		}
	}

	return nil
}

func (s *answerService) dispatch(st *qaState) (string, []scoredSentence) {
	for _, rule := range s.rules {
		if rule.matches(st) {
			return rule.handle(st)
		}
	}
	// Unreachable: the general rule always matches.
	return "", nil
}

func questionMentions(terms []string) func(*qaState) bool {
	return func(st *qaState) bool {
		return containsAny(st.questionLower, terms)
	}
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func (s *answerService) answerLeadership(st *qaState) (string, []scoredSentence) {
	var evidence []scoredSentence
	for _, sc := range st.topSentences {
		if containsAny(sc.text, leadershipEvidenceTerms) {
			evidence = append(evidence, scoredSentence{score: 1.0, text: sc.text})
		}
	}

	if len(evidence) == 0 {
		limit := broadScanLimit
		if limit > len(st.scored) {
			limit = len(st.scored)
		}
		for _, sc := range st.scored[:limit] {
			if containsAny(sc.text, leadershipEvidenceTerms) {
				evidence = append(evidence, scoredSentence{score: 1.0, text: truncateRunes(sc.text, answerSnippetLen)})
				if len(evidence) >= maxAnswerSnippets {
					break
				}
			}
		}
	}

	if len(evidence) > maxAnswerSnippets {
		evidence = evidence[:maxAnswerSnippets]
	}

	if len(evidence) > 0 {
		return "Yes — shows leadership experience.", evidence
	}
	return "Not explicitly mentioned — no clear leadership evidence found.", evidence
}

func (s *answerService) answerExperience(st *qaState) (string, []scoredSentence) {
	answer := "Years of experience are not clearly quantified."

	maxYears := 0
	found := false
	for _, m := range yearsMentionRe.FindAllStringSubmatch(st.cleanText, -1) {
		if years, err := strconv.Atoi(m[1]); err == nil {
			found = true
			if years > maxYears {
				maxYears = years
			}
		}
	}
	if found {
		answer = fmt.Sprintf("Approximately %d years of experience mentioned.", maxYears)
	}

	var evidence []scoredSentence
	for _, sc := range st.scored {
		if yearsMentionRe.MatchString(sc.text) {
			evidence = append(evidence, scoredSentence{score: 1.0, text: truncateRunes(sc.text, answerSnippetLen)})
			if len(evidence) >= maxAnswerSnippets {
				break
			}
		}
	}
	if len(evidence) == 0 {
		evidence = st.topSentences
	}

	return answer, evidence
}

func (s *answerService) answerGPA(st *qaState) (string, []scoredSentence) {
	match := gpaValueRe.FindStringSubmatch(st.cleanText)
	if match == nil {
		return "CGPA/GPA not explicitly mentioned.", nil
	}

	var evidence []scoredSentence
	for _, line := range st.lines {
		if gpaMentionRe.MatchString(line) {
			evidence = append(evidence, scoredSentence{score: 1.0, text: truncateRunes(line, sectionLineLen)})
			break
		}
	}

	return fmt.Sprintf("CGPA/GPA: %s", match[2]), evidence
}

func (s *answerService) answerEducation(st *qaState) (string, []scoredSentence) {
	eduLines := sectionSlice(st.lines, st.headings, "education", 12)

	if len(eduLines) == 0 {
		for _, line := range st.lines {
			if containsAny(line, educationLineTerms) {
				eduLines = append(eduLines, truncateRunes(line, sectionLineLen))
				if len(eduLines) >= maxAnswerSnippets {
					break
				}
			}
		}
	}

	if len(eduLines) == 0 {
		return "Education details not clearly found.", st.topSentences
	}

	headline := eduLines[0]
	for _, line := range eduLines {
		if containsAny(line, institutionTerms) {
			headline = line
			break
		}
	}

	var evidence []scoredSentence
	for i, line := range eduLines {
		if i >= maxAnswerSnippets {
			break
		}
		evidence = append(evidence, scoredSentence{score: 1.0, text: line})
	}

	return fmt.Sprintf("Education: %s", headline), evidence
}

func (s *answerService) answerProjects(st *qaState) (string, []scoredSentence) {
	wantWeb := containsAny(st.questionLower, webProjectTerms)
	wantML := containsAny(st.questionLower, mlProjectTerms)

	projectLines := sectionSlice(st.lines, st.headings, "project", 18)
	if len(projectLines) == 0 {
		for _, line := range st.lines {
			lower := strings.ToLower(line)
			if strings.Contains(lower, "project") || containsAny(lower, webProjectTerms) || containsAny(lower, mlProjectTerms) {
				projectLines = append(projectLines, truncateRunes(line, sectionLineLen))
				if len(projectLines) >= 8 {
					break
				}
			}
		}
	}

	if len(projectLines) == 0 {
		return "No explicit projects matching that topic were found.", st.topSentences
	}

	var filtered []string
	for _, line := range projectLines {
		lower := strings.ToLower(line)
		if wantWeb && !containsAny(lower, webProjectTerms) {
			continue
		}
		if wantML && !containsAny(lower, mlProjectTerms) {
			continue
		}
		// Require a project marker or an action/tech keyword to keep
		// skill-dump lines out.
		if !strings.Contains(lower, "project") && !containsAny(lower, projectActionTerms) {
			continue
		}
		filtered = append(filtered, line)
		if len(filtered) >= maxAnswerSnippets {
			break
		}
	}

	use := filtered
	if len(use) == 0 {
		use = projectLines
		if len(use) > maxAnswerSnippets {
			use = use[:maxAnswerSnippets]
		}
	}

	var answer string
	switch {
	case wantWeb:
		answer = fmt.Sprintf("Web projects: %s", use[0])
	case wantML:
		answer = fmt.Sprintf("ML projects: %s", use[0])
	default:
		answer = fmt.Sprintf("Projects: %s", use[0])
	}

	var evidence []scoredSentence
	for _, line := range use {
		evidence = append(evidence, scoredSentence{score: 1.0, text: line})
	}

	return answer, evidence
}

func (s *answerService) answerGeneral(st *qaState) (string, []scoredSentence) {
	var matching []string
	for _, sc := range st.topSentences {
		lower := strings.ToLower(sc.text)
		for token := range st.queryKeywords {
			if strings.Contains(lower, token) {
				matching = append(matching, sc.text)
				break
			}
		}
		if len(matching) >= 2 {
			break
		}
	}

	if len(matching) == 0 {
		return "I couldn't find specific information related to your question.", nil
	}

	return fmt.Sprintf("From the resume: %s", strings.Join(matching, "; ")), st.topSentences
}
