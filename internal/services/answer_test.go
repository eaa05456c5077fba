package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentai/resume-screener/internal/models"
)

func newTestAnswerService(store *ChatStore) AnswerService {
	return NewAnswerService(&stubEmbedder{}, NewTextChunker(), store, 400)
}

func TestAnswerLeadershipIntent(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Led a team of 5 engineers to deliver the platform. Maintained release automation for the organization."
	result, err := svc.Answer(context.Background(), "Did they lead a team?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Yes — shows leadership experience.", result.Answer)
	require.NotEmpty(t, result.Snippets)
	assert.Contains(t, result.Snippets[0], "Led a team of 5 engineers")
	assert.Equal(t, 1.0, result.Scores[0])
}

func TestAnswerLeadershipNegative(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Wrote documentation for internal tooling used across departments. Reviewed pull requests for the compiler project."
	result, err := svc.Answer(context.Background(), "Did they lead a team?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Not explicitly mentioned — no clear leadership evidence found.", result.Answer)
	assert.Empty(t, result.Snippets)
}

func TestAnswerExperienceYears(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Spent 3 years building embedded firmware for industrial sensors. Then accumulated 7 years of distributed systems work afterwards."
	result, err := svc.Answer(context.Background(), "How many years of experience do they have?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Approximately 7 years of experience mentioned.", result.Answer)
	require.NotEmpty(t, result.Snippets)
}

func TestAnswerExperienceUnquantified(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Substantial background building distributed systems for finance. Deep familiarity with streaming infrastructure at scale."
	result, err := svc.Answer(context.Background(), "How much experience do they have?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "Years of experience are not clearly quantified.", result.Answer)
}

func TestAnswerGPAFound(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Graduated with distinction holding CGPA 8.7 across all terms. Completed coursework in algorithms and databases."
	result, err := svc.Answer(context.Background(), "What is their CGPA?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "CGPA/GPA: 8.7", result.Answer)
	require.Len(t, result.Snippets, 1)
	assert.Contains(t, result.Snippets[0], "CGPA 8.7")
}

func TestAnswerGPAMissing(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Graduated from a well regarded engineering program with honors. Completed coursework in algorithms and databases."
	result, err := svc.Answer(context.Background(), "What is their CGPA?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "CGPA/GPA not explicitly mentioned.", result.Answer)
	assert.Empty(t, result.Snippets)
}

func TestAnswerEducationSection(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Education\nBachelor of Technology from Example Institute of Technology\nCompleted advanced coursework in distributed computing systems\n"
	result, err := svc.Answer(context.Background(), "What is their education background?", text, "", nil)
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "Education: ")
	assert.Contains(t, result.Answer, "Example Institute of Technology")
	require.NotEmpty(t, result.Snippets)
}

func TestAnswerProjectsWebOriented(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Projects\nBuilt a React web dashboard for warehouse inventory tracking\nDeveloped a machine learning model for demand prediction workloads\n"
	result, err := svc.Answer(context.Background(), "Tell me about their web projects", text, "", nil)
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "Web projects: ")
	assert.Contains(t, result.Answer, "React web dashboard")
	for _, snippet := range result.Snippets {
		assert.Contains(t, snippet, "web")
	}
}

func TestAnswerGeneralFallback(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Enjoys painting landscapes and hiking with friends on weekends. Volunteers at the local animal shelter every month."
	result, err := svc.Answer(context.Background(), "Do they enjoy painting?", text, "", nil)
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "From the resume: ")
	assert.Contains(t, result.Answer, "painting")
}

func TestAnswerGeneralNotFound(t *testing.T) {
	svc := newTestAnswerService(nil)

	text := "Maintained legacy inventory software for a retail chain. Upgraded warehouse scanning hardware across locations."
	result, err := svc.Answer(context.Background(), "zzzunknown qqqtopic?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "I couldn't find specific information related to your question.", result.Answer)
	assert.Empty(t, result.Snippets)
}

func TestAnswerAppendsConversation(t *testing.T) {
	store := NewChatStore(time.Hour, 60)
	svc := newTestAnswerService(store)

	text := "Led a team of 5 engineers to deliver the platform. Maintained release automation for the organization."
	result, err := svc.Answer(context.Background(), "Did they lead a team?", text, "conv-1", nil)
	require.NoError(t, err)

	messages := store.Get("conv-1")
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "Did they lead a team?", messages[0].Text)
	assert.Equal(t, "assistant", messages[1].Role)
	assert.Equal(t, result.Answer, messages[1].Text)
}

func TestAnswerDeterministic(t *testing.T) {
	svc := NewAnswerService(bagEmbedder{}, NewTextChunker(), nil, 400)

	text := "Led a team of 5 engineers to deliver the platform. Spent 4 years working on payment infrastructure systems."
	first, err := svc.Answer(context.Background(), "Did they lead a team?", text, "", nil)
	require.NoError(t, err)
	second, err := svc.Answer(context.Background(), "Did they lead a team?", text, "", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnswerTransientHistoryBiasesQueryOnly(t *testing.T) {
	svc := newTestAnswerService(nil)

	history := []models.ConversationEntry{
		{Role: "user", Text: "Earlier we discussed their deployment pipeline responsibilities"},
	}

	text := "Led a team of 5 engineers to deliver the platform. Maintained release automation for the organization."
	result, err := svc.Answer(context.Background(), "Did they lead a team?", text, "", history)
	require.NoError(t, err)

	// Intent detection still sees the literal question.
	assert.Equal(t, "Yes — shows leadership experience.", result.Answer)
}

func TestAnswerInputErrors(t *testing.T) {
	svc := newTestAnswerService(nil)

	_, err := svc.Answer(context.Background(), "  ", "some resume text", "", nil)
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = svc.Answer(context.Background(), "A question?", "   ", "", nil)
	assert.ErrorIs(t, err, ErrEmptyResumeText)
}
