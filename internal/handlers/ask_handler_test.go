package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentai/resume-screener/internal/models"
)

type stubAnswerService struct {
	lastQuestion   string
	lastResumeText string
	lastID         string
	lastHistory    []models.ConversationEntry
	result         *models.AnswerResult
	err            error
}

func (s *stubAnswerService) Answer(_ context.Context, question, resumeText, conversationID string, history []models.ConversationEntry) (*models.AnswerResult, error) {
	s.lastQuestion = question
	s.lastResumeText = resumeText
	s.lastID = conversationID
	s.lastHistory = history
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newAskApp(stub *stubAnswerService) *fiber.App {
	app := fiber.New()
	app.Post("/ask", NewAskHandler(stub).HandleAsk)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, fields map[string]string) *http.Response {
	t.Helper()

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body.String()))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleAskReturnsAnswer(t *testing.T) {
	stub := &stubAnswerService{result: &models.AnswerResult{
		Answer:   "From the resume: built billing services.",
		Snippets: []string{"Built billing services in Go."},
		Scores:   []float64{0.91},
	}}
	app := newAskApp(stub)

	resp := postForm(t, app, "/ask", map[string]string{
		"question":     "What did they build?",
		"resume_text":  "Built billing services in Go.",
		"candidate_id": "cand-1",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.AnswerResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "From the resume: built billing services.", result.Answer)
	assert.Len(t, result.Snippets, 1)

	assert.Equal(t, "What did they build?", stub.lastQuestion)
	assert.Equal(t, "cand-1", stub.lastID)
}

func TestHandleAskRequiresQuestionAndResume(t *testing.T) {
	app := newAskApp(&stubAnswerService{result: &models.AnswerResult{}})

	resp := postForm(t, app, "/ask", map[string]string{"resume_text": "text"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postForm(t, app, "/ask", map[string]string{"question": "anything?"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleAskForwardsHistory(t *testing.T) {
	stub := &stubAnswerService{result: &models.AnswerResult{Answer: "ok"}}
	app := newAskApp(stub)

	history, err := json.Marshal([]models.ConversationEntry{
		{Role: "user", Text: "Does the candidate know Go?"},
		{Role: "assistant", Text: "From the resume: writes Go services."},
	})
	require.NoError(t, err)

	resp := postForm(t, app, "/ask", map[string]string{
		"question":    "And Kubernetes?",
		"resume_text": "Runs workloads on Kubernetes.",
		"history":     string(history),
	})
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, stub.lastHistory, 2)
	assert.Equal(t, "user", stub.lastHistory[0].Role)
}

func TestHandleAskIgnoresMalformedHistory(t *testing.T) {
	stub := &stubAnswerService{result: &models.AnswerResult{Answer: "ok"}}
	app := newAskApp(stub)

	resp := postForm(t, app, "/ask", map[string]string{
		"question":    "Any leadership?",
		"resume_text": "Led a platform team of five.",
		"history":     "{not json",
	})
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, stub.lastHistory)
}
