package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"talentai/resume-screener/internal/models"
	"talentai/resume-screener/internal/services"
)

type AskHandler struct {
	answerService services.AnswerService
}

func NewAskHandler(answerService services.AnswerService) *AskHandler {
	return &AskHandler{answerService: answerService}
}

// HandleAsk handles POST /ask. It answers a free-text question about one
// candidate's resume text, optionally threading the exchange into a
// conversation identified by candidate_id.
func (h *AskHandler) HandleAsk(c *fiber.Ctx) error {
	question := c.FormValue("question")
	resumeText := c.FormValue("resume_text")
	candidateID := c.FormValue("candidate_id")

	if question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question is required",
		})
	}
	if resumeText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text is required",
		})
	}

	// Malformed history is ignored rather than rejected; the question can
	// still be answered without it.
	var history []models.ConversationEntry
	if raw := c.FormValue("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			history = nil
		}
	}

	result, err := h.answerService.Answer(c.Context(), question, resumeText, candidateID, history)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEmptyQuestion) || errors.Is(err, services.ErrEmptyResumeText) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
