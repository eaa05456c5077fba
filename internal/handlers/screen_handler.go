package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentai/resume-screener/internal/models"
	"talentai/resume-screener/internal/services"
)

type ScreenHandler struct {
	pdfParser   services.PDFParserService
	enrichment  services.EnrichmentService
	scorer      services.ScorerService
	maxResumes  int
	maxFileSize int64
}

func NewScreenHandler(
	pdfParser services.PDFParserService,
	enrichment services.EnrichmentService,
	scorer services.ScorerService,
	maxResumes int,
	maxFileSize int64,
) *ScreenHandler {
	return &ScreenHandler{
		pdfParser:   pdfParser,
		enrichment:  enrichment,
		scorer:      scorer,
		maxResumes:  maxResumes,
		maxFileSize: maxFileSize,
	}
}

// HandleScreen handles POST /screen and POST /search. Both take a free-text
// query ("job_description" or "query") plus uploaded resume PDFs and return
// candidates ranked by match percentage.
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	start := time.Now()

	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		jobDescription = c.FormValue("query")
	}
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job description cannot be empty",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File["resumes"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one resume must be provided",
		})
	}
	if len(files) > h.maxResumes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("too many resumes. Max: %d", h.maxResumes),
		})
	}

	var resumes []models.ProcessedResume
	for _, file := range files {
		if file.Filename == "" {
			continue
		}
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("file %s too large. Max size: %d bytes", file.Filename, h.maxFileSize),
			})
		}

		resume, err := h.processResume(c, file.Filename, file)
		if err != nil {
			log.Printf("⚠️  Error processing %s: %v\n", file.Filename, err)
			continue
		}
		resumes = append(resumes, *resume)
	}

	if len(resumes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no valid resumes could be processed",
		})
	}

	candidates, err := h.scorer.ScoreResumes(c.Context(), jobDescription, resumes)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrEmptyJobDescription) ||
			errors.Is(err, services.ErrNoResumes) ||
			errors.Is(err, services.ErrNoValidResumes) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Response ids are assigned here; the scorer's output is deterministic.
	for i := range candidates {
		candidates[i].ID = uuid.New().String()
	}

	return c.JSON(models.ScreenResponse{
		Candidates:     candidates,
		JobDescription: jobDescription,
		AnalysisTime:   time.Since(start).Seconds(),
	})
}

func (h *ScreenHandler) processResume(c *fiber.Ctx, filename string, file *multipart.FileHeader) (*models.ProcessedResume, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	text, err := h.pdfParser.ExtractText(content, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	enrichments := h.enrichment.Enrich(c.Context(), text)

	return &models.ProcessedResume{
		Name:        h.enrichment.InferName(enrichments.Entities, text, filename),
		Filename:    filename,
		RawText:     text,
		Enrichments: enrichments,
	}, nil
}
