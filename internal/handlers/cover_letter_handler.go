package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerlens/resume-assistant/internal/apperr"
	"careerlens/resume-assistant/internal/models"
	"careerlens/resume-assistant/internal/services"
)

type CoverLetterHandler struct {
	storageService services.StorageService
	analyzer       services.AnalyzerService
	worker         services.Worker
	devMode        bool
}

func NewCoverLetterHandler(
	storageService services.StorageService,
	analyzer services.AnalyzerService,
	worker services.Worker,
	devMode bool,
) *CoverLetterHandler {
	return &CoverLetterHandler{
		storageService: storageService,
		analyzer:       analyzer,
		worker:         worker,
		devMode:        devMode,
	}
}

// HandleGenerate handles POST /api/generate-cover-letter
func (h *CoverLetterHandler) HandleGenerate(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return respondError(c, h.devMode, apperr.Validation("Resume file is required"))
	}

	jobDescription := strings.TrimSpace(c.FormValue("jobDescription"))
	if jobDescription == "" {
		return respondError(c, h.devMode, apperr.Validation("Job description is required"))
	}

	upload, err := h.storageService.SaveUpload(fileHeader)
	if err != nil {
		return respondError(c, h.devMode, err)
	}
	defer services.Cleanup(h.storageService, upload)

	outcome, err := h.analyzer.CoverLetterFromResume(c.UserContext(), upload.StoragePath, jobDescription)
	if err != nil {
		return respondError(c, h.devMode, err)
	}

	h.worker.Enqueue(services.RecordJob{
		Record: &models.Analysis{
			ID:               uuid.New(),
			Kind:             models.KindCoverLetter,
			OriginalFileName: upload.OriginalName,
			CoverLetter:      &outcome.Result.CoverLetter,
			UsedFallback:     outcome.UsedFallback,
		},
		Excerpt: outcome.SourceText,
	})

	return c.JSON(outcome.Result)
}

// HandleGenerateFromText handles POST /api/generate-cover-letter/text
func (h *CoverLetterHandler) HandleGenerateFromText(c *fiber.Ctx) error {
	var req models.TextCoverLetterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondEnvelopeError(c, h.devMode, apperr.Validation("Invalid request payload"))
	}

	jobDescription := strings.TrimSpace(req.JobDescription)
	skillsExperience := strings.TrimSpace(req.SkillsExperience)
	if jobDescription == "" || skillsExperience == "" {
		return respondEnvelopeError(c, h.devMode, apperr.Validation("Both job description and skills/experience are required"))
	}

	outcome, err := h.analyzer.CoverLetterFromText(c.UserContext(), skillsExperience, jobDescription)
	if err != nil {
		return respondEnvelopeError(c, h.devMode, err)
	}

	h.worker.Enqueue(services.RecordJob{
		Record: &models.Analysis{
			ID:           uuid.New(),
			Kind:         models.KindCoverLetterText,
			CoverLetter:  &outcome.Result.CoverLetter,
			UsedFallback: outcome.UsedFallback,
		},
		Excerpt: outcome.SourceText,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    outcome.Result,
	})
}
