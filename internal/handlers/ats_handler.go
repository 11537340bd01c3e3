package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerlens/resume-assistant/internal/apperr"
	"careerlens/resume-assistant/internal/models"
	"careerlens/resume-assistant/internal/services"
)

type ATSHandler struct {
	storageService services.StorageService
	analyzer       services.AnalyzerService
	worker         services.Worker
	devMode        bool
}

func NewATSHandler(
	storageService services.StorageService,
	analyzer services.AnalyzerService,
	worker services.Worker,
	devMode bool,
) *ATSHandler {
	return &ATSHandler{
		storageService: storageService,
		analyzer:       analyzer,
		worker:         worker,
		devMode:        devMode,
	}
}

// HandleATSCheck handles POST /api/ats-check
func (h *ATSHandler) HandleATSCheck(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return respondError(c, h.devMode, apperr.Validation("Resume file is required"))
	}

	upload, err := h.storageService.SaveUpload(fileHeader)
	if err != nil {
		return respondError(c, h.devMode, err)
	}
	// The uploaded file lives exactly as long as this request
	defer services.Cleanup(h.storageService, upload)

	outcome, err := h.analyzer.ATSCheck(c.UserContext(), upload.StoragePath)
	if err != nil {
		return respondError(c, h.devMode, err)
	}

	h.worker.Enqueue(services.RecordJob{
		Record: &models.Analysis{
			ID:               uuid.New(),
			Kind:             models.KindATSCheck,
			OriginalFileName: upload.OriginalName,
			Score:            &outcome.Result.Score,
			UsedFallback:     outcome.UsedFallback,
		},
		Excerpt: outcome.SourceText,
	})

	return c.JSON(outcome.Result)
}
