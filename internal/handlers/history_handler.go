package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"careerlens/resume-assistant/internal/repositories"
	"careerlens/resume-assistant/internal/services"
)

// HistoryHandler serves stored analyses and similarity search. Its routes
// are only mounted when the corresponding backend is configured, so the
// dependencies here are never nil.
type HistoryHandler struct {
	analysisRepo repositories.AnalysisRepository
	indexService services.IndexService
}

func NewHistoryHandler(
	analysisRepo repositories.AnalysisRepository,
	indexService services.IndexService,
) *HistoryHandler {
	return &HistoryHandler{
		analysisRepo: analysisRepo,
		indexService: indexService,
	}
}

// HandleGetAnalysis handles GET /api/analyses/:id
func (h *HistoryHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	return c.JSON(analysis)
}

// HandleListRecent handles GET /api/analyses
func (h *HistoryHandler) HandleListRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	analyses, err := h.analysisRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list analyses",
		})
	}

	return c.JSON(fiber.Map{"analyses": analyses})
}

// HandleSearch handles GET /api/analyses/search
func (h *HistoryHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}

	results, err := h.indexService.SearchSimilar(c.UserContext(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search analyses",
		})
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}
