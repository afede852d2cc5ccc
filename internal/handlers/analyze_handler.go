package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cvboost/cv-analyzer/internal/models"
	"cvboost/cv-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
}

func NewAnalyzeHandler(analyzer services.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
	}
}

// HandleAnalyze handles POST /api/analyze-cv. Every pipeline fault is
// converted to the fixed {error} shape here; nothing escapes to the
// transport layer.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Requête invalide",
		})
	}

	requestID := uuid.New().String()

	result, err := h.analyzer.Analyze(c.UserContext(), &req)
	if err != nil {
		status, message := services.Classify(err)
		log.Printf("❌ [CV Analysis] request %s failed (%d): %v", requestID, status, err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	log.Printf("✅ [CV Analysis] request %s completed - score: %.0f", requestID, result.Analysis.Score)
	return c.JSON(result)
}
