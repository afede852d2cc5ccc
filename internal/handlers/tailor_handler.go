package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"cvboost/cv-analyzer/internal/models"
	"cvboost/cv-analyzer/internal/services"
)

type TailorHandler struct {
	tailor services.TailorService
}

func NewTailorHandler(tailor services.TailorService) *TailorHandler {
	return &TailorHandler{
		tailor: tailor,
	}
}

// HandleSuggest handles POST /api/llm/suggest.
func (h *TailorHandler) HandleSuggest(c *fiber.Ctx) error {
	var req models.TailoringRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Requête invalide",
		})
	}
	if req.ResumeText == "" || req.JobText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resumeText et jobText requis",
		})
	}

	plan, err := h.tailor.GenerateSuggestions(c.UserContext(), req.ResumeText, req.JobText)
	if err != nil {
		status, message := services.Classify(err)
		log.Printf("❌ [Suggest] request failed (%d): %v", status, err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.JSON(plan)
}

// HandleLetter handles POST /api/llm/letter.
func (h *TailorHandler) HandleLetter(c *fiber.Ctx) error {
	var req models.LetterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Requête invalide",
		})
	}
	if req.ResumeText == "" || req.JobText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resumeText et jobText requis",
		})
	}

	text, err := h.tailor.GenerateLetter(c.UserContext(), &req)
	if err != nil {
		status, message := services.Classify(err)
		log.Printf("❌ [Letter] request failed (%d): %v", status, err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.JSON(models.LetterResponse{Text: text})
}
