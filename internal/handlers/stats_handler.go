package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cvboost/cv-analyzer/internal/ratelimit"
)

type StatsHandler struct {
	limiter  *ratelimit.Limiter
	adminKey string
}

func NewStatsHandler(limiter *ratelimit.Limiter, adminKey string) *StatsHandler {
	return &StatsHandler{
		limiter:  limiter,
		adminKey: adminKey,
	}
}

// HandleStats handles GET /api/rate-limit-stats, guarded by the x-admin-key
// header when ADMIN_KEY is configured.
func (h *StatsHandler) HandleStats(c *fiber.Ctx) error {
	if h.adminKey != "" && c.Get("x-admin-key") != h.adminKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Accès non autorisé",
		})
	}

	stats, err := h.limiter.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Erreur lors de la récupération des statistiques",
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"stats":     stats,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
