package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internbooth/placement-api/internal/service"
	"github.com/internbooth/placement-api/internal/utils"
)

// DashboardHandler serves the aggregated console overview.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register binds the dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
}

func (h *DashboardHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.GetOverview(c.Context())
	if err != nil {
		return respondServiceError(c, requestLogger(h.logger, c), err, "failed to build dashboard overview")
	}

	return utils.SendSuccess(c, "dashboard overview", overview)
}
