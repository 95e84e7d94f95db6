package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// OverviewHandler serves the landing overview and the student transcript.
type OverviewHandler struct {
	service service.OverviewService
	logger  zerolog.Logger
}

// NewOverviewHandler constructs the handler.
func NewOverviewHandler(service service.OverviewService, logger zerolog.Logger) *OverviewHandler {
	return &OverviewHandler{
		service: service,
		logger:  logger.With().Str("component", "overview_handler").Logger(),
	}
}

// Register wires the overview routes.
func (h *OverviewHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/transcript", h.transcript)
}

func (h *OverviewHandler) overview(c *fiber.Ctx) error {
	result, err := h.service.Overview(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "overview retrieved", result)
}

func (h *OverviewHandler) transcript(c *fiber.Ctx) error {
	result, err := h.service.Transcript(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build transcript")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build transcript")
	}

	return utils.SendSuccess(c, "transcript retrieved", result)
}
