package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// AnnouncementHandler handles course notices.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Register wires the announcement routes.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.post)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list announcements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list announcements")
	}

	return utils.SendSuccess(c, "announcements retrieved", result)
}

func (h *AnnouncementHandler) post(c *fiber.Ctx) error {
	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Post(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to post announcement")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to post announcement")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement posted", result)
}
