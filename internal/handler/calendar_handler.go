package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// CalendarHandler handles institution-wide events and the weekly timetable.
type CalendarHandler struct {
	service service.CalendarService
	logger  zerolog.Logger
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(service service.CalendarService, logger zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		logger:  logger.With().Str("component", "calendar_handler").Logger(),
	}
}

// Register wires the calendar routes.
func (h *CalendarHandler) Register(router fiber.Router) {
	router.Get("/events", h.listEvents)
	router.Post("/events", h.addEvent)
	router.Get("/timetable", h.weeklyGrid)
}

func (h *CalendarHandler) listEvents(c *fiber.Ctx) error {
	result, err := h.service.ListEvents(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list calendar events")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list calendar events")
	}

	return utils.SendSuccess(c, "events retrieved", result)
}

func (h *CalendarHandler) addEvent(c *fiber.Ctx) error {
	var payload dto.CalendarEventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.AddEvent(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add calendar event")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to add calendar event")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event added", result)
}

func (h *CalendarHandler) weeklyGrid(c *fiber.Ctx) error {
	result, err := h.service.WeeklyGrid(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build weekly grid")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build weekly grid")
	}

	return utils.SendSuccess(c, "timetable retrieved", result)
}
