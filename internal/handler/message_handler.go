package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// MessageHandler handles course-scoped discussion threads.
type MessageHandler struct {
	service service.MessageService
	logger  zerolog.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(service service.MessageService, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger.With().Str("component", "message_handler").Logger(),
	}
}

// Register wires the thread routes.
func (h *MessageHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.post)
	router.Post("/:id/replies", h.reply)
}

func (h *MessageHandler) list(c *fiber.Ctx) error {
	result, err := h.service.ListThreads(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list threads")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list threads")
	}

	return utils.SendSuccess(c, "threads retrieved", result)
}

func (h *MessageHandler) post(c *fiber.Ctx) error {
	var payload dto.ThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.PostThread(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to start thread")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to start thread")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread started", result)
}

func (h *MessageHandler) reply(c *fiber.Ctx) error {
	var payload dto.ThreadReplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.ThreadID = c.Params("id")

	result, err := h.service.Reply(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "thread not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reply to thread")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reply to thread")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply posted", result)
}
