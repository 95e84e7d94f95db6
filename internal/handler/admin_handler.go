package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// AdminHandler handles account management, the audit trail and snapshots.
type AdminHandler struct {
	users    service.UserService
	activity service.ActivityService
	snapshot service.SnapshotService
	logger   zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(users service.UserService, activity service.ActivityService, snapshot service.SnapshotService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:    users,
		activity: activity,
		snapshot: snapshot,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the admin routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/users", h.listUsers)
	router.Post("/users", h.addUser)
	router.Patch("/users/:id/role", h.changeRole)
	router.Get("/activity", h.listActivity)
	router.Get("/snapshot", h.exportSnapshot)
	router.Post("/snapshot", h.importSnapshot)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	result, err := h.users.List(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", result)
}

func (h *AdminHandler) addUser(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.users.AddUser(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to add user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to add user")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", result)
}

func (h *AdminHandler) changeRole(c *fiber.Ctx) error {
	var payload dto.RoleChangeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.users.ChangeRole(c.Context(), actorFromContext(c), c.Params("id"), payload)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to change role")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to change role")
	}

	return utils.SendSuccess(c, "role changed", result)
}

func (h *AdminHandler) listActivity(c *fiber.Ctx) error {
	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.activity.List(c.Context(), req)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity retrieved", result)
}

func (h *AdminHandler) exportSnapshot(c *fiber.Ctx) error {
	result, err := h.snapshot.Export(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export snapshot")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export snapshot")
	}

	return utils.SendSuccess(c, "snapshot exported", result)
}

func (h *AdminHandler) importSnapshot(c *fiber.Ctx) error {
	result, err := h.snapshot.Import(c.Context(), actorFromContext(c), c.Body())
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Warn().Err(err).Msg("snapshot import rejected")
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendSuccess(c, "snapshot imported", result)
}
