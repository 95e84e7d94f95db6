package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// CourseHandler handles course listing, creation and enrollment.
type CourseHandler struct {
	courses       service.CourseService
	enrollments   service.EnrollmentService
	announcements service.AnnouncementService
	logger        zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, enrollments service.EnrollmentService, announcements service.AnnouncementService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:       courses,
		enrollments:   enrollments,
		announcements: announcements,
		logger:        logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires the course routes.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/:id/enroll", h.enroll)
	router.Delete("/:id/enroll", h.drop)
	router.Get("/:id/announcements", h.listAnnouncements)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	result, err := h.courses.List(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", result)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.courses.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", result)
}

func (h *CourseHandler) enroll(c *fiber.Ctx) error {
	courseID := c.Params("id")

	result, err := h.enrollments.Enroll(c.Context(), actorFromContext(c), courseID)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", result)
}

func (h *CourseHandler) drop(c *fiber.Ctx) error {
	courseID := c.Params("id")

	if err := h.enrollments.Drop(c.Context(), actorFromContext(c), courseID); err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to drop enrollment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to drop enrollment")
	}

	return utils.SendSuccess(c, "enrollment dropped", nil)
}

func (h *CourseHandler) listAnnouncements(c *fiber.Ctx) error {
	courseID := c.Params("id")

	result, err := h.announcements.ListByCourse(c.Context(), actorFromContext(c), courseID)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list course announcements")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list course announcements")
	}

	return utils.SendSuccess(c, "announcements retrieved", result)
}
