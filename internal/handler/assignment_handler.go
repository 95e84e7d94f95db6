package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/arkield/campus-api/internal/dto"
	"github.com/arkield/campus-api/internal/service"
	"github.com/arkield/campus-api/internal/utils"
)

// AssignmentHandler handles assignments, submissions and grading.
type AssignmentHandler struct {
	assignments service.AssignmentService
	submissions service.SubmissionService
	grading     service.GradingService
	logger      zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments service.AssignmentService, submissions service.SubmissionService, grading service.GradingService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		submissions: submissions,
		grading:     grading,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register wires the assignment routes.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id/submissions", h.listSubmissions)
	router.Post("/:id/submissions", h.submit)
}

// RegisterSubmissions wires the submission-scoped routes.
func (h *AssignmentHandler) RegisterSubmissions(router fiber.Router) {
	router.Post("/:id/grade", h.grade)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	result, err := h.assignments.List(c.Context(), actorFromContext(c))
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", result)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.assignments.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create assignment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create assignment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", result)
}

func (h *AssignmentHandler) listSubmissions(c *fiber.Ctx) error {
	assignmentID := c.Params("id")

	result, err := h.submissions.ListByAssignment(c.Context(), actorFromContext(c), assignmentID)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list submissions")
	}

	return utils.SendSuccess(c, "submissions retrieved", result)
}

func (h *AssignmentHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitWorkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.AssignmentID = c.Params("id")

	result, err := h.submissions.SubmitWork(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit work")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit work")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "work submitted", result)
}

func (h *AssignmentHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.SubmissionID = c.Params("id")

	result, err := h.grading.Grade(c.Context(), actorFromContext(c), payload)
	if err != nil {
		if errors.Is(err, service.ErrDanglingReference) {
			return utils.SendError(c, fiber.StatusNotFound, "submission not found")
		}
		if status, ok := statusForDomainError(err); ok {
			return utils.SendError(c, status, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to publish grade")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to publish grade")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grade published", result)
}
