package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edutrack/edutrack-api/internal/dto"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/internal/utils"
)

// SubmissionHandler manages the submit, grade and comment endpoints.
type SubmissionHandler struct {
	submissions service.SubmissionService
	grading     service.GradingService
	principals  service.PrincipalResolver
	logger      zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(submissions service.SubmissionService, grading service.GradingService, principals service.PrincipalResolver, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		grading:     grading,
		principals:  principals,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The submit
// endpoint optionally sits behind a rate limiter.
func (h *SubmissionHandler) Register(router fiber.Router, submitLimiter fiber.Handler) {
	if submitLimiter != nil {
		router.Post("/submit-task", submitLimiter, h.submit)
	} else {
		router.Post("/submit-task", h.submit)
	}
	router.Patch("/submissions/:id/set_grade", h.setGrade)
	router.Get("/submissions/:id/comments", h.listComments)
	router.Post("/submissions/:id/add_comment", h.addComment)
	router.Patch("/submissions/:id/add_comment", h.addComment)
	router.Get("/teacher/submissions", h.listForTeacher)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	taskID, err := parseFormUint(c, "task_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	submission, created, err := h.submissions.Submit(c.Context(), principal, dto.SubmitTaskRequest{TaskID: taskID}, file)
	if err != nil {
		return h.handleError(c, err)
	}

	status := fiber.StatusOK
	message := "submission updated"
	if created {
		status = fiber.StatusCreated
		message = "submission created"
	}

	return utils.SendSuccessWithStatus(c, status, message, submission)
}

func (h *SubmissionHandler) setGrade(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.grading.SetGrade(c.Context(), principal, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade saved", submission)
}

func (h *SubmissionHandler) listComments(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	comments, err := h.submissions.ListComments(c.Context(), principal, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "comments retrieved", comments)
}

func (h *SubmissionHandler) addComment(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	thread, err := h.submissions.AddComment(c.Context(), principal, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", thread)
}

func (h *SubmissionHandler) listForTeacher(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	submissions, err := h.submissions.ListForTeacher(c.Context(), principal)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrSubmissionForbidden), errors.Is(err, service.ErrGradeForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrStudentProfileRequired), errors.Is(err, service.ErrTeacherProfileRequired):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrEmptyComment):
		return utils.SendError(c, fiber.StatusBadRequest, "comment text is required")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
