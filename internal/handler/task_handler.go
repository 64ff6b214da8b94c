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

// TaskHandler manages the task feed and teacher task management.
type TaskHandler struct {
	tasks      service.TaskService
	activity   service.ActivityService
	principals service.PrincipalResolver
	logger     zerolog.Logger
}

// NewTaskHandler builds a task handler instance.
func NewTaskHandler(tasks service.TaskService, activity service.ActivityService, principals service.PrincipalResolver, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:      tasks,
		activity:   activity,
		principals: principals,
		logger:     logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The teacher
// routes are expected to sit behind a teacher role guard.
func (h *TaskHandler) Register(router fiber.Router, teacherGuard fiber.Handler) {
	router.Get("/my-tasks", h.myTasks)

	teacher := router.Group("/teacher", teacherGuard)
	teacher.Post("/tasks/create", h.createTask)
	teacher.Get("/students", h.roster)
	teacher.Get("/activity", h.listActivity)
}

func (h *TaskHandler) myTasks(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	feed, err := h.tasks.MyTasks(c.Context(), principal)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "tasks retrieved", feed)
}

func (h *TaskHandler) createTask(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.tasks.CreateForGroup(c.Context(), principal, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", created)
}

func (h *TaskHandler) roster(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	roster, err := h.tasks.Roster(c.Context(), principal)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "students retrieved", roster)
}

func (h *TaskHandler) listActivity(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	if principal.Teacher == nil {
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	}

	req := dto.ActivityListRequest{
		Page:       parseQueryInt(c, "page"),
		PageSize:   parseQueryInt(c, "page_size"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	entries, err := h.activity.List(c.Context(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", entries)
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "group not found")
	case errors.Is(err, service.ErrStudentProfileRequired), errors.Is(err, service.ErrTeacherProfileRequired):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
