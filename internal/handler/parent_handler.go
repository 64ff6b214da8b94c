package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/internal/utils"
)

// ParentHandler serves the parent-facing children overview.
type ParentHandler struct {
	parents    service.ParentService
	principals service.PrincipalResolver
	logger     zerolog.Logger
}

// NewParentHandler builds a parent handler instance.
func NewParentHandler(parents service.ParentService, principals service.PrincipalResolver, logger zerolog.Logger) *ParentHandler {
	return &ParentHandler{
		parents:    parents,
		principals: principals,
		logger:     logger.With().Str("component", "parent_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ParentHandler) Register(router fiber.Router) {
	router.Get("/parent/children", h.children)
}

func (h *ParentHandler) children(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	children, err := h.parents.Children(c.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrParentProfileRequired) {
			return utils.SendError(c, fiber.StatusForbidden, "forbidden")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "children retrieved", children)
}
