package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/internal/utils"
)

// RankingHandler serves the leaderboard and progress endpoints.
type RankingHandler struct {
	rankings   service.RankingService
	principals service.PrincipalResolver
	logger     zerolog.Logger
}

// NewRankingHandler builds a ranking handler instance.
func NewRankingHandler(rankings service.RankingService, principals service.PrincipalResolver, logger zerolog.Logger) *RankingHandler {
	return &RankingHandler{
		rankings:   rankings,
		principals: principals,
		logger:     logger.With().Str("component", "ranking_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RankingHandler) Register(router fiber.Router) {
	router.Get("/top-ranking", h.globalTop)
	router.Get("/ranking/group/:group_id", h.groupLeaderboard)
	router.Get("/students/:id/progress", h.progress)
}

func (h *RankingHandler) globalTop(c *fiber.Ctx) error {
	entries, err := h.rankings.GlobalTop(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking retrieved", entries)
}

func (h *RankingHandler) groupLeaderboard(c *fiber.Ctx) error {
	principal, ok := resolvePrincipal(c, h.principals)
	if !ok {
		return nil
	}

	groupID, err := parseUintParam(c, "group_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	leaderboard, err := h.rankings.GroupLeaderboard(c.Context(), principal, groupID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "group ranking retrieved", leaderboard)
}

func (h *RankingHandler) progress(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	progress, err := h.rankings.StudentProgress(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "progress retrieved", progress)
}

func (h *RankingHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "group not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
