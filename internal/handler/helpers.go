package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/edutrack/edutrack-api/internal/auth"
	"github.com/edutrack/edutrack-api/internal/service"
	"github.com/edutrack/edutrack-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseFormUint(c *fiber.Ctx, key string) (uint, error) {
	value := c.FormValue(key)
	if value == "" {
		return 0, errors.New("missing " + key)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) int {
	value := c.Query(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

// resolvePrincipal loads the acting principal for the request or writes
// the 401 response and reports false.
func resolvePrincipal(c *fiber.Ctx, resolver service.PrincipalResolver) (auth.Principal, bool) {
	userID := userIDFromContext(c)
	if userID == 0 {
		_ = utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}

	principal, err := resolver.Resolve(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			_ = utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
			return auth.Principal{}, false
		}
		_ = utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		return auth.Principal{}, false
	}

	return principal, true
}
