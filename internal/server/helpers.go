package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the request body into out. An empty body leaves out at
// its zero value so that field validation reports what is missing.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// paramID extracts a route parameter as a positive id.
func paramID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// authUserID returns the id stored by the auth middleware.
func authUserID(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return 0, models.NewUnauthorizedError(middleware.MsgNoToken)
	}
	return id, nil
}
