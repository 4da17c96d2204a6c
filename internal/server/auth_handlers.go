package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterUser handles POST /api/users
// @Summary Register user
// @Description Creates an account and returns its token.
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) RegisterUser(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	token, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// Login handles POST /api/auth
// @Summary Log in
// @Description Exchanges email and password for a token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return models.Respond(c, err)
	}

	token, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

// CurrentUser handles GET /api/auth
// @Summary Current user
// @Description Returns the account of the token holder.
// @Tags auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth [get]
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	userID, err := authUserID(c)
	if err != nil {
		return models.Respond(c, err)
	}

	user, err := s.userService.Me(c.UserContext(), userID)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(user)
}
