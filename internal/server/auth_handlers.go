package server

import (
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAuthUser godoc
// @Summary Current user
// @Description Returns the authenticated user without the password hash
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth [get]
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	user, err := s.authService.CurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// Login godoc
// @Summary Authenticate user and get token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Router /auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// Register godoc
// @Summary Register user
// @Description Creates a user with a gravatar avatar and returns a token
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
