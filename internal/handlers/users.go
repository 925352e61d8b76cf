package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/utils"
)

// UserHandler handles user data routes
type UserHandler struct {
	Projects *services.ProjectService
}

// GetUser handles GET /api/users/:username
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.Projects.FindUser(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// GetUserProjects handles GET /api/users/:username/projects
// @Summary Get a user's projects
// @Description All projects the user contributes to
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{username}/projects [get]
func (h *UserHandler) GetUserProjects(c *fiber.Ctx) error {
	projects, err := h.Projects.ProjectsOf(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, projects, fiber.StatusOK)
}
