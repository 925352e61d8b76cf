// projects.go
//
// A multi-tenant project and component architecture tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of trackdb.
// trackdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// trackdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with trackdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/types"
	"github.com/localnerve/trackdb/internal/utils"
)

// ProjectHandler handles project and contributor routes
type ProjectHandler struct {
	Projects *services.ProjectService
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Description The declared owner must be the authenticated principal
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body ProjectInput true "Project data"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var input ProjectInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := requireFields(map[string]string{
		"name":  input.Name,
		"owner": input.Owner,
	}); err != nil {
		return err
	}

	project, err := h.Projects.CreateProject(c.UserContext(), input.Name, input.DisplayName, input.Owner)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, project, fiber.StatusCreated)
}

// GetProject handles GET /api/projects/:projectName
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectName path string true "Project name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName} [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.Projects.FindProject(c.UserContext(), c.Params("projectName"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// DeleteProject handles DELETE /api/projects/:projectName
// @Summary Delete a project
// @Description Removes the project and unlinks every contributor
// @Tags Projects
// @Produce json
// @Param projectName path string true "Project name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName} [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	project, err := h.Projects.DeleteProject(c.UserContext(), c.Params("projectName"))
	if err != nil {
		return err
	}
	return utils.DeletedResponse(c, project)
}

// AddContributors handles PUT /api/projects/:projectName/contributors
// @Summary Add contributors
// @Description Accepts a single contributor object or a list. Entries are added one at a time; a failure partway leaves earlier additions in place and names them in the error.
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectName path string true "Project name"
// @Param body body ContributorInput true "Contributor(s)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/contributors [put]
func (h *ProjectHandler) AddContributors(c *fiber.Ctx) error {
	var input types.FlexList[ContributorInput]
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if len(input) == 0 {
		return requireFields(map[string]string{"username": ""})
	}

	names := make([]string, 0, len(input))
	for _, contributor := range input.Slice() {
		if err := requireFields(map[string]string{"username": contributor.Username}); err != nil {
			return err
		}
		names = append(names, contributor.Username)
	}

	projectName := c.Params("projectName")
	var project *models.Project
	for i, username := range names {
		updated, err := h.Projects.AddContributor(c.UserContext(), projectName, username)
		if err != nil {
			// Each add commits on its own, so tell the caller what landed
			// before the failure.
			var de *types.DomainError
			if i > 0 && errors.As(err, &de) {
				return &types.DomainError{
					Kind:    de.Kind,
					Message: fmt.Sprintf("%s (already added: %s)", de.Message, strings.Join(names[:i], ", ")),
					Err:     de.Err,
				}
			}
			return err
		}
		project = updated
	}
	return utils.SuccessResponse(c, project, fiber.StatusOK)
}

// RemoveContributor handles DELETE /api/projects/:projectName/contributors/:username
// @Summary Remove a contributor
// @Tags Projects
// @Param projectName path string true "Project name"
// @Param username path string true "Contributor username"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/contributors/{username} [delete]
func (h *ProjectHandler) RemoveContributor(c *fiber.Ctx) error {
	err := h.Projects.RemoveContributor(c.UserContext(), c.Params("projectName"), c.Params("username"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
