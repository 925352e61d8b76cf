// components.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/utils"
)

// ComponentHandler handles component and interface routes
type ComponentHandler struct {
	Components *services.ComponentService
}

// ListComponents handles GET /api/projects/:projectName/components
// @Summary List the components of a project
// @Tags Components
// @Produce json
// @Param projectName path string true "Project name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{projectName}/components [get]
func (h *ComponentHandler) ListComponents(c *fiber.Ctx) error {
	components, err := h.Components.ComponentsOf(c.UserContext(), c.Params("projectName"))
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, components, fiber.StatusOK)
}

// CreateComponent handles POST /api/projects/:projectName/components
// @Summary Create a component
// @Tags Components
// @Accept json
// @Produce json
// @Param projectName path string true "Project name"
// @Param body body ComponentInput true "Component data"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components [post]
func (h *ComponentHandler) CreateComponent(c *fiber.Ctx) error {
	var input ComponentInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := requireFields(map[string]string{"name": input.Name}); err != nil {
		return err
	}

	component, err := h.Components.CreateComponent(
		c.UserContext(), c.Params("projectName"), input.Name, input.DisplayName,
	)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, component, fiber.StatusCreated)
}

// GetComponent handles GET /api/projects/:projectName/components/:componentName
// @Summary Get a component
// @Tags Components
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName} [get]
func (h *ComponentHandler) GetComponent(c *fiber.Ctx) error {
	component, err := h.Components.FindComponent(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"),
	)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, component, fiber.StatusOK)
}

// DeleteComponent handles DELETE /api/projects/:projectName/components/:componentName
// @Summary Delete a component
// @Description Removes the component and all of its interfaces
// @Tags Components
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName} [delete]
func (h *ComponentHandler) DeleteComponent(c *fiber.Ctx) error {
	component, err := h.Components.DeleteComponent(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"),
	)
	if err != nil {
		return err
	}
	return utils.DeletedResponse(c, component)
}

// ListInterfaces handles GET /api/projects/:projectName/components/:componentName/interfaces
// @Summary List the interfaces of a component
// @Tags Interfaces
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName}/interfaces [get]
func (h *ComponentHandler) ListInterfaces(c *fiber.Ctx) error {
	interfaces, err := h.Components.InterfacesOf(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"),
	)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, interfaces, fiber.StatusOK)
}

// CreateInterface handles POST /api/projects/:projectName/components/:componentName/interfaces
// @Summary Create an interface
// @Description Adds the interface and records it on the owning component
// @Tags Interfaces
// @Accept json
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Param body body InterfaceInput true "Interface data"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName}/interfaces [post]
func (h *ComponentHandler) CreateInterface(c *fiber.Ctx) error {
	var input InterfaceInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := requireFields(map[string]string{"name": input.Name}); err != nil {
		return err
	}

	iface, err := h.Components.CreateInterface(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"),
		input.Name, input.DisplayName, input.Type,
	)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, iface, fiber.StatusCreated)
}

// GetInterface handles GET /api/projects/:projectName/components/:componentName/interfaces/:interfaceName
// @Summary Get an interface
// @Tags Interfaces
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Param interfaceName path string true "Interface name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName}/interfaces/{interfaceName} [get]
func (h *ComponentHandler) GetInterface(c *fiber.Ctx) error {
	iface, err := h.Components.FindInterface(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"), c.Params("interfaceName"),
	)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, iface, fiber.StatusOK)
}

// DeleteInterface handles DELETE /api/projects/:projectName/components/:componentName/interfaces/:interfaceName
// @Summary Delete an interface
// @Description Removes the interface and unrecords it from the owning component
// @Tags Interfaces
// @Produce json
// @Param projectName path string true "Project name"
// @Param componentName path string true "Component name"
// @Param interfaceName path string true "Interface name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{projectName}/components/{componentName}/interfaces/{interfaceName} [delete]
func (h *ComponentHandler) DeleteInterface(c *fiber.Ctx) error {
	iface, err := h.Components.DeleteInterface(
		c.UserContext(), c.Params("projectName"), c.Params("componentName"), c.Params("interfaceName"),
	)
	if err != nil {
		return err
	}
	return utils.DeletedResponse(c, iface)
}
