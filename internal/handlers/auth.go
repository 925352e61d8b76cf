// auth.go
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

// AuthHandler handles registration and login routes
type AuthHandler struct {
	Auth *services.AuthService
}

// Register handles POST /api/auth/register
// @Summary Register a new user
// @Description Create a user account; usernames are unique
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegistrationInput true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input RegistrationInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	if err := requireFields(map[string]string{
		"username": input.Username,
		"password": input.Password,
	}); err != nil {
		return err
	}

	user, err := h.Auth.Register(c.UserContext(), input.Username, input.Password, input.Email)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and issue a bearer session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} utils.TokenResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	principal, err := h.Auth.Authenticate(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return err
	}

	token, err := h.Auth.IssueSession(principal)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, utils.TokenResponseStruct{AccessToken: token}, fiber.StatusOK)
}
