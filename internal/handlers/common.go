// common.go
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
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/trackdb/internal/types"
)

// RegistrationInput is the POST /auth/register body.
type RegistrationInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginInput is the POST /auth/login body.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProjectInput is the POST /projects body.
type ProjectInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Owner       string `json:"owner"`
}

// ContributorInput names a user to link as contributor.
type ContributorInput struct {
	Username string `json:"username"`
}

// ComponentInput is the POST components body.
type ComponentInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// InterfaceInput is the POST interfaces body.
type InterfaceInput struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
}

// parseBody decodes the JSON request body into dst, mapping decode
// failures to a 400.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Malformed request body",
			Type:    "request.body",
		}
	}
	return nil
}

// requireFields rejects blank required fields; deeper shape validation is
// the delivery layer's problem, not the core's.
func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: name + " is required",
				Type:    "request.field",
			}
		}
	}
	return nil
}
