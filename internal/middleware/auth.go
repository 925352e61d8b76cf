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

package middleware

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/trackdb/internal/guard"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/types"
)

const principalKey = "principal"

// RequireAuth validates the Bearer session token and stores the principal
// in the request context. All authenticated routes pass through here
// before any authorization decision.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Missing bearer token",
				Type:    "auth.token",
			}
		}

		principal, err := auth.VerifySession(token)
		if err != nil {
			msg := "Invalid session token"
			if types.IsExpired(err) {
				msg = "Session expired"
			}
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: msg,
				Type:    "auth.token",
			}
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the authenticated principal stored by RequireAuth.
func PrincipalFrom(c *fiber.Ctx) (services.Principal, bool) {
	principal, ok := c.Locals(principalKey).(services.Principal)
	return principal, ok
}

// Authorize enforces the access decision for the endpoint's resource
// descriptor. Guard denials short-circuit before any mutator call.
func Authorize(g *guard.Guard, res guard.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "No authenticated principal",
				Type:    "auth.principal",
			}
		}

		var body map[string]interface{}
		if res.Action == guard.ActionCreate && len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &body); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusBadRequest,
					Message: "Malformed request body",
					Type:    "auth.body",
				}
			}
		}

		allowed, err := g.Decide(c.UserContext(), res, c.AllParams(), principal, body)
		if err != nil {
			return err
		}
		if !allowed {
			return types.Forbidden("%s is not allowed to %s %s",
				principal.Username, res.Action, res.Type)
		}

		return c.Next()
	}
}
