// server.go
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

package server

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/trackdb/internal/config"
	"github.com/localnerve/trackdb/internal/guard"
	"github.com/localnerve/trackdb/internal/handlers"
	"github.com/localnerve/trackdb/internal/middleware"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
	"gorm.io/gorm"
)

// New wires services, middleware and routes into a Fiber app
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	// Wire services over the store
	st := store.New(db)
	authService := services.NewAuthService(st, cfg.JWTSecret,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	projectService := services.NewProjectService(st)
	componentService := services.NewComponentService(st, projectService)
	accessGuard := guard.New(projectService)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("trackdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.APIVersion())

	// Create handlers
	authHandler := &handlers.AuthHandler{Auth: authService}
	userHandler := &handlers.UserHandler{Projects: projectService}
	projectHandler := &handlers.ProjectHandler{Projects: projectService}
	componentHandler := &handlers.ComponentHandler{Components: componentService}

	// Public auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Everything below requires a valid session
	authed := api.Use(middleware.RequireAuth(authService))

	// User routes
	authed.Get("/users/:username", userHandler.GetUser)
	authed.Get("/users/:username/projects", userHandler.GetUserProjects)

	// Project routes
	authed.Post("/projects",
		middleware.Authorize(accessGuard, guard.ProjectCreate), projectHandler.CreateProject)
	authed.Get("/projects/:projectName",
		middleware.Authorize(accessGuard, guard.ProjectRead), projectHandler.GetProject)
	authed.Delete("/projects/:projectName",
		middleware.Authorize(accessGuard, guard.ProjectOwn), projectHandler.DeleteProject)

	// Contributor routes (owner only)
	authed.Put("/projects/:projectName/contributors",
		middleware.Authorize(accessGuard, guard.ProjectOwn), projectHandler.AddContributors)
	authed.Delete("/projects/:projectName/contributors/:username",
		middleware.Authorize(accessGuard, guard.ProjectOwn), projectHandler.RemoveContributor)

	// Component routes (contributors)
	authed.Get("/projects/:projectName/components",
		middleware.Authorize(accessGuard, guard.ComponentAccess), componentHandler.ListComponents)
	authed.Post("/projects/:projectName/components",
		middleware.Authorize(accessGuard, guard.ComponentAccess), componentHandler.CreateComponent)
	authed.Get("/projects/:projectName/components/:componentName",
		middleware.Authorize(accessGuard, guard.ComponentAccess), componentHandler.GetComponent)
	authed.Delete("/projects/:projectName/components/:componentName",
		middleware.Authorize(accessGuard, guard.ComponentAccess), componentHandler.DeleteComponent)

	// Interface routes (contributors)
	authed.Get("/projects/:projectName/components/:componentName/interfaces",
		middleware.Authorize(accessGuard, guard.InterfaceAccess), componentHandler.ListInterfaces)
	authed.Post("/projects/:projectName/components/:componentName/interfaces",
		middleware.Authorize(accessGuard, guard.InterfaceAccess), componentHandler.CreateInterface)
	authed.Get("/projects/:projectName/components/:componentName/interfaces/:interfaceName",
		middleware.Authorize(accessGuard, guard.InterfaceAccess), componentHandler.GetInterface)
	authed.Delete("/projects/:projectName/components/:componentName/interfaces/:interfaceName",
		middleware.Authorize(accessGuard, guard.InterfaceAccess), componentHandler.DeleteInterface)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	return app
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *fiber.Error:
		code = e.Code
		message = e.Message

	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type

	case *types.DomainError:
		message = e.Message
		errorType = string(e.Kind)
		switch e.Kind {
		case types.KindNotFound:
			code = fiber.StatusNotFound
		case types.KindConflict:
			code = fiber.StatusConflict
		case types.KindUnauthenticated, types.KindExpired:
			code = fiber.StatusUnauthorized
		case types.KindInvalid:
			code = fiber.StatusBadRequest
		case types.KindForbidden:
			code = fiber.StatusForbidden
		case types.KindTransaction:
			code = fiber.StatusInternalServerError
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
