// guard.go
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

// Package guard decides, per request, whether an authenticated principal
// may act on a named resource. Each endpoint registers one of a closed set
// of resource-action descriptors; the decision itself is a pure function
// over current ownership and contributor state, re-evaluated on every
// request because contributor sets change over time.
package guard

import (
	"context"

	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/types"
)

// Action is the access level a descriptor demands.
type Action string

const (
	// ActionCreate covers project creation: the declared owner in the
	// request body must be the principal.
	ActionCreate Action = "create"
	// ActionRead covers contributor-level reads of a project.
	ActionRead Action = "read"
	// ActionOwn covers destructive or owner-only project operations.
	ActionOwn Action = "own"
	// ActionContribute covers operations under a project's component and
	// interface namespace.
	ActionContribute Action = "contribute"
)

// Resource is a resource-action descriptor, resolved once per endpoint
// registration. ProjectParam names the path parameter carrying the project
// name; empty for project creation, where the target is in the body.
type Resource struct {
	Type         string
	Action       Action
	ProjectParam string
}

// The closed descriptor set.
var (
	ProjectCreate   = Resource{Type: "project", Action: ActionCreate}
	ProjectRead     = Resource{Type: "project", Action: ActionRead, ProjectParam: "projectName"}
	ProjectOwn      = Resource{Type: "project", Action: ActionOwn, ProjectParam: "projectName"}
	ComponentAccess = Resource{Type: "component", Action: ActionContribute, ProjectParam: "projectName"}
	InterfaceAccess = Resource{Type: "interface", Action: ActionContribute, ProjectParam: "projectName"}
)

// Guard evaluates access decisions against current resource state.
type Guard struct {
	Projects *services.ProjectService
}

// New creates a Guard over the project read paths.
func New(projects *services.ProjectService) *Guard {
	return &Guard{Projects: projects}
}

// Decide returns whether the principal may perform the described action.
// body carries the pre-parsed request body for descriptors that need it
// (project creation's declared owner). A missing project surfaces as
// NotFound, never as a deny.
func (g *Guard) Decide(ctx context.Context, res Resource, params map[string]string, principal services.Principal, body map[string]interface{}) (bool, error) {
	switch res.Action {
	case ActionCreate:
		owner, _ := body["owner"].(string)
		return owner != "" && owner == principal.Username, nil

	case ActionRead, ActionContribute:
		project, err := g.lookup(ctx, res, params)
		if err != nil {
			return false, err
		}
		return isContributor(project, principal.Username), nil

	case ActionOwn:
		project, err := g.lookup(ctx, res, params)
		if err != nil {
			return false, err
		}
		return project.OwnerName == principal.Username, nil
	}

	return false, nil
}

func (g *Guard) lookup(ctx context.Context, res Resource, params map[string]string) (*models.Project, error) {
	name := params[res.ProjectParam]
	if name == "" {
		return nil, types.NotFound("missing project parameter %s", res.ProjectParam)
	}
	return g.Projects.FindProject(ctx, name)
}

func isContributor(project *models.Project, username string) bool {
	return project.Contributors.Contains(models.Contributor{Username: username})
}
