// project_service.go
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

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
)

// ProjectService owns every mutation of projects, contributor links and
// user membership sets. No other component writes these fields.
type ProjectService struct {
	Store *store.Store
}

// NewProjectService creates the service.
func NewProjectService(st *store.Store) *ProjectService {
	return &ProjectService{Store: st}
}

// mutate runs fn as one transaction. Typed precondition failures pass
// through unchanged; any other error aborted the transaction after
// rollback and surfaces as TransactionFailed with no partial effect.
func mutate(ctx context.Context, st *store.Store, fn func(tx *store.Store) error, format string, args ...interface{}) error {
	err := st.WithTransaction(ctx, fn)
	if err == nil {
		return nil
	}
	var de *types.DomainError
	if errors.As(err, &de) {
		return err
	}
	return types.TransactionFailed(err, format, args...)
}

// FindProject returns the project with the given name.
func (p *ProjectService) FindProject(ctx context.Context, name string) (*models.Project, error) {
	project, err := store.FindOne[models.Project](ctx, p.Store, store.Filter{"name": name})
	if err != nil {
		if types.IsNotFound(err) {
			return nil, types.NotFound("project %s does not exist", name)
		}
		return nil, err
	}
	return project, nil
}

// FindUser returns the user with the given username.
func (p *ProjectService) FindUser(ctx context.Context, username string) (*models.User, error) {
	user, err := store.FindOne[models.User](ctx, p.Store, store.Filter{"username": username})
	if err != nil {
		if types.IsNotFound(err) {
			return nil, types.NotFound("user %s does not exist", username)
		}
		return nil, err
	}
	return user, nil
}

// ProjectsOf returns every project the user contributes to, resolved
// through the user's membership set.
func (p *ProjectService) ProjectsOf(ctx context.Context, username string) ([]models.Project, error) {
	user, err := p.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(user.ProjectNames) == 0 {
		return []models.Project{}, nil
	}

	projects := make([]models.Project, 0, len(user.ProjectNames))
	for _, name := range user.ProjectNames {
		project, err := p.FindProject(ctx, name)
		if err != nil {
			if types.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

// CreateProject inserts a project owned by owner and links it into the
// owner's membership set, atomically. The owner is always the first
// contributor.
func (p *ProjectService) CreateProject(ctx context.Context, name, displayName, owner string) (*models.Project, error) {
	if _, err := p.FindUser(ctx, owner); err != nil {
		return nil, err
	}

	n, err := store.Count[models.Project](ctx, p.Store, store.Filter{"name": name})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, types.Conflict("project %s already exists", name)
	}

	project := &models.Project{
		ProjectID:    uuid.NewString(),
		Name:         name,
		DisplayName:  displayName,
		OwnerName:    owner,
		Contributors: models.Set[models.Contributor]{{Username: owner}},
	}

	err = mutate(ctx, p.Store, func(tx *store.Store) error {
		if err := store.Insert(ctx, tx, project); err != nil {
			return err
		}
		return addMembership(ctx, tx, owner, name)
	}, "create project %s", name)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project and unlinks it from every current
// contributor's membership set. If any membership cleanup fails the whole
// operation rolls back and the project survives.
func (p *ProjectService) DeleteProject(ctx context.Context, name string) (*models.Project, error) {
	var project *models.Project

	err := mutate(ctx, p.Store, func(tx *store.Store) error {
		var err error
		project, err = store.FindOneLocked[models.Project](ctx, tx, store.Filter{"name": name})
		if err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("project %s does not exist", name)
			}
			return err
		}

		rows, err := store.Delete[models.Project](ctx, tx, store.Filter{"project_id": project.ProjectID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("project %s vanished during delete", name)
		}

		for _, contributor := range project.Contributors {
			if err := removeMembership(ctx, tx, contributor.Username, name); err != nil {
				return err
			}
		}
		return nil
	}, "delete project %s", name)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// AddContributor links the user into the project's contributor set and the
// project into the user's membership set, atomically. Membership changes
// serialize on the project row lock.
func (p *ProjectService) AddContributor(ctx context.Context, projectName, username string) (*models.Project, error) {
	var project *models.Project

	err := mutate(ctx, p.Store, func(tx *store.Store) error {
		var err error
		project, err = store.FindOneLocked[models.Project](ctx, tx, store.Filter{"name": projectName})
		if err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("project %s does not exist", projectName)
			}
			return err
		}

		if _, err := store.FindOneLocked[models.User](ctx, tx, store.Filter{"username": username}); err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("user %s does not exist", username)
			}
			return err
		}

		contributors, added := project.Contributors.Add(models.Contributor{Username: username})
		if !added {
			return types.Conflict("user %s is already a contributor of %s", username, projectName)
		}

		rows, err := store.Update[models.Project](ctx, tx,
			store.Filter{"project_id": project.ProjectID},
			map[string]interface{}{"contributors": contributors})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("project %s vanished during contributor add", projectName)
		}
		project.Contributors = contributors

		return addMembership(ctx, tx, username, projectName)
	}, "add contributor %s to %s", username, projectName)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// RemoveContributor unlinks the user from both sides of the relationship,
// atomically. The owner link cannot be removed; delete the project instead.
func (p *ProjectService) RemoveContributor(ctx context.Context, projectName, username string) error {
	return mutate(ctx, p.Store, func(tx *store.Store) error {
		project, err := store.FindOneLocked[models.Project](ctx, tx, store.Filter{"name": projectName})
		if err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("project %s does not exist", projectName)
			}
			return err
		}

		if project.OwnerName == username {
			return types.Conflict("owner %s cannot be removed from %s", username, projectName)
		}

		contributors, removed := project.Contributors.Remove(models.Contributor{Username: username})
		if !removed {
			return types.NotFound("user %s is not a contributor of %s", username, projectName)
		}

		rows, err := store.Update[models.Project](ctx, tx,
			store.Filter{"project_id": project.ProjectID},
			map[string]interface{}{"contributors": contributors})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("project %s vanished during contributor removal", projectName)
		}

		return removeMembership(ctx, tx, username, projectName)
	}, "remove contributor %s from %s", username, projectName)
}

// addMembership appends projectName to the user's membership set inside an
// open transaction. The bidirectional link depends on this staying paired
// with the contributor-side write.
func addMembership(ctx context.Context, tx *store.Store, username, projectName string) error {
	user, err := store.FindOneLocked[models.User](ctx, tx, store.Filter{"username": username})
	if err != nil {
		// A missing user here is a broken link, not a caller error; the
		// plain error aborts the transaction as TransactionFailed.
		return fmt.Errorf("membership add for %s: %v", username, err)
	}

	names, added := user.ProjectNames.Add(projectName)
	if !added {
		return nil
	}

	rows, err := store.Update[models.User](ctx, tx,
		store.Filter{"user_id": user.UserID},
		map[string]interface{}{"project_names": names})
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user %s vanished during membership add", username)
	}
	return nil
}

// removeMembership is the inverse of addMembership.
func removeMembership(ctx context.Context, tx *store.Store, username, projectName string) error {
	user, err := store.FindOneLocked[models.User](ctx, tx, store.Filter{"username": username})
	if err != nil {
		return fmt.Errorf("membership removal for %s: %v", username, err)
	}

	names, removed := user.ProjectNames.Remove(projectName)
	if !removed {
		return nil
	}

	rows, err := store.Update[models.User](ctx, tx,
		store.Filter{"user_id": user.UserID},
		map[string]interface{}{"project_names": names})
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user %s vanished during membership removal", username)
	}
	return nil
}
