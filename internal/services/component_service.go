// component_service.go
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
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
)

// ComponentService owns every mutation of components and interfaces,
// including the cascades that keep a component's provided-interface set
// equal to its stored interfaces.
type ComponentService struct {
	Store    *store.Store
	Projects *ProjectService
}

// NewComponentService creates the service.
func NewComponentService(st *store.Store, projects *ProjectService) *ComponentService {
	return &ComponentService{Store: st, Projects: projects}
}

// FindComponent returns the named component of a project.
func (c *ComponentService) FindComponent(ctx context.Context, projectName, name string) (*models.Component, error) {
	component, err := store.FindOne[models.Component](ctx, c.Store,
		store.Filter{"name": name, "project_name": projectName})
	if err != nil {
		if types.IsNotFound(err) {
			return nil, types.NotFound("component %s of project %s does not exist", name, projectName)
		}
		return nil, err
	}
	return component, nil
}

// ComponentsOf returns all components of a project.
func (c *ComponentService) ComponentsOf(ctx context.Context, projectName string) ([]models.Component, error) {
	return store.FindMany[models.Component](ctx, c.Store, store.Filter{"project_name": projectName})
}

// FindInterface returns the named interface of a component.
func (c *ComponentService) FindInterface(ctx context.Context, projectName, componentName, name string) (*models.Interface, error) {
	iface, err := store.FindOne[models.Interface](ctx, c.Store,
		store.Filter{"name": name, "component_name": componentName, "project_name": projectName})
	if err != nil {
		if types.IsNotFound(err) {
			return nil, types.NotFound("interface %s of component %s does not exist", name, componentName)
		}
		return nil, err
	}
	return iface, nil
}

// InterfacesOf returns all interfaces a component provides.
func (c *ComponentService) InterfacesOf(ctx context.Context, projectName, componentName string) ([]models.Interface, error) {
	return store.FindMany[models.Interface](ctx, c.Store,
		store.Filter{"component_name": componentName, "project_name": projectName})
}

// CreateComponent inserts a component with an empty provided-interface set.
func (c *ComponentService) CreateComponent(ctx context.Context, projectName, name, displayName string) (*models.Component, error) {
	if _, err := c.Projects.FindProject(ctx, projectName); err != nil {
		return nil, err
	}

	n, err := store.Count[models.Component](ctx, c.Store,
		store.Filter{"name": name, "project_name": projectName})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, types.Conflict("component %s already exists in project %s", name, projectName)
	}

	component := &models.Component{
		ComponentID: uuid.NewString(),
		Name:        name,
		DisplayName: displayName,
		ProjectName: projectName,
		Provides:    models.Set[string]{},
	}
	err = mutate(ctx, c.Store, func(tx *store.Store) error {
		return store.Insert(ctx, tx, component)
	}, "create component %s in %s", name, projectName)
	if err != nil {
		return nil, err
	}
	return component, nil
}

// DeleteComponent removes the component and every interface it provides,
// atomically.
func (c *ComponentService) DeleteComponent(ctx context.Context, projectName, name string) (*models.Component, error) {
	var component *models.Component

	err := mutate(ctx, c.Store, func(tx *store.Store) error {
		var err error
		component, err = store.FindOneLocked[models.Component](ctx, tx,
			store.Filter{"name": name, "project_name": projectName})
		if err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("component %s of project %s does not exist", name, projectName)
			}
			return err
		}

		rows, err := store.Delete[models.Component](ctx, tx,
			store.Filter{"component_id": component.ComponentID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("component %s vanished during delete", name)
		}

		// Cascade: the interfaces of a deleted component must not outlive it.
		if _, err := store.Delete[models.Interface](ctx, tx,
			store.Filter{"component_name": name, "project_name": projectName}); err != nil {
			return err
		}
		return nil
	}, "delete component %s of %s", name, projectName)
	if err != nil {
		return nil, err
	}
	return component, nil
}

// CreateInterface inserts the interface and appends its name to the owning
// component's provided set, atomically. If the component disappears after
// the existence check, the zero-effect append aborts the transaction and
// the insert rolls back.
func (c *ComponentService) CreateInterface(ctx context.Context, projectName, componentName, name, displayName, ifaceType string) (*models.Interface, error) {
	if _, err := c.FindComponent(ctx, projectName, componentName); err != nil {
		return nil, err
	}

	iface := &models.Interface{
		InterfaceID:   uuid.NewString(),
		Name:          name,
		DisplayName:   displayName,
		Type:          ifaceType,
		ComponentName: componentName,
		ProjectName:   projectName,
	}

	err := mutate(ctx, c.Store, func(tx *store.Store) error {
		n, err := store.Count[models.Interface](ctx, tx,
			store.Filter{"name": name, "component_name": componentName, "project_name": projectName})
		if err != nil {
			return err
		}
		if n > 0 {
			return types.Conflict("interface %s already exists on component %s", name, componentName)
		}

		if err := store.Insert(ctx, tx, iface); err != nil {
			return err
		}

		component, err := store.FindOneLocked[models.Component](ctx, tx,
			store.Filter{"name": componentName, "project_name": projectName})
		if err != nil {
			return fmt.Errorf("component %s vanished during interface create: %v", componentName, err)
		}

		provides, added := component.Provides.Add(name)
		if !added {
			return types.Conflict("interface %s already provided by component %s", name, componentName)
		}

		rows, err := store.Update[models.Component](ctx, tx,
			store.Filter{"component_id": component.ComponentID},
			map[string]interface{}{"provides": provides})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("component %s vanished during interface create", componentName)
		}
		return nil
	}, "create interface %s on %s/%s", name, projectName, componentName)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// DeleteInterface removes the interface and pulls its name from the owning
// component's provided set, atomically.
func (c *ComponentService) DeleteInterface(ctx context.Context, projectName, componentName, name string) (*models.Interface, error) {
	var iface *models.Interface

	err := mutate(ctx, c.Store, func(tx *store.Store) error {
		var err error
		iface, err = store.FindOneLocked[models.Interface](ctx, tx,
			store.Filter{"name": name, "component_name": componentName, "project_name": projectName})
		if err != nil {
			if types.IsNotFound(err) {
				return types.NotFound("interface %s of component %s does not exist", name, componentName)
			}
			return err
		}

		rows, err := store.Delete[models.Interface](ctx, tx,
			store.Filter{"interface_id": iface.InterfaceID})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("interface %s vanished during delete", name)
		}

		component, err := store.FindOneLocked[models.Component](ctx, tx,
			store.Filter{"name": componentName, "project_name": projectName})
		if err != nil {
			return fmt.Errorf("component %s missing during interface delete: %v", componentName, err)
		}

		provides, _ := component.Provides.Remove(name)
		if _, err := store.Update[models.Component](ctx, tx,
			store.Filter{"component_id": component.ComponentID},
			map[string]interface{}{"provides": provides}); err != nil {
			return err
		}
		return nil
	}, "delete interface %s of %s/%s", name, projectName, componentName)
	if err != nil {
		return nil, err
	}
	return iface, nil
}
