// data.go
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

package helpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user row directly, bypassing registration
func CreateTestUser(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	user := models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: "x",
		Email:        username + "@example.com",
		ProjectNames: models.Set[string]{},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
}

// CreateTestProject inserts a project owned by owner and links the owner's membership
func CreateTestProject(t *testing.T, db *gorm.DB, name, owner string) {
	t.Helper()
	project := models.Project{
		ProjectID:   uuid.NewString(),
		Name:        name,
		DisplayName: name,
		OwnerName:   owner,
		Contributors: models.Set[models.Contributor]{
			{Username: owner},
		},
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}

	var user models.User
	if err := db.Where("username = ?", owner).First(&user).Error; err != nil {
		t.Fatalf("Failed to find owner %s: %v", owner, err)
	}
	user.ProjectNames, _ = user.ProjectNames.Add(name)
	if err := db.Save(&user).Error; err != nil {
		t.Fatalf("Failed to link project %s to owner %s: %v", name, owner, err)
	}
}

// CreateTestComponent inserts a component row for a project
func CreateTestComponent(t *testing.T, db *gorm.DB, projectName, name string) {
	t.Helper()
	component := models.Component{
		ComponentID: uuid.NewString(),
		Name:        name,
		ProjectName: projectName,
		DisplayName: name,
		Provides:    models.Set[string]{},
	}
	if err := db.Create(&component).Error; err != nil {
		t.Fatalf("Failed to create component %s: %v", name, err)
	}
}
