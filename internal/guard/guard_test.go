package guard

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/services"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
	"gorm.io/gorm"
)

func setupGuard(t *testing.T) (*Guard, *services.ProjectService, *store.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Project{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	st := store.New(db)
	projects := services.NewProjectService(st)
	return New(projects), projects, st
}

func seedProject(t *testing.T, projects *services.ProjectService, st *store.Store, name, owner string, contributors ...string) {
	t.Helper()
	ctx := context.Background()

	for _, username := range append([]string{owner}, contributors...) {
		user := &models.User{
			UserID:       uuid.NewString(),
			Username:     username,
			PasswordHash: "x",
			ProjectNames: models.Set[string]{},
		}
		if err := store.Insert(ctx, st, user); err != nil {
			t.Fatalf("Failed to insert user %s: %v", username, err)
		}
	}

	if _, err := projects.CreateProject(ctx, name, name, owner); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	for _, username := range contributors {
		if _, err := projects.AddContributor(ctx, name, username); err != nil {
			t.Fatalf("AddContributor failed: %v", err)
		}
	}
}

func TestProjectCreateRequiresDeclaredOwner(t *testing.T) {
	g, _, _ := setupGuard(t)
	ctx := context.Background()
	alice := services.Principal{UserID: "id-1", Username: "alice"}

	allowed, err := g.Decide(ctx, ProjectCreate, nil, alice,
		map[string]interface{}{"owner": "alice"})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !allowed {
		t.Error("Expected allow when declared owner is the principal")
	}

	// Declaring someone else as owner is denied
	allowed, err = g.Decide(ctx, ProjectCreate, nil, alice,
		map[string]interface{}{"owner": "bob"})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if allowed {
		t.Error("Expected deny when declared owner differs from the principal")
	}

	// A missing owner field is denied, not an error
	allowed, err = g.Decide(ctx, ProjectCreate, nil, alice, map[string]interface{}{})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if allowed {
		t.Error("Expected deny for missing owner field")
	}
}

func TestOwnerOnlyActions(t *testing.T) {
	g, projects, st := setupGuard(t)
	seedProject(t, projects, st, "alpha", "alice", "bob")
	ctx := context.Background()
	params := map[string]string{"projectName": "alpha"}

	allowed, err := g.Decide(ctx, ProjectOwn, params,
		services.Principal{Username: "alice"}, nil)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !allowed {
		t.Error("Expected owner allowed for owner-only action")
	}

	// A contributor is not the owner
	allowed, err = g.Decide(ctx, ProjectOwn, params,
		services.Principal{Username: "bob"}, nil)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if allowed {
		t.Error("Expected contributor denied for owner-only action")
	}
}

func TestContributorActions(t *testing.T) {
	g, projects, st := setupGuard(t)
	seedProject(t, projects, st, "alpha", "alice", "bob")
	ctx := context.Background()
	params := map[string]string{"projectName": "alpha"}

	for _, res := range []Resource{ProjectRead, ComponentAccess, InterfaceAccess} {
		for _, username := range []string{"alice", "bob"} {
			allowed, err := g.Decide(ctx, res, params,
				services.Principal{Username: username}, nil)
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}
			if !allowed {
				t.Errorf("Expected %s allowed for %s action on %s", username, res.Action, res.Type)
			}
		}

		allowed, err := g.Decide(ctx, res, params,
			services.Principal{Username: "mallory"}, nil)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if allowed {
			t.Errorf("Expected outsider denied for %s action on %s", res.Action, res.Type)
		}
	}
}

func TestMissingProjectSurfacesNotFound(t *testing.T) {
	g, _, _ := setupGuard(t)
	params := map[string]string{"projectName": "missing"}

	_, err := g.Decide(context.Background(), ProjectRead, params,
		services.Principal{Username: "alice"}, nil)
	if !types.IsNotFound(err) {
		t.Errorf("Expected not found for missing project, got %v", err)
	}
}

func TestContributorRevocationTakesEffect(t *testing.T) {
	g, projects, st := setupGuard(t)
	seedProject(t, projects, st, "alpha", "alice", "bob")
	ctx := context.Background()
	params := map[string]string{"projectName": "alpha"}
	bob := services.Principal{Username: "bob"}

	allowed, err := g.Decide(ctx, ComponentAccess, params, bob, nil)
	if err != nil || !allowed {
		t.Fatalf("Expected bob allowed before revocation, got allowed=%v err=%v", allowed, err)
	}

	if err := projects.RemoveContributor(ctx, "alpha", "bob"); err != nil {
		t.Fatalf("RemoveContributor failed: %v", err)
	}

	// The decision re-reads current state, so revocation applies immediately
	allowed, err = g.Decide(ctx, ComponentAccess, params, bob, nil)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if allowed {
		t.Error("Expected bob denied after revocation")
	}
}
