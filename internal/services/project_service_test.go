package services

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/store"
	"github.com/localnerve/trackdb/internal/types"
	"gorm.io/gorm"
)

// writeFault fails the next update or delete against one table, so tests
// can break a mutation between its first and second write.
type writeFault struct {
	table string
}

func (f *writeFault) arm(table string) {
	f.table = table
}

func (f *writeFault) hook(db *gorm.DB) {
	if f.table != "" && db.Statement.Table == f.table {
		f.table = ""
		db.AddError(errors.New("injected write failure"))
	}
}

// setupFaultyDB is setupTestDB plus an armable write fault.
func setupFaultyDB(t *testing.T) (*store.Store, *writeFault) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Component{},
		&models.Interface{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	fault := &writeFault{}
	if err := db.Callback().Update().Before("gorm:update").Register("write_fault", fault.hook); err != nil {
		t.Fatalf("Failed to register update fault: %v", err)
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("write_fault", fault.hook); err != nil {
		t.Fatalf("Failed to register delete fault: %v", err)
	}
	return store.New(db), fault
}

func insertUser(t *testing.T, st *store.Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: "x",
		ProjectNames: models.Set[string]{},
	}
	if err := store.Insert(context.Background(), st, user); err != nil {
		t.Fatalf("Failed to insert user %s: %v", username, err)
	}
	return user
}

func TestCreateProjectLinksOwner(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")

	project, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if project.OwnerName != "alice" {
		t.Errorf("Expected owner alice, got %s", project.OwnerName)
	}
	if !project.Contributors.Contains(models.Contributor{Username: "alice"}) {
		t.Error("Expected owner in contributor set")
	}

	// The owner's membership set must carry the reverse link
	user, err := projects.FindUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if !user.ProjectNames.Contains("alpha") {
		t.Error("Expected alpha in owner's membership set")
	}
}

func TestCreateProjectUnknownOwner(t *testing.T) {
	projects := NewProjectService(setupTestDB(t))

	_, err := projects.CreateProject(context.Background(), "alpha", "Alpha", "nobody")
	if !types.IsNotFound(err) {
		t.Errorf("Expected not found for unknown owner, got %v", err)
	}
}

func TestCreateProjectDuplicateName(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	_, err := projects.CreateProject(ctx, "alpha", "Other", "alice")
	if !types.IsConflict(err) {
		t.Errorf("Expected conflict for duplicate project, got %v", err)
	}
}

func TestAddContributorExactlyOnce(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	insertUser(t, st, "bob")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	project, err := projects.AddContributor(ctx, "alpha", "bob")
	if err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}
	if !project.Contributors.Contains(models.Contributor{Username: "bob"}) {
		t.Error("Expected bob in contributor set")
	}

	bob, err := projects.FindUser(ctx, "bob")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if !bob.ProjectNames.Contains("alpha") {
		t.Error("Expected alpha in bob's membership set")
	}

	// Adding again is a conflict, not a silent no-op
	_, err = projects.AddContributor(ctx, "alpha", "bob")
	if !types.IsConflict(err) {
		t.Errorf("Expected conflict for duplicate contributor, got %v", err)
	}

	project, err = projects.FindProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindProject failed: %v", err)
	}
	if len(project.Contributors) != 2 {
		t.Errorf("Expected 2 contributors, got %d", len(project.Contributors))
	}
}

func TestAddContributorUnknownTargets(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if _, err := projects.AddContributor(ctx, "missing", "alice"); !types.IsNotFound(err) {
		t.Errorf("Expected not found for missing project, got %v", err)
	}
	if _, err := projects.AddContributor(ctx, "alpha", "nobody"); !types.IsNotFound(err) {
		t.Errorf("Expected not found for missing user, got %v", err)
	}
}

func TestRemoveContributor(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	insertUser(t, st, "bob")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := projects.AddContributor(ctx, "alpha", "bob"); err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}

	if err := projects.RemoveContributor(ctx, "alpha", "bob"); err != nil {
		t.Fatalf("RemoveContributor failed: %v", err)
	}

	project, err := projects.FindProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindProject failed: %v", err)
	}
	if project.Contributors.Contains(models.Contributor{Username: "bob"}) {
		t.Error("Expected bob removed from contributor set")
	}

	bob, err := projects.FindUser(ctx, "bob")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if bob.ProjectNames.Contains("alpha") {
		t.Error("Expected alpha removed from bob's membership set")
	}

	// Removing again reports the link as missing
	err = projects.RemoveContributor(ctx, "alpha", "bob")
	if !types.IsNotFound(err) {
		t.Errorf("Expected not found for repeat removal, got %v", err)
	}
}

func TestRemoveOwnerIsConflict(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	err := projects.RemoveContributor(ctx, "alpha", "alice")
	if !types.IsConflict(err) {
		t.Errorf("Expected conflict when removing the owner, got %v", err)
	}
}

func TestDeleteProjectCleansMemberships(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	insertUser(t, st, "bob")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := projects.AddContributor(ctx, "alpha", "bob"); err != nil {
		t.Fatalf("AddContributor failed: %v", err)
	}

	deleted, err := projects.DeleteProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if deleted.Name != "alpha" {
		t.Errorf("Expected deleted project alpha, got %s", deleted.Name)
	}

	if _, err := projects.FindProject(ctx, "alpha"); !types.IsNotFound(err) {
		t.Errorf("Expected project gone, got %v", err)
	}

	for _, username := range []string{"alice", "bob"} {
		user, err := projects.FindUser(ctx, username)
		if err != nil {
			t.Fatalf("FindUser failed: %v", err)
		}
		if user.ProjectNames.Contains("alpha") {
			t.Errorf("Expected alpha removed from %s's membership set", username)
		}
	}
}

func TestDeleteProjectRollsBackOnBrokenLink(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	// A contributor entry with no user row behind it
	project := &models.Project{
		ProjectID: uuid.NewString(),
		Name:      "alpha",
		OwnerName: "ghost",
		Contributors: models.Set[models.Contributor]{
			{Username: "ghost"},
		},
	}
	if err := store.Insert(ctx, st, project); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, err := projects.DeleteProject(ctx, "alpha")
	if !types.IsTransactionFailed(err) {
		t.Fatalf("Expected transaction failure for broken link, got %v", err)
	}

	// The project must survive the rollback
	if _, err := projects.FindProject(ctx, "alpha"); err != nil {
		t.Errorf("Expected project to survive rollback, got %v", err)
	}
}

func TestCreateProjectRollsBackOnMembershipFailure(t *testing.T) {
	st, fault := setupFaultyDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")

	fault.arm("users")
	_, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice")
	if !types.IsTransactionFailed(err) {
		t.Fatalf("Expected transaction failure, got %v", err)
	}

	// The project insert rolls back with the failed membership write
	if _, err := projects.FindProject(ctx, "alpha"); !types.IsNotFound(err) {
		t.Errorf("Expected no project after rollback, got %v", err)
	}
	alice, err := projects.FindUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if alice.ProjectNames.Contains("alpha") {
		t.Error("Expected no membership after rollback")
	}
}

func TestAddContributorRollsBackOnMembershipFailure(t *testing.T) {
	st, fault := setupFaultyDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	insertUser(t, st, "bob")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	fault.arm("users")
	_, err := projects.AddContributor(ctx, "alpha", "bob")
	if !types.IsTransactionFailed(err) {
		t.Fatalf("Expected transaction failure, got %v", err)
	}

	// The contributor-side write committed first in the transaction and
	// must roll back with the membership write
	project, err := projects.FindProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindProject failed: %v", err)
	}
	if project.Contributors.Contains(models.Contributor{Username: "bob"}) {
		t.Error("Expected contributor add to roll back")
	}
	bob, err := projects.FindUser(ctx, "bob")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	if bob.ProjectNames.Contains("alpha") {
		t.Error("Expected no membership after rollback")
	}
}

func TestRemoveContributorRollsBackOnBrokenLink(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")

	// A contributor entry with no user row behind it
	project := &models.Project{
		ProjectID: uuid.NewString(),
		Name:      "alpha",
		OwnerName: "alice",
		Contributors: models.Set[models.Contributor]{
			{Username: "alice"},
			{Username: "ghost"},
		},
	}
	if err := store.Insert(ctx, st, project); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := projects.RemoveContributor(ctx, "alpha", "ghost")
	if !types.IsTransactionFailed(err) {
		t.Fatalf("Expected transaction failure for broken link, got %v", err)
	}

	// The contributor-side removal rolls back with it
	after, err := projects.FindProject(ctx, "alpha")
	if err != nil {
		t.Fatalf("FindProject failed: %v", err)
	}
	if !after.Contributors.Contains(models.Contributor{Username: "ghost"}) {
		t.Error("Expected contributor entry to survive rollback")
	}
}

func TestProjectsOfSkipsStaleMemberships(t *testing.T) {
	st := setupTestDB(t)
	projects := NewProjectService(st)
	ctx := context.Background()

	insertUser(t, st, "alice")
	if _, err := projects.CreateProject(ctx, "alpha", "Alpha", "alice"); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	// Plant a stale membership pointing at a project that no longer exists
	alice, err := projects.FindUser(ctx, "alice")
	if err != nil {
		t.Fatalf("FindUser failed: %v", err)
	}
	names, _ := alice.ProjectNames.Add("ghost-project")
	if _, err := store.Update[models.User](ctx, st,
		store.Filter{"user_id": alice.UserID},
		map[string]interface{}{"project_names": names}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	result, err := projects.ProjectsOf(ctx, "alice")
	if err != nil {
		t.Fatalf("ProjectsOf failed: %v", err)
	}
	if len(result) != 1 || result[0].Name != "alpha" {
		t.Errorf("Expected only alpha, got %+v", result)
	}
}
