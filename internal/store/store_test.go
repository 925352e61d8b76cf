package store

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/trackdb/internal/models"
	"github.com/localnerve/trackdb/internal/types"
	"gorm.io/gorm"
)

// setupTestStore creates an in-memory SQLite database for testing
func setupTestStore(t *testing.T) *Store {
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

	return New(db)
}

func newProject(name, owner string) *models.Project {
	return &models.Project{
		ProjectID:   uuid.NewString(),
		Name:        name,
		DisplayName: name,
		OwnerName:   owner,
		Contributors: models.Set[models.Contributor]{
			{Username: owner},
		},
	}
}

func TestInsertAndFindOne(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := Insert(ctx, st, newProject("alpha", "alice")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	project, err := FindOne[models.Project](ctx, st, Filter{"name": "alpha"})
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if project.OwnerName != "alice" {
		t.Errorf("Expected owner alice, got %s", project.OwnerName)
	}
	if !project.Contributors.Contains(models.Contributor{Username: "alice"}) {
		t.Error("Expected alice in contributors")
	}
}

func TestFindOneNotFound(t *testing.T) {
	st := setupTestStore(t)

	_, err := FindOne[models.Project](context.Background(), st, Filter{"name": "missing"})
	if err == nil {
		t.Fatal("Expected error for missing row")
	}
	if !types.IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestFindManyAndCount(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"p1", "p2", "p3"} {
		if err := Insert(ctx, st, newProject(name, "alice")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	projects, err := FindMany[models.Project](ctx, st, Filter{"owner_name": "alice"})
	if err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("Expected 3 projects, got %d", len(projects))
	}

	n, err := Count[models.Project](ctx, st, Filter{"name": "p2"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected count 1, got %d", n)
	}

	// FindMany on no matches returns an empty slice, not an error
	none, err := FindMany[models.Project](ctx, st, Filter{"owner_name": "nobody"})
	if err != nil {
		t.Fatalf("FindMany failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no projects, got %d", len(none))
	}
}

func TestUpdateRowsAffected(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := Insert(ctx, st, newProject("alpha", "alice")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := Update[models.Project](ctx, st, Filter{"name": "alpha"},
		map[string]interface{}{"display_name": "Alpha Prime"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("Expected 1 row affected, got %d", rows)
	}

	rows, err = Update[models.Project](ctx, st, Filter{"name": "missing"},
		map[string]interface{}{"display_name": "x"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("Expected 0 rows affected for missing row, got %d", rows)
	}
}

func TestDeleteRowsAffected(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := Insert(ctx, st, newProject("alpha", "alice")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, err := Delete[models.Project](ctx, st, Filter{"name": "alpha"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("Expected 1 row deleted, got %d", rows)
	}

	rows, err = Delete[models.Project](ctx, st, Filter{"name": "alpha"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if rows != 0 {
		t.Errorf("Expected 0 rows deleted on repeat, got %d", rows)
	}
}

func TestTransactionRollback(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.WithTransaction(ctx, func(tx *Store) error {
		if err := Insert(ctx, tx, newProject("alpha", "alice")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom error, got %v", err)
	}

	// The insert must have rolled back
	n, err := Count[models.Project](ctx, st, Filter{"name": "alpha"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected rollback to remove the insert, count is %d", n)
	}
}

func TestTransactionCommit(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	err := st.WithTransaction(ctx, func(tx *Store) error {
		if err := Insert(ctx, tx, newProject("alpha", "alice")); err != nil {
			return err
		}
		return Insert(ctx, tx, newProject("beta", "alice"))
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	n, err := Count[models.Project](ctx, st, Filter{"owner_name": "alice"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 committed projects, got %d", n)
	}
}

func TestFindOneLocked(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := Insert(ctx, st, newProject("alpha", "alice")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// SQLite has no row locks; FindOneLocked must still read correctly
	err := st.WithTransaction(ctx, func(tx *Store) error {
		project, err := FindOneLocked[models.Project](ctx, tx, Filter{"name": "alpha"})
		if err != nil {
			return err
		}
		if project.Name != "alpha" {
			t.Errorf("Expected alpha, got %s", project.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
}
