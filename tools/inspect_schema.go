package main

import (
	"fmt"
	"log"

	"github.com/localnerve/trackdb/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Prints the DDL GORM generates for the model set, including the
// indexes behind the uniqueness guarantees. Dev aid only.
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Component{},
		&models.Interface{},
	); err != nil {
		log.Fatal(err)
	}

	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type IN ('table','index') ORDER BY type, name").Scan(&tables)

	for _, name := range tables {
		var ddl string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", name).Scan(&ddl)
		if ddl == "" {
			continue
		}
		fmt.Printf("\n=== %s ===\n%s\n", name, ddl)
	}
}
