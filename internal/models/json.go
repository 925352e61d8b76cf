package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Set is a JSON-column membership set. Storage and scanning are delegated
// to gorm.io/datatypes.JSON so driver quirks (mysql []byte vs string) are
// handled in one place. Order is the order of insertion.
type Set[T comparable] []T

// Value implements driver.Valuer.
func (s Set[T]) Value() (driver.Value, error) {
	if s == nil {
		s = Set[T]{}
	}
	b, err := json.Marshal([]T(s))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b).Value()
}

// Scan implements sql.Scanner.
func (s *Set[T]) Scan(value interface{}) error {
	var j datatypes.JSON
	if err := j.Scan(value); err != nil {
		return err
	}
	if len(j) == 0 {
		*s = nil
		return nil
	}
	var items []T
	if err := json.Unmarshal(j, &items); err != nil {
		return fmt.Errorf("set scan: %w", err)
	}
	*s = Set[T](items)
	return nil
}

// GormDataType reports the generic data type.
func (Set[T]) GormDataType() string {
	return "json"
}

// GormDBDataType ensures the correct column type is used for each database
// driver. MSSQL does not support the 'json' data type.
func (Set[T]) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// Contains reports whether v is a member.
func (s Set[T]) Contains(v T) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Add returns the set with v appended, and whether it was absent.
func (s Set[T]) Add(v T) (Set[T], bool) {
	if s.Contains(v) {
		return s, false
	}
	return append(s, v), true
}

// Remove returns the set without v, and whether it was present.
func (s Set[T]) Remove(v T) (Set[T], bool) {
	out := make(Set[T], 0, len(s))
	removed := false
	for _, item := range s {
		if item == v {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
