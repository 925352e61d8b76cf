// store.go
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

package store

import (
	"context"
	"errors"

	"github.com/localnerve/trackdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Filter selects rows by column equality, e.g. Filter{"name": "proj-a"}.
type Filter map[string]interface{}

// Store is the typed adapter over the document collections. It provides no
// cross-collection cascades; the services orchestrate those explicitly
// inside WithTransaction.
type Store struct {
	db *gorm.DB
}

// New wraps a gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTransaction runs fn against a transaction-scoped Store. All writes
// through the scoped handle commit together or not at all; the underlying
// session is released on success, error, and context cancellation.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// session returns a quiet context-bound handle; record-not-found lookups
// are expected and must not log as errors.
func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)})
}

// lockingSupported reports whether the dialect understands SELECT ... FOR
// UPDATE. SQLite does not, and serializes writing transactions anyway.
func (s *Store) lockingSupported() bool {
	return s.db.Dialector.Name() != "sqlite"
}

// FindOne returns the single entity matching the filter.
func FindOne[T any](ctx context.Context, s *Store, filter Filter) (*T, error) {
	var entity T
	err := s.session(ctx).Where(map[string]interface{}(filter)).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("no match in %s", tableName[T](s))
		}
		return nil, err
	}
	return &entity, nil
}

// FindOneLocked is FindOne with a row lock held for the duration of the
// enclosing transaction. Only meaningful on a transaction-scoped Store.
func FindOneLocked[T any](ctx context.Context, s *Store, filter Filter) (*T, error) {
	q := s.session(ctx).Where(map[string]interface{}(filter))
	if s.lockingSupported() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var entity T
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("no match in %s", tableName[T](s))
		}
		return nil, err
	}
	return &entity, nil
}

// FindMany returns all entities matching the filter.
func FindMany[T any](ctx context.Context, s *Store, filter Filter) ([]T, error) {
	var entities []T
	q := s.session(ctx)
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count returns the number of entities matching the filter.
func Count[T any](ctx context.Context, s *Store, filter Filter) (int64, error) {
	var n int64
	q := s.session(ctx).Model(new(T))
	if len(filter) > 0 {
		q = q.Where(map[string]interface{}(filter))
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Insert persists a new entity.
func Insert[T any](ctx context.Context, s *Store, entity *T) error {
	return s.session(ctx).Create(entity).Error
}

// Update applies the patch to all rows matching the filter and returns the
// number of rows affected. A zero return with a nil error is the
// conditional-update miss callers use to detect vanished targets.
func Update[T any](ctx context.Context, s *Store, filter Filter, patch map[string]interface{}) (int64, error) {
	res := s.session(ctx).Model(new(T)).Where(map[string]interface{}(filter)).Updates(patch)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Delete removes all rows matching the filter and returns the number
// removed.
func Delete[T any](ctx context.Context, s *Store, filter Filter) (int64, error) {
	res := s.session(ctx).Where(map[string]interface{}(filter)).Delete(new(T))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func tableName[T any](s *Store) string {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(new(T)); err != nil {
		return "collection"
	}
	return stmt.Schema.Table
}
