// Package store is the entity store: gorm-backed records wrapped in
// transactional units of work.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrConstraint signals a foreign-key or uniqueness violation.
	ErrConstraint = errors.New("constraint violated")
	// ErrNoRowsAffected signals a conditional write that matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Store opens units of work against the database.
type Store struct {
	db *gorm.DB
}

// New wraps an opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for bootstrap code.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Tx is a single unit of work. It is only valid inside the callback passed
// to Transaction.
type Tx struct {
	db *gorm.DB
}

// Transaction runs fn in one database transaction. The transaction commits
// when fn returns nil and rolls back on error or panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&Tx{db: db})
	})
}

// translate maps driver errors onto the store's sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}

// lockShared takes a share lock on the selected rows where the dialect
// supports row locks; sqlite serialises writers on its own.
func (tx *Tx) lockShared() *gorm.DB {
	if tx.db.Dialector.Name() == "sqlite" {
		return tx.db
	}
	return tx.db.Clauses(clause.Locking{Strength: "SHARE"})
}

func (tx *Tx) lockUpdate() *gorm.DB {
	if tx.db.Dialector.Name() == "sqlite" {
		return tx.db
	}
	return tx.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func insert[T any](tx *Tx, rec *T) error {
	return translate(tx.db.Omit(clause.Associations).Create(rec).Error)
}

// getByID loads one visible row. A missing row is reported as found=false.
func getByID[T any](db *gorm.DB, id uint) (*T, bool, error) {
	var rec T
	err := db.Take(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}
