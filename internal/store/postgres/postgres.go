// Package postgres implements the store ports over database/sql and
// lib/pq. One *sql.DB pool is shared; each call acquires a connection
// from it and multi-write operations run inside a transaction.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taskmaster/internal/apperr"
	"taskmaster/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// mapErr folds driver errors into the shared taxonomy. Unique-constraint
// violations become ErrConflict so duplicate-username races are settled
// by the database, not by a check-then-insert.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", pqErr.Constraint, apperr.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", pqErr.Constraint, apperr.ErrValidation)
		}
	}
	return err
}
