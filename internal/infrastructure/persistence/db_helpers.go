package persistence

import (
	"errors"

	"github.com/lib/pq"
	"github.com/workshoperp/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE row lock to the query. SQLite has no
// row-level locks and rejects the syntax; its single-writer model gives
// the same serialization, so the clause is skipped there.
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// pgUniqueViolation is the Postgres error code for a unique constraint hit
const pgUniqueViolation = "23505"

// translateDuplicate maps a unique-constraint violation onto ErrConflict
// so a race on a unique column (document number, name) surfaces as a
// domain conflict instead of a raw driver error
func translateDuplicate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return shared.ErrConflict.WithMessage("A record with this unique value already exists")
	}
	return err
}
