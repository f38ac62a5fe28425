package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = gorm.ErrRecordNotFound

// Repository is the content store shared by every service. A Repository obtained
// inside Transaction is bound to that transaction.
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Transaction runs fn in a single database transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// Dialects without row locks (SQLite) drop the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
