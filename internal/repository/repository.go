// Package repository persists the admin console's own records.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use; pgxmock satisfies it in tests.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repositories struct {
	AuditRepo AuditRepository
}

// NewRepositories creates PostgreSQL-backed repositories.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		AuditRepo: NewAuditRepository(db),
	}
}

// NewInMemoryRepositories is used when no database is configured.
func NewInMemoryRepositories() *Repositories {
	return &Repositories{
		AuditRepo: newInMemoryAuditRepository(),
	}
}
