package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/db"
)

// FailingUoW wraps a real unit of work and fails the first write whose SQL
// starts with Prefix (leading whitespace ignored). Reads and every other
// write go through, so the inner transaction rolls back exactly as it would
// on a real storage error.
type FailingUoW struct {
	Inner  db.UnitOfWork
	Prefix string
	Err    error
}

// FailWrites wraps the test database's unit of work.
func FailWrites(database *sql.DB, prefix string, err error) *FailingUoW {
	return &FailingUoW{Inner: NewTestUoW(database), Prefix: prefix, Err: err}
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, prefix: u.Prefix, err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	prefix string
	err    error
	fired  bool
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.fired && strings.HasPrefix(strings.TrimSpace(query), f.prefix) {
		f.fired = true
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
