package repository

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/peplaybook/internal/db"
)

// SQLiteTransactor builds tx-scoped SQLite repositories for each unit of work.
type SQLiteTransactor struct {
	uow    db.UnitOfWork
	logger *slog.Logger
}

// NewSQLiteTransactor creates a Transactor over uow.
func NewSQLiteTransactor(uow db.UnitOfWork, logger *slog.Logger) *SQLiteTransactor {
	return &SQLiteTransactor{uow: uow, logger: logger}
}

func (t *SQLiteTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return t.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, Repos{
			Playbooks: NewSQLitePlaybookRepo(tx, t.logger),
			Settings:  NewSQLiteSettingsRepo(tx, t.logger),
		})
	})
}
