package testutil

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/db"
	"github.com/alexanderramin/peplaybook/internal/repository"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewTestTransactor returns a SQLite-backed Transactor over a fresh database.
func NewTestTransactor(t *testing.T) *repository.SQLiteTransactor {
	t.Helper()
	return repository.NewSQLiteTransactor(NewTestUoW(NewTestDB(t)), DiscardLogger())
}

// DiscardLogger drops everything written to it.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
