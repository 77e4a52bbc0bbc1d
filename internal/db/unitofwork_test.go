package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func readSetting(uow *db.SQLiteUnitOfWork, key string) (string, bool) {
	var val string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return val, found
}

func putSetting(ctx context.Context, tx db.DBTX, key, val string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)`, key, val)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putSetting(ctx, tx, "k1", "v1")
	})
	require.NoError(t, err)

	val, found := readSetting(uow, "k1")
	assert.True(t, found)
	assert.Equal(t, "v1", val)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putSetting(ctx, tx, "k2", "v2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := readSetting(uow, "k2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putSetting(ctx, tx, "k3", "v3")
			panic("boom")
		})
	})

	_, found := readSetting(uow, "k3")
	assert.False(t, found, "row should not exist after panic rollback")
}

var errSentinel = errors.New("sentinel")

func TestWithinTx_ErrorStaysMatchable(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return fmt.Errorf("saving playbook: %w", errSentinel)
	})
	assert.ErrorIs(t, err, errSentinel)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	uow := openTestUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
