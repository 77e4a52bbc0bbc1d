package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSeq(db); err != nil {
		return fmt.Errorf("backfilling playbook seq: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS playbooks (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	// v2: user-facing fields and an explicit recency order.
	`ALTER TABLE playbooks ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE playbooks ADD COLUMN name TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE playbooks ADD COLUMN favorite INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE playbooks ADD COLUMN tags TEXT NOT NULL DEFAULT '[]'`,

	`CREATE INDEX IF NOT EXISTS idx_playbooks_seq ON playbooks(seq DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_playbooks_favorite ON playbooks(favorite, seq)`,
}

// migrateBackfillSeq numbers rows saved before seq existed, oldest first,
// below any row that already has a seq.
func migrateBackfillSeq(db *sql.DB) error {
	ctx := context.Background()

	var pending int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM playbooks WHERE seq = 0`).Scan(&pending); err != nil {
		return fmt.Errorf("checking playbook seq: %w", err)
	}
	if pending == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM playbooks WHERE seq = 0 ORDER BY saved_at, id`)
	if err != nil {
		return fmt.Errorf("listing playbooks for seq backfill: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning playbook id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating playbooks: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Shift existing rows up so backfilled rows sort as older.
	if _, err := tx.ExecContext(ctx, `UPDATE playbooks SET seq = seq + ? WHERE seq > 0`, len(ids)); err != nil {
		return fmt.Errorf("shifting seq: %w", err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE playbooks SET seq = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("assigning seq to %s: %w", id, err)
		}
	}
	return tx.Commit()
}
