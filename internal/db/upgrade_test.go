package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A store written before seq, name, favorite and tags existed keeps its rows
// and gets a recency order matching saved_at.
func TestMigrate_UpgradeFromV1(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE playbooks (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL DEFAULT '',
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		saved_at   TEXT NOT NULL
	)`)
	require.NoError(t, err)

	for _, row := range [][]string{
		{"pb_b", "2025-09-02T08:00:00Z"},
		{"pb_a", "2025-09-01T08:00:00Z"},
		{"pb_c", "2025-09-03T08:00:00Z"},
	} {
		_, err = db.Exec(`INSERT INTO playbooks (id, title, payload, created_at, saved_at) VALUES (?, 'T', '{}', ?, ?)`,
			row[0], row[1], row[1])
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT id, seq, name, favorite, tags FROM playbooks ORDER BY seq DESC`)
	require.NoError(t, err)
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var (
			id, name, tags string
			seq, favorite  int
		)
		require.NoError(t, rows.Scan(&id, &seq, &name, &favorite, &tags))
		assert.Positive(t, seq)
		assert.Empty(t, name)
		assert.Zero(t, favorite)
		assert.Equal(t, "[]", tags)
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"pb_c", "pb_b", "pb_a"}, ids)

	// Second run leaves the order alone.
	require.NoError(t, Migrate(db))
	var top string
	require.NoError(t, db.QueryRow(`SELECT id FROM playbooks ORDER BY seq DESC LIMIT 1`).Scan(&top))
	assert.Equal(t, "pb_c", top)
}
