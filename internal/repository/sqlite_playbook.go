package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/peplaybook/internal/db"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

// SQLitePlaybookRepo implements PlaybookRepo using a SQLite database. The
// playbook body is stored as JSON in payload; user-facing fields live in
// their own columns.
type SQLitePlaybookRepo struct {
	db     db.DBTX
	logger *slog.Logger
}

// NewSQLitePlaybookRepo creates a new SQLitePlaybookRepo.
func NewSQLitePlaybookRepo(conn db.DBTX, logger *slog.Logger) *SQLitePlaybookRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLitePlaybookRepo{db: conn, logger: logger}
}

const playbookColumns = `id, name, favorite, tags, payload, saved_at`

func (r *SQLitePlaybookRepo) Upsert(ctx context.Context, sp *domain.StoredPlaybook) error {
	payload, err := json.Marshal(sp.Playbook)
	if err != nil {
		return fmt.Errorf("encoding playbook %s: %w", sp.ID, err)
	}
	if sp.SavedAt.IsZero() {
		sp.SavedAt = time.Now().UTC()
	}

	query := `INSERT INTO playbooks (id, seq, name, title, favorite, tags, payload, created_at, saved_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM playbooks), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seq = (SELECT COALESCE(MAX(seq), 0) + 1 FROM playbooks),
			name = excluded.name,
			title = excluded.title,
			favorite = excluded.favorite,
			tags = excluded.tags,
			payload = excluded.payload,
			saved_at = excluded.saved_at`
	_, err = r.db.ExecContext(ctx, query,
		sp.ID,
		sp.Name,
		sp.Title,
		boolToInt(sp.Favorite),
		encodeTags(sp.Tags),
		string(payload),
		formatTime(sp.CreatedAt),
		formatTime(sp.SavedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting playbook %s: %w", sp.ID, err)
	}
	return nil
}

func (r *SQLitePlaybookRepo) Update(ctx context.Context, sp *domain.StoredPlaybook) error {
	payload, err := json.Marshal(sp.Playbook)
	if err != nil {
		return fmt.Errorf("encoding playbook %s: %w", sp.ID, err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE playbooks SET name = ?, title = ?, favorite = ?, tags = ?, payload = ? WHERE id = ?`,
		sp.Name, sp.Title, boolToInt(sp.Favorite), encodeTags(sp.Tags), string(payload), sp.ID)
	if err != nil {
		return fmt.Errorf("updating playbook %s: %w", sp.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("playbook %s: %w", sp.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlaybookRepo) Get(ctx context.Context, id string) (*domain.StoredPlaybook, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playbookColumns+` FROM playbooks WHERE id = ?`, id)
	sp, err := scanPlaybook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("playbook %s: %w", id, ErrNotFound)
	}
	var corrupt *corruptRowError
	if errors.As(err, &corrupt) {
		r.dropCorrupt(ctx, []string{id}, corrupt)
		return nil, fmt.Errorf("playbook %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (r *SQLitePlaybookRepo) List(ctx context.Context) ([]*domain.StoredPlaybook, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playbookColumns+` FROM playbooks ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing playbooks: %w", err)
	}

	var (
		out     []*domain.StoredPlaybook
		corrupt []string
		lastErr *corruptRowError
	)
	for rows.Next() {
		sp, err := scanPlaybook(rows)
		var ce *corruptRowError
		if errors.As(err, &ce) {
			corrupt = append(corrupt, ce.id)
			lastErr = ce
			continue
		}
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating playbooks: %w", err)
	}
	rows.Close()

	if len(corrupt) > 0 {
		r.dropCorrupt(ctx, corrupt, lastErr)
	}
	return out, nil
}

func (r *SQLitePlaybookRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM playbooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting playbook %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("playbook %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlaybookRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM playbooks`); err != nil {
		return fmt.Errorf("clearing playbooks: %w", err)
	}
	return nil
}

func (r *SQLitePlaybookRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM playbooks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting playbooks: %w", err)
	}
	return n, nil
}

func (r *SQLitePlaybookRepo) ListEvictable(ctx context.Context, limit int, keepID string) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM playbooks WHERE favorite = 0 AND id != ? ORDER BY seq ASC LIMIT ?`, keepID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing evictable playbooks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning playbook id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// dropCorrupt deletes rows whose payload no longer decodes.
func (r *SQLitePlaybookRepo) dropCorrupt(ctx context.Context, ids []string, cause error) {
	r.logger.Warn("dropping unreadable saved playbooks",
		"ids", strings.Join(ids, ","), "error", cause)
	for _, id := range ids {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM playbooks WHERE id = ?`, id); err != nil {
			r.logger.Warn("could not drop playbook", "id", id, "error", err)
		}
	}
}

type corruptRowError struct {
	id  string
	err error
}

func (e *corruptRowError) Error() string {
	return fmt.Sprintf("playbook %s payload: %v", e.id, e.err)
}

func (e *corruptRowError) Unwrap() error { return e.err }

type scanner interface {
	Scan(dest ...any) error
}

func scanPlaybook(s scanner) (*domain.StoredPlaybook, error) {
	var (
		sp       domain.StoredPlaybook
		favorite int
		tags     string
		payload  string
		savedAt  string
		id       string
	)
	if err := s.Scan(&id, &sp.Name, &favorite, &tags, &payload, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning playbook: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &sp.Playbook); err != nil {
		return nil, &corruptRowError{id: id, err: err}
	}
	sp.ID = id
	sp.Favorite = intToBool(favorite)
	sp.Tags = decodeTags(tags)
	sp.SavedAt = parseTime(savedAt)
	return &sp, nil
}
