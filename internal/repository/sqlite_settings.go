package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/peplaybook/internal/db"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

// SQLiteSettingsRepo implements SettingsRepo with one row per setting key.
type SQLiteSettingsRepo struct {
	db     db.DBTX
	logger *slog.Logger
}

// NewSQLiteSettingsRepo creates a new SQLiteSettingsRepo.
func NewSQLiteSettingsRepo(conn db.DBTX, logger *slog.Logger) *SQLiteSettingsRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteSettingsRepo{db: conn, logger: logger}
}

// Get starts from the defaults and applies every stored value that parses.
// A bad value is logged and reset to its default.
func (r *SQLiteSettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	s := domain.DefaultSettings()

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return s, fmt.Errorf("loading settings: %w", err)
	}
	var bad []string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return s, fmt.Errorf("scanning setting: %w", err)
		}
		if err := s.Set(key, value); err != nil {
			r.logger.Warn("ignoring unreadable setting", "key", key, "value", value, "error", err)
			bad = append(bad, key)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return s, fmt.Errorf("iterating settings: %w", err)
	}
	rows.Close()

	for _, key := range bad {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
			r.logger.Warn("could not reset setting", "key", key, "error", err)
		}
	}
	return s, nil
}

func (r *SQLiteSettingsRepo) Put(ctx context.Context, s domain.Settings) error {
	for _, key := range domain.SettingKeys {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, s.Value(key)); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}
	return nil
}

func (r *SQLiteSettingsRepo) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("resetting settings: %w", err)
	}
	return nil
}
