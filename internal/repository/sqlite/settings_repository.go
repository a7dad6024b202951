package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	var value string
	err := r.db.QueryRowContext(ctx, `
SELECT value FROM settings WHERE key = ?
`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get setting %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("setting %s", key)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`, key, value, now)
	if err != nil {
		log.Error("failed to set setting %s: %v", key, err)
	}
	return err
}

func (r *settingsRepository) SetMany(ctx context.Context, values map[string]string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("setting %d keys", len(values))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin settings transaction: %v", err)
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    updated_at = excluded.updated_at
`, key, value, now); err != nil {
			log.Error("failed to set setting %s: %v", key, err)
			return err
		}
	}
	return tx.Commit()
}

func (r *settingsRepository) All(ctx context.Context) (map[string]string, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		log.Error("failed to query settings: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Error("failed to scan setting row: %v", err)
			return nil, err
		}
		out[key] = value
	}
	log.Debug("loaded %d settings", len(out))
	return out, rows.Err()
}
