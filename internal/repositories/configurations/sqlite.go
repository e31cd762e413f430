package configurations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO configurations (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set configuration[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM configurations WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get configuration[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) All(ctx context.Context) ([]models.Configuration, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM configurations ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to select configurations: %w", err)
	}
	defer rows.Close()

	var result []models.Configuration
	for rows.Next() {
		var c models.Configuration
		if err := rows.Scan(&c.Key, &c.Value); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM configurations WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete configuration[%s]: %w", key, err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM configurations`); err != nil {
		return fmt.Errorf("failed to clear configurations: %w", err)
	}
	return nil
}
