package paymentmethods

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

func (r *SQLiteRepository) Save(ctx context.Context, m models.PaymentMethodConfig) error {
	query := `INSERT INTO payment_methods (method_id, name, type, enabled, config_data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(method_id) DO UPDATE SET name = excluded.name,
			type = excluded.type,
			enabled = excluded.enabled,
			config_data = excluded.config_data`
	_, err := r.db.ExecContext(ctx, query,
		m.MethodID, m.Name, m.Type, boolToInt(m.Enabled), dbx.Nullable(m.ConfigData))
	if err != nil {
		return fmt.Errorf("failed to save payment method: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.PaymentMethodConfig, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT method_id, name, type, enabled, config_data FROM payment_methods WHERE method_id = ?`, id)
	m, err := scanMethod(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.PaymentMethodConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT method_id, name, type, enabled, config_data FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select payment methods: %w", err)
	}
	defer rows.Close()

	var result []models.PaymentMethodConfig
	for rows.Next() {
		m, err := scanMethod(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_methods SET enabled = ? WHERE method_id = ?`, boolToInt(enabled), id)
	if err != nil {
		return fmt.Errorf("failed to update payment method: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE method_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods`); err != nil {
		return fmt.Errorf("failed to clear payment methods: %w", err)
	}
	return nil
}

func scanMethod(scan func(dest ...any) error) (*models.PaymentMethodConfig, error) {
	var m models.PaymentMethodConfig
	var enabled int64
	var configData sql.NullString
	if err := scan(&m.MethodID, &m.Name, &m.Type, &enabled, &configData); err != nil {
		return nil, err
	}
	m.Enabled = enabled != 0
	m.ConfigData = configData.String
	return &m, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
