package inventory

import (
	"context"
	"database/sql"
	"fmt"

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

func (r *SQLiteRepository) Record(ctx context.Context, tx models.InventoryTransaction) error {
	query := `INSERT INTO inventory_transactions (transaction_id, offer_id, change_amount, reason, timestamp, event_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		tx.TransactionID, tx.OfferID, tx.ChangeAmount, tx.Reason, tx.Timestamp, dbx.Nullable(tx.EventID))
	if err != nil {
		return fmt.Errorf("failed to record inventory transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.InventoryTransaction, error) {
	return r.query(ctx,
		`SELECT transaction_id, offer_id, change_amount, reason, timestamp, event_id
		 FROM inventory_transactions ORDER BY timestamp`)
}

func (r *SQLiteRepository) ListByOffer(ctx context.Context, offerID string) ([]models.InventoryTransaction, error) {
	return r.query(ctx,
		`SELECT transaction_id, offer_id, change_amount, reason, timestamp, event_id
		 FROM inventory_transactions WHERE offer_id = ? ORDER BY timestamp`, offerID)
}

func (r *SQLiteRepository) BalanceByOffer(ctx context.Context, offerID string) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(change_amount), 0) FROM inventory_transactions WHERE offer_id = ?`,
		offerID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum inventory ledger: %w", err)
	}
	return balance, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inventory_transactions`); err != nil {
		return fmt.Errorf("failed to clear inventory ledger: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.InventoryTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select inventory transactions: %w", err)
	}
	defer rows.Close()

	var result []models.InventoryTransaction
	for rows.Next() {
		var tx models.InventoryTransaction
		var eventID sql.NullString
		if err := rows.Scan(&tx.TransactionID, &tx.OfferID, &tx.ChangeAmount,
			&tx.Reason, &tx.Timestamp, &eventID); err != nil {
			return nil, err
		}
		tx.EventID = eventID.String
		result = append(result, tx)
	}
	return result, rows.Err()
}
