package sales

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

func (r *SQLiteRepository) Insert(ctx context.Context, s models.Sale) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (sale_id, timestamp, event_id) VALUES (?, ?, ?)`,
		s.SaleID, s.Timestamp, dbx.Nullable(s.EventID))
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for _, item := range s.Items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, offer_id, description, quantity, unit_price, total_price, tax_percentage, inventory_adjusted)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.SaleID, item.OfferID, dbx.Nullable(item.Description), item.Quantity,
			item.UnitPrice, item.TotalPrice, item.TaxPercentage, boolToInt(item.InventoryAdjusted))
		if err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	for _, payment := range s.Payments {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO payment_parts (sale_id, method, amount, qr_code_data, status, note)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.SaleID, payment.Method, payment.Amount, dbx.Nullable(payment.QRCodeData),
			string(payment.Status), dbx.Nullable(payment.Note))
		if err != nil {
			return fmt.Errorf("failed to insert payment part: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT sale_id, timestamp, event_id FROM sales WHERE sale_id = ?`, id)

	var s models.Sale
	var eventID sql.NullString
	err := row.Scan(&s.SaleID, &s.Timestamp, &eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	s.EventID = eventID.String

	if s.Items, err = r.saleItems(ctx, id); err != nil {
		return nil, err
	}
	if s.Payments, err = r.paymentParts(ctx, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sale_id FROM sales ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select sales: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.Sale, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE sale_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) saleItems(ctx context.Context, saleID string) ([]models.SaleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT offer_id, description, quantity, unit_price, total_price, tax_percentage, inventory_adjusted
		 FROM sale_items WHERE sale_id = ? ORDER BY rowid`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to select sale items: %w", err)
	}
	defer rows.Close()

	var result []models.SaleItem
	for rows.Next() {
		var item models.SaleItem
		var description sql.NullString
		var adjusted int64
		if err := rows.Scan(&item.OfferID, &description, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.TaxPercentage, &adjusted); err != nil {
			return nil, err
		}
		item.Description = description.String
		item.InventoryAdjusted = adjusted != 0
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) paymentParts(ctx context.Context, saleID string) ([]models.PaymentPart, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT method, amount, qr_code_data, status, note
		 FROM payment_parts WHERE sale_id = ? ORDER BY rowid`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to select payment parts: %w", err)
	}
	defer rows.Close()

	var result []models.PaymentPart
	for rows.Next() {
		var payment models.PaymentPart
		var qrData, note sql.NullString
		var status string
		if err := rows.Scan(&payment.Method, &payment.Amount, &qrData, &status, &note); err != nil {
			return nil, err
		}
		payment.QRCodeData = qrData.String
		payment.Note = note.String
		payment.Status = models.ParsePaymentStatus(status)
		result = append(result, payment)
	}
	return result, rows.Err()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
