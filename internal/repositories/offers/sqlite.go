package offers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/models"
)

const offerColumns = `offer_id, product_id, title, image, amount_in_inventory, type, price, uom, tax_percentage`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, o models.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.OfferID, o.ProductID, o.Title, dbx.Nullable(o.Image),
		o.AmountInInventory, o.Type, o.Price, o.UOM, o.TaxPercentage)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, o models.Offer) error {
	query := `UPDATE offers SET product_id = ?, title = ?, image = ?, amount_in_inventory = ?,
		type = ?, price = ?, uom = ?, tax_percentage = ? WHERE offer_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.ProductID, o.Title, dbx.Nullable(o.Image), o.AmountInInventory,
		o.Type, o.Price, o.UOM, o.TaxPercentage, o.OfferID)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE offer_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE offer_id = ?`, id)
	o, err := scanOffer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return o, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Offer, error) {
	return r.queryOffers(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY title`)
}

func (r *SQLiteRepository) ListByProduct(ctx context.Context, productID string) ([]models.Offer, error) {
	return r.queryOffers(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE product_id = ? ORDER BY title`, productID)
}

func (r *SQLiteRepository) ListLowStock(ctx context.Context, threshold int64) ([]models.Offer, error) {
	return r.queryOffers(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE amount_in_inventory <= ? ORDER BY amount_in_inventory`,
		threshold)
}

func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]models.Offer, error) {
	pattern := "%" + query + "%"
	return r.queryOffers(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE title LIKE ? ORDER BY title`, pattern)
}

func (r *SQLiteRepository) AdjustInventory(ctx context.Context, id string, delta int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET amount_in_inventory = amount_in_inventory + ? WHERE offer_id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust offer inventory: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offers`); err != nil {
		return fmt.Errorf("failed to clear offers: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryOffers(ctx context.Context, query string, args ...any) ([]models.Offer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select offers: %w", err)
	}
	defer rows.Close()

	var result []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func scanOffer(scan func(dest ...any) error) (*models.Offer, error) {
	var o models.Offer
	var image sql.NullString
	if err := scan(&o.OfferID, &o.ProductID, &o.Title, &image, &o.AmountInInventory,
		&o.Type, &o.Price, &o.UOM, &o.TaxPercentage); err != nil {
		return nil, err
	}
	o.Image = image.String
	return &o, nil
}
