package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bsobat/inventra/internal/common"
	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/models"
)

const productColumns = `product_id, title, description, image, sku_code, barcode`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, p models.Product) error {
	query := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ProductID, p.Title, dbx.Nullable(p.Description), dbx.Nullable(p.Image),
		dbx.Nullable(p.SKUCode), dbx.Nullable(p.Barcode))
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p models.Product) error {
	query := `UPDATE products SET title = ?, description = ?, image = ?, sku_code = ?, barcode = ?
		WHERE product_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, dbx.Nullable(p.Description), dbx.Nullable(p.Image),
		dbx.Nullable(p.SKUCode), dbx.Nullable(p.Barcode), p.ProductID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM category_products WHERE product_id = ?`, id); err != nil {
		return fmt.Errorf("failed to unlink product: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY title`)
}

func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + query + "%"
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE title LIKE ? OR sku_code LIKE ? OR barcode LIKE ? ORDER BY title`,
		pattern, pattern, pattern)
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Link(ctx context.Context, categoryID, productID string) error {
	query := `INSERT INTO category_products (category_id, product_id) VALUES (?, ?)
		ON CONFLICT(category_id, product_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, categoryID, productID); err != nil {
		return fmt.Errorf("failed to link product to category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unlink(ctx context.Context, categoryID, productID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM category_products WHERE category_id = ? AND product_id = ?`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("failed to unlink product from category: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) UnlinkAllFromCategory(ctx context.Context, categoryID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM category_products WHERE category_id = ?`, categoryID); err != nil {
		return fmt.Errorf("failed to clear category links: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return r.queryProducts(ctx,
		`SELECT p.product_id, p.title, p.description, p.image, p.sku_code, p.barcode
		 FROM products p
		 JOIN category_products cp ON cp.product_id = p.product_id
		 WHERE cp.category_id = ? ORDER BY p.title`, categoryID)
}

func (r *SQLiteRepository) AllLinks(ctx context.Context) ([]models.CategoryProduct, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, product_id FROM category_products`)
	if err != nil {
		return nil, fmt.Errorf("failed to select category links: %w", err)
	}
	defer rows.Close()

	var result []models.CategoryProduct
	for rows.Next() {
		var link models.CategoryProduct
		if err := rows.Scan(&link.CategoryID, &link.ProductID); err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) DeleteAllLinks(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM category_products`); err != nil {
		return fmt.Errorf("failed to clear category links: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	var p models.Product
	var description, image, sku, barcode sql.NullString
	if err := scan(&p.ProductID, &p.Title, &description, &image, &sku, &barcode); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.Image = image.String
	p.SKUCode = sku.String
	p.Barcode = barcode.String
	return &p, nil
}
