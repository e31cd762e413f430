package categories

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

func (r *SQLiteRepository) Add(ctx context.Context, c models.Category) error {
	query := `INSERT INTO categories (category_id, title, description, image, tax_percentage)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.CategoryID, c.Title, dbx.Nullable(c.Description), dbx.Nullable(c.Image), c.TaxPercentage)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, c models.Category) error {
	query := `UPDATE categories SET title = ?, description = ?, image = ?, tax_percentage = ?
		WHERE category_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Title, dbx.Nullable(c.Description), dbx.Nullable(c.Image), c.TaxPercentage, c.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return dbx.RequireRowAffected(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT category_id, title, description, image, tax_percentage FROM categories WHERE category_id = ?`, id)

	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, title, description, image, tax_percentage FROM categories ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []models.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	return nil
}

func scanCategory(scan func(dest ...any) error) (*models.Category, error) {
	var c models.Category
	var description, image sql.NullString
	if err := scan(&c.CategoryID, &c.Title, &description, &image, &c.TaxPercentage); err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Image = image.String
	return &c, nil
}
