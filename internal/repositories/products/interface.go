package products

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository persists products and the category-product link table.
type Repository interface {
	Add(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	DeleteAll(ctx context.Context) error

	Link(ctx context.Context, categoryID, productID string) error
	Unlink(ctx context.Context, categoryID, productID string) error
	UnlinkAllFromCategory(ctx context.Context, categoryID string) error
	ListByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	AllLinks(ctx context.Context) ([]models.CategoryProduct, error)
	DeleteAllLinks(ctx context.Context) error
}
