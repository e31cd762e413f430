package categories

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository persists categories.
type Repository interface {
	Add(ctx context.Context, c models.Category) error
	Update(ctx context.Context, c models.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	DeleteAll(ctx context.Context) error
}
