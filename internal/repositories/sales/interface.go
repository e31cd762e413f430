package sales

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository persists sales together with their items and payment parts.
// Insert issues one write per row; callers that need the sale and its rows to
// land atomically (the checkout engine, snapshot import) bind the repository
// to a transaction via dbx.WithTx. Sales are never updated, only deleted.
type Repository interface {
	Insert(ctx context.Context, s models.Sale) error
	GetByID(ctx context.Context, id string) (*models.Sale, error)
	GetAll(ctx context.Context) ([]models.Sale, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
