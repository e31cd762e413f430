package offers

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository persists offers. AdjustInventory maintains the denormalized
// amount_in_inventory counter; the inventory ledger remains the source of
// truth for stock movement.
type Repository interface {
	Add(ctx context.Context, o models.Offer) error
	Update(ctx context.Context, o models.Offer) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	GetAll(ctx context.Context) ([]models.Offer, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Offer, error)
	ListLowStock(ctx context.Context, threshold int64) ([]models.Offer, error)
	Search(ctx context.Context, query string) ([]models.Offer, error)
	AdjustInventory(ctx context.Context, id string, delta int64) error
	DeleteAll(ctx context.Context) error
}
