package inventory

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository is the append-only inventory ledger. Rows are never updated;
// DeleteAll exists only for the snapshot import's wipe step.
type Repository interface {
	Record(ctx context.Context, tx models.InventoryTransaction) error
	ListAll(ctx context.Context) ([]models.InventoryTransaction, error)
	ListByOffer(ctx context.Context, offerID string) ([]models.InventoryTransaction, error)
	BalanceByOffer(ctx context.Context, offerID string) (int64, error)
	DeleteAll(ctx context.Context) error
}
