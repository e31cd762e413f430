package paymentmethods

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository is the payment-method registry. Save is an upsert so that
// snapshot import and config edits share one primitive.
type Repository interface {
	Save(ctx context.Context, m models.PaymentMethodConfig) error
	Get(ctx context.Context, id string) (*models.PaymentMethodConfig, error)
	GetAll(ctx context.Context) ([]models.PaymentMethodConfig, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
