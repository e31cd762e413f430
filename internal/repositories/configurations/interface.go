package configurations

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository is the key/value configuration store.
type Repository interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	All(ctx context.Context) ([]models.Configuration, error)
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) error
}
