package events

import (
	"context"

	"github.com/bsobat/inventra/internal/models"
)

// Repository persists sales events.
type Repository interface {
	Add(ctx context.Context, e models.Event) error
	Update(ctx context.Context, e models.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetAll(ctx context.Context) ([]models.Event, error)
	DeleteAll(ctx context.Context) error
}
