package tour

import (
	"context"

	"github.com/google/uuid"
)

// TourRepository defines persistence operations for catalog entries.
type TourRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	FindBySlug(ctx context.Context, slug string) (*Tour, error)
	ListPublished(ctx context.Context) ([]*Tour, error)
	ListAll(ctx context.Context) ([]*Tour, error)
	Save(ctx context.Context, t *Tour) error
	Update(ctx context.Context, t *Tour) error
	Delete(ctx context.Context, id uuid.UUID) error
}
