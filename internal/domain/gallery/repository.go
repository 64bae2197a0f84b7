package gallery

import (
	"context"

	"github.com/google/uuid"
)

// ImageRepository defines persistence operations for site images.
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SiteImage, error)
	ListPublished(ctx context.Context, section ImageSection) ([]*SiteImage, error)
	ListAll(ctx context.Context) ([]*SiteImage, error)
	Save(ctx context.Context, img *SiteImage) error
	Update(ctx context.Context, img *SiteImage) error
	Delete(ctx context.Context, id uuid.UUID) error
}
