package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	"github.com/mystic-tours/service-booking/internal/domain/gallery"
	"go.uber.org/zap"
)

// CreateImageRequest holds the data for registering a site image. The binary
// is uploaded to object storage separately; only its URL arrives here.
type CreateImageRequest struct {
	Section   string `json:"section" binding:"required"`
	URL       string `json:"url" binding:"required"`
	AltText   string `json:"alt_text"`
	Caption   string `json:"caption"`
	SortOrder int    `json:"sort_order"`
}

// SiteImageDTO is the response representation of a site image.
type SiteImageDTO struct {
	ID        uuid.UUID `json:"id"`
	Section   string    `json:"section"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GalleryService manages the images shown on the public site.
type GalleryService struct {
	images gallery.ImageRepository
	logger *zap.Logger
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(images gallery.ImageRepository, logger *zap.Logger) *GalleryService {
	return &GalleryService{images: images, logger: logger}
}

// CreateImage registers a new site image, published immediately.
func (s *GalleryService) CreateImage(ctx context.Context, req CreateImageRequest) (*SiteImageDTO, error) {
	img, err := gallery.NewSiteImage(gallery.ImageSection(req.Section), req.URL, req.AltText, req.Caption, req.SortOrder)
	if err != nil {
		return nil, domain.NewValidationError("section", err.Error())
	}
	if err := s.images.Save(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	result := toSiteImageDTO(img)
	return &result, nil
}

// ListPublishedImages returns the visible images for a site section, in
// display order. An empty section returns all published images.
func (s *GalleryService) ListPublishedImages(ctx context.Context, section string) ([]SiteImageDTO, error) {
	if section != "" && !gallery.ImageSection(section).IsValid() {
		return nil, domain.NewValidationError("section", fmt.Sprintf("invalid image section: %s", section))
	}
	images, err := s.images.ListPublished(ctx, gallery.ImageSection(section))
	if err != nil {
		return nil, fmt.Errorf("failed to list published images: %w", err)
	}
	return toSiteImageDTOs(images), nil
}

// ListAllImages returns every image record (admin).
func (s *GalleryService) ListAllImages(ctx context.Context) ([]SiteImageDTO, error) {
	images, err := s.images.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return toSiteImageDTOs(images), nil
}

// UnpublishImage hides an image from the public site without deleting it.
func (s *GalleryService) UnpublishImage(ctx context.Context, id uuid.UUID) (*SiteImageDTO, error) {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	img.Unpublish()
	if err := s.images.Update(ctx, img); err != nil {
		return nil, err
	}
	result := toSiteImageDTO(img)
	return &result, nil
}

// DeleteImage removes an image record. The binary in object storage is left
// for an out-of-band cleanup job.
func (s *GalleryService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return s.images.Delete(ctx, id)
}

func toSiteImageDTO(img *gallery.SiteImage) SiteImageDTO {
	return SiteImageDTO{
		ID:        img.ID(),
		Section:   string(img.Section()),
		URL:       img.URL(),
		AltText:   img.AltText(),
		Caption:   img.Caption(),
		SortOrder: img.SortOrder(),
		Published: img.Published(),
		CreatedAt: img.CreatedAt(),
		UpdatedAt: img.UpdatedAt(),
	}
}

func toSiteImageDTOs(images []*gallery.SiteImage) []SiteImageDTO {
	dtos := make([]SiteImageDTO, len(images))
	for i, img := range images {
		dtos[i] = toSiteImageDTO(img)
	}
	return dtos
}
