package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	"github.com/mystic-tours/service-booking/internal/domain/gallery"
	"gorm.io/gorm"
)

// SiteImageModel is the GORM model for the site_images table.
type SiteImageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Section   string    `gorm:"not null;size:20;index"`
	URL       string    `gorm:"type:text;not null"`
	AltText   string    `gorm:"size:300"`
	Caption   string    `gorm:"size:300"`
	SortOrder int       `gorm:"not null;default:0"`
	Published bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SiteImageModel) TableName() string {
	return "site_images"
}

// GormImageRepository implements ImageRepository using GORM.
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository.
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID retrieves an image record by id.
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*gallery.SiteImage, error) {
	var model SiteImageModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("SiteImage", id.String())
		}
		return nil, fmt.Errorf("failed to find image: %w", err)
	}
	return toDomainImage(&model), nil
}

// ListPublished retrieves visible images for a section, in display order.
// An empty section returns all published images.
func (r *GormImageRepository) ListPublished(ctx context.Context, section gallery.ImageSection) ([]*gallery.SiteImage, error) {
	query := r.db.WithContext(ctx).Where("published = ?", true)
	if section != "" {
		query = query.Where("section = ?", string(section))
	}

	var models []SiteImageModel
	if err := query.Order("sort_order ASC, created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list published images: %w", err)
	}
	return toDomainImages(models), nil
}

// ListAll retrieves every image record (admin).
func (r *GormImageRepository) ListAll(ctx context.Context) ([]*gallery.SiteImage, error) {
	var models []SiteImageModel
	if err := r.db.WithContext(ctx).Order("section ASC, sort_order ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return toDomainImages(models), nil
}

// Save persists a new image record.
func (r *GormImageRepository) Save(ctx context.Context, img *gallery.SiteImage) error {
	if err := r.db.WithContext(ctx).Create(toImageModel(img)).Error; err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Update persists changes to an existing image record.
func (r *GormImageRepository) Update(ctx context.Context, img *gallery.SiteImage) error {
	model := toImageModel(img)
	result := r.db.WithContext(ctx).
		Model(&SiteImageModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"section":    model.Section,
			"url":        model.URL,
			"alt_text":   model.AltText,
			"caption":    model.Caption,
			"sort_order": model.SortOrder,
			"published":  model.Published,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("SiteImage", model.ID.String())
	}
	return nil
}

// Delete removes an image record.
func (r *GormImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SiteImageModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("SiteImage", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toImageModel(img *gallery.SiteImage) *SiteImageModel {
	return &SiteImageModel{
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

func toDomainImage(m *SiteImageModel) *gallery.SiteImage {
	return gallery.Reconstruct(
		m.ID, gallery.ImageSection(m.Section), m.URL, m.AltText, m.Caption,
		m.SortOrder, m.Published, m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainImages(models []SiteImageModel) []*gallery.SiteImage {
	images := make([]*gallery.SiteImage, len(models))
	for i, m := range models {
		images[i] = toDomainImage(&m)
	}
	return images
}
