package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
	"gorm.io/gorm"
)

// TourModel is the GORM model for the tours catalog table.
type TourModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Slug        string    `gorm:"size:200;not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	Location    string    `gorm:"size:200"`
	DurationHrs int       `gorm:"not null;default:0"`
	UnitPrice   float64   `gorm:"type:numeric(10,2);not null"`
	MaxPeople   int       `gorm:"not null;default:20"`
	ImageURL    string    `gorm:"type:text"`
	Status      string    `gorm:"not null;size:20;index"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TourModel) TableName() string {
	return "tours"
}

// GormTourRepository implements TourRepository using GORM.
type GormTourRepository struct {
	db *gorm.DB
}

// NewGormTourRepository creates a new GormTourRepository.
func NewGormTourRepository(db *gorm.DB) *GormTourRepository {
	return &GormTourRepository{db: db}
}

// FindByID retrieves a tour by id.
func (r *GormTourRepository) FindByID(ctx context.Context, id uuid.UUID) (*tourDomain.Tour, error) {
	var model TourModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Tour", id.String())
		}
		return nil, fmt.Errorf("failed to find tour: %w", err)
	}
	return toDomainTour(&model), nil
}

// FindBySlug retrieves a tour by its URL slug.
func (r *GormTourRepository) FindBySlug(ctx context.Context, slug string) (*tourDomain.Tour, error) {
	var model TourModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Tour", slug)
		}
		return nil, fmt.Errorf("failed to find tour by slug: %w", err)
	}
	return toDomainTour(&model), nil
}

// ListPublished retrieves publicly bookable tours.
func (r *GormTourRepository) ListPublished(ctx context.Context) ([]*tourDomain.Tour, error) {
	var models []TourModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(tourDomain.TourPublished)).
		Order("title ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list published tours: %w", err)
	}
	return toDomainTours(models), nil
}

// ListAll retrieves all tours including archived ones (admin).
func (r *GormTourRepository) ListAll(ctx context.Context) ([]*tourDomain.Tour, error) {
	var models []TourModel
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return toDomainTours(models), nil
}

// Save persists a new tour.
func (r *GormTourRepository) Save(ctx context.Context, t *tourDomain.Tour) error {
	if err := r.db.WithContext(ctx).Create(toTourModel(t)).Error; err != nil {
		return fmt.Errorf("failed to save tour: %w", err)
	}
	return nil
}

// Update persists changes to an existing tour with optimistic locking.
func (r *GormTourRepository) Update(ctx context.Context, t *tourDomain.Tour) error {
	model := toTourModel(t)
	expectedVersion := t.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&TourModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"description":  model.Description,
			"location":     model.Location,
			"duration_hrs": model.DurationHrs,
			"unit_price":   model.UnitPrice,
			"max_people":   model.MaxPeople,
			"image_url":    model.ImageURL,
			"status":       model.Status,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("tour was modified by another transaction")
	}
	return nil
}

// Delete removes a tour from the catalog.
func (r *GormTourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TourModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete tour: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Tour", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toTourModel(t *tourDomain.Tour) *TourModel {
	return &TourModel{
		ID:          t.ID(),
		Title:       t.Title(),
		Slug:        t.Slug(),
		Description: t.Description(),
		Location:    t.Location(),
		DurationHrs: t.DurationHrs(),
		UnitPrice:   t.UnitPrice(),
		MaxPeople:   t.MaxPeople(),
		ImageURL:    t.ImageURL(),
		Status:      string(t.Status()),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toDomainTour(m *TourModel) *tourDomain.Tour {
	return tourDomain.Reconstruct(
		m.ID, m.Title, m.Slug, m.Description, m.Location,
		m.DurationHrs, m.UnitPrice, m.MaxPeople, m.ImageURL,
		tourDomain.TourStatus(m.Status), m.Version, m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainTours(models []TourModel) []*tourDomain.Tour {
	tours := make([]*tourDomain.Tour, len(models))
	for i, m := range models {
		tours[i] = toDomainTour(&m)
	}
	return tours
}
