package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	driverDomain "github.com/mystic-tours/service-booking/internal/domain/driver"
	"gorm.io/gorm"
)

// DriverModel is the GORM model for the drivers table.
type DriverModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Phone     string    `gorm:"size:30"`
	Vehicle   string    `gorm:"size:100"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (DriverModel) TableName() string {
	return "drivers"
}

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GormDriverRepository.
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// FindByID retrieves a driver by id.
func (r *GormDriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*driverDomain.Driver, error) {
	var model DriverModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Driver", id.String())
		}
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return toDomainDriver(&model)
}

// ListAll retrieves all drivers ordered by name.
func (r *GormDriverRepository) ListAll(ctx context.Context) ([]*driverDomain.Driver, error) {
	var models []DriverModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	drivers := make([]*driverDomain.Driver, len(models))
	for i, m := range models {
		d, err := toDomainDriver(&m)
		if err != nil {
			return nil, err
		}
		drivers[i] = d
	}
	return drivers, nil
}

// Save persists a new driver.
func (r *GormDriverRepository) Save(ctx context.Context, d *driverDomain.Driver) error {
	if err := r.db.WithContext(ctx).Create(toDriverModel(d)).Error; err != nil {
		return fmt.Errorf("failed to save driver: %w", err)
	}
	return nil
}

// Update persists changes to an existing driver with optimistic locking.
func (r *GormDriverRepository) Update(ctx context.Context, d *driverDomain.Driver) error {
	model := toDriverModel(d)
	expectedVersion := d.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&DriverModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"phone":      model.Phone,
			"vehicle":    model.Vehicle,
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update driver: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("driver was modified by another transaction")
	}
	return nil
}

// Delete removes a driver.
func (r *GormDriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DriverModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete driver: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Driver", id.String())
	}
	return nil
}

// --- Conversion helpers ---

func toDriverModel(d *driverDomain.Driver) *DriverModel {
	return &DriverModel{
		ID:        d.ID(),
		Name:      d.Name(),
		Phone:     d.Phone(),
		Vehicle:   d.Vehicle(),
		Status:    string(d.Status()),
		Version:   d.Version(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

func toDomainDriver(m *DriverModel) (*driverDomain.Driver, error) {
	status, err := driverDomain.ParseDriverStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return driverDomain.ReconstructDriver(
		m.ID, m.Name, m.Phone, m.Vehicle,
		status, m.Version, m.CreatedAt, m.UpdatedAt,
	), nil
}
