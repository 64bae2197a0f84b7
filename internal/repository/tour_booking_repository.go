package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	"gorm.io/gorm"
)

// TourBookingModel is the GORM model for the bookings table. The UUID is the
// primary key; legacy_id is a serial kept from the original site and is never
// used as a foreign key or lookup key when the UUID is known.
type TourBookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LegacyID        int64           `gorm:"autoIncrement;uniqueIndex;not null"`
	TourID          *uuid.UUID      `gorm:"type:uuid;index"`
	Tour            *TourModel      `gorm:"foreignKey:TourID;constraint:OnDelete:SET NULL"`
	TourName        string          `gorm:"size:200"`
	Customer        json.RawMessage `gorm:"type:jsonb;not null"`
	BookingDate     time.Time       `gorm:"type:date;not null"`
	NumberOfPeople  int             `gorm:"not null"`
	SpecialRequests string          `gorm:"size:1000"`
	Status          string          `gorm:"not null;size:20;index"`
	TotalAmount     float64         `gorm:"type:numeric(10,2);not null"`
	AssignmentID    *uuid.UUID      `gorm:"type:uuid"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TourBookingModel) TableName() string {
	return "bookings"
}

// GormTourBookingRepository is the GORM-based implementation of TourBookingRepository.
type GormTourBookingRepository struct {
	db *gorm.DB
}

// NewGormTourBookingRepository creates a new GormTourBookingRepository.
func NewGormTourBookingRepository(db *gorm.DB) *GormTourBookingRepository {
	return &GormTourBookingRepository{db: db}
}

// FindByRef retrieves a tour booking by canonical UUID or legacy serial.
func (r *GormTourBookingRepository) FindByRef(ctx context.Context, ref bookingDomain.Ref) (*bookingDomain.TourBooking, error) {
	query := r.db.WithContext(ctx)
	if id, ok := ref.UUID(); ok {
		query = query.Where("id = ?", id)
	} else if legacy, ok := ref.Legacy(); ok {
		query = query.Where("legacy_id = ?", legacy)
	} else {
		return nil, domain.NewNotFoundError("Booking", ref.String())
	}

	var model TourBookingModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", ref.String())
		}
		return nil, fmt.Errorf("failed to find tour booking: %w", err)
	}
	return toDomainTourBooking(&model)
}

// ListAll retrieves every tour booking, newest first.
func (r *GormTourBookingRepository) ListAll(ctx context.Context) ([]*bookingDomain.TourBooking, error) {
	var models []TourBookingModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tour bookings: %w", err)
	}

	bookings := make([]*bookingDomain.TourBooking, len(models))
	for i, m := range models {
		b, err := toDomainTourBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// CountByStatus returns tour booking counts grouped by status.
func (r *GormTourBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &TourBookingModel{})
}

// Save persists a new tour booking and backfills its legacy serial.
func (r *GormTourBookingRepository) Save(ctx context.Context, b *bookingDomain.TourBooking) error {
	model, err := toTourBookingModel(b)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save tour booking: %w", err)
	}
	b.AssignLegacyID(model.LegacyID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormTourBookingRepository) Update(ctx context.Context, b *bookingDomain.TourBooking) error {
	model, err := toTourBookingModel(b)
	if err != nil {
		return err
	}

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&TourBookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"tour_id":          model.TourID,
			"tour_name":        model.TourName,
			"customer":         model.Customer,
			"booking_date":     model.BookingDate,
			"number_of_people": model.NumberOfPeople,
			"special_requests": model.SpecialRequests,
			"status":           model.Status,
			"assignment_id":    model.AssignmentID,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update tour booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete hard-removes a booking regardless of status.
func (r *GormTourBookingRepository) Delete(ctx context.Context, ref bookingDomain.Ref) error {
	query := r.db.WithContext(ctx)
	if id, ok := ref.UUID(); ok {
		query = query.Where("id = ?", id)
	} else if legacy, ok := ref.Legacy(); ok {
		query = query.Where("legacy_id = ?", legacy)
	} else {
		return domain.NewNotFoundError("Booking", ref.String())
	}

	result := query.Delete(&TourBookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete tour booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", ref.String())
	}
	return nil
}

// --- Conversion helpers ---

func toTourBookingModel(b *bookingDomain.TourBooking) (*TourBookingModel, error) {
	customerJSON, err := json.Marshal(b.Customer())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer details: %w", err)
	}

	return &TourBookingModel{
		ID:              b.ID(),
		LegacyID:        b.LegacyID(),
		TourID:          b.TourID(),
		TourName:        b.TourName(),
		Customer:        customerJSON,
		BookingDate:     b.BookingDate(),
		NumberOfPeople:  b.NumberOfPeople(),
		SpecialRequests: b.SpecialRequests(),
		Status:          string(b.Status()),
		TotalAmount:     b.TotalAmount(),
		AssignmentID:    b.AssignmentID(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}, nil
}

func toDomainTourBooking(m *TourBookingModel) (*bookingDomain.TourBooking, error) {
	var customer bookingDomain.CustomerDetails
	if err := json.Unmarshal(m.Customer, &customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer details: %w", err)
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructTourBooking(
		m.ID,
		m.LegacyID,
		m.TourID,
		m.TourName,
		customer,
		m.BookingDate,
		m.NumberOfPeople,
		m.SpecialRequests,
		status,
		m.TotalAmount,
		m.AssignmentID,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

// countByStatus groups rows of the given model by status.
func countByStatus(ctx context.Context, db *gorm.DB, model interface{}) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := db.WithContext(ctx).Model(model).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}
