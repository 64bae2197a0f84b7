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

// TransferBookingModel is the GORM model for the airport_pickup_bookings
// table. Transfer bookings were UUID-keyed from the start; there is no
// legacy serial.
type TransferBookingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ServiceType  string          `gorm:"not null;size:10"`
	Customer     json.RawMessage `gorm:"type:jsonb;not null"`
	Passengers   int             `gorm:"not null"`
	Arrival      json.RawMessage `gorm:"type:jsonb"`
	Departure    json.RawMessage `gorm:"type:jsonb"`
	Notes        string          `gorm:"size:500"`
	Status       string          `gorm:"not null;size:20;index"`
	TotalAmount  float64         `gorm:"type:numeric(10,2);not null"`
	AssignmentID *uuid.UUID      `gorm:"type:uuid"`
	Version      int64           `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TransferBookingModel) TableName() string {
	return "airport_pickup_bookings"
}

// GormTransferBookingRepository is the GORM-based implementation of
// TransferBookingRepository.
type GormTransferBookingRepository struct {
	db *gorm.DB
}

// NewGormTransferBookingRepository creates a new GormTransferBookingRepository.
func NewGormTransferBookingRepository(db *gorm.DB) *GormTransferBookingRepository {
	return &GormTransferBookingRepository{db: db}
}

// FindByRef retrieves a transfer booking by its canonical UUID.
func (r *GormTransferBookingRepository) FindByRef(ctx context.Context, ref bookingDomain.Ref) (*bookingDomain.AirportTransferBooking, error) {
	id, ok := ref.UUID()
	if !ok {
		return nil, domain.NewNotFoundError("Booking", ref.String())
	}

	var model TransferBookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", ref.String())
		}
		return nil, fmt.Errorf("failed to find transfer booking: %w", err)
	}
	return toDomainTransferBooking(&model)
}

// ListAll retrieves every transfer booking, newest first.
func (r *GormTransferBookingRepository) ListAll(ctx context.Context) ([]*bookingDomain.AirportTransferBooking, error) {
	var models []TransferBookingModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list transfer bookings: %w", err)
	}

	bookings := make([]*bookingDomain.AirportTransferBooking, len(models))
	for i, m := range models {
		b, err := toDomainTransferBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

// CountByStatus returns transfer booking counts grouped by status.
func (r *GormTransferBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.db, &TransferBookingModel{})
}

// Save persists a new transfer booking.
func (r *GormTransferBookingRepository) Save(ctx context.Context, b *bookingDomain.AirportTransferBooking) error {
	model, err := toTransferBookingModel(b)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save transfer booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormTransferBookingRepository) Update(ctx context.Context, b *bookingDomain.AirportTransferBooking) error {
	model, err := toTransferBookingModel(b)
	if err != nil {
		return err
	}

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&TransferBookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"customer":      model.Customer,
			"passengers":    model.Passengers,
			"arrival":       model.Arrival,
			"departure":     model.Departure,
			"notes":         model.Notes,
			"status":        model.Status,
			"assignment_id": model.AssignmentID,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transfer booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// Delete hard-removes a booking regardless of status.
func (r *GormTransferBookingRepository) Delete(ctx context.Context, ref bookingDomain.Ref) error {
	id, ok := ref.UUID()
	if !ok {
		return domain.NewNotFoundError("Booking", ref.String())
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&TransferBookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transfer booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", ref.String())
	}
	return nil
}

// --- Conversion helpers ---

func toTransferBookingModel(b *bookingDomain.AirportTransferBooking) (*TransferBookingModel, error) {
	customerJSON, err := json.Marshal(b.Customer())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal customer details: %w", err)
	}
	arrivalJSON, err := json.Marshal(b.Arrival())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arrival leg: %w", err)
	}
	departureJSON, err := json.Marshal(b.Departure())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal departure leg: %w", err)
	}

	return &TransferBookingModel{
		ID:           b.ID(),
		ServiceType:  string(b.ServiceType()),
		Customer:     customerJSON,
		Passengers:   b.Passengers(),
		Arrival:      arrivalJSON,
		Departure:    departureJSON,
		Notes:        b.Notes(),
		Status:       string(b.Status()),
		TotalAmount:  b.TotalAmount(),
		AssignmentID: b.AssignmentID(),
		Version:      b.Version(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}, nil
}

func toDomainTransferBooking(m *TransferBookingModel) (*bookingDomain.AirportTransferBooking, error) {
	var customer bookingDomain.CustomerDetails
	if err := json.Unmarshal(m.Customer, &customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer details: %w", err)
	}

	var arrival, departure bookingDomain.FlightLeg
	if len(m.Arrival) > 0 {
		if err := json.Unmarshal(m.Arrival, &arrival); err != nil {
			return nil, fmt.Errorf("failed to unmarshal arrival leg: %w", err)
		}
	}
	if len(m.Departure) > 0 {
		if err := json.Unmarshal(m.Departure, &departure); err != nil {
			return nil, fmt.Errorf("failed to unmarshal departure leg: %w", err)
		}
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructAirportTransferBooking(
		m.ID,
		bookingDomain.ServiceType(m.ServiceType),
		customer,
		m.Passengers,
		arrival,
		departure,
		m.Notes,
		status,
		m.TotalAmount,
		m.AssignmentID,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
