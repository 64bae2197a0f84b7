package driver

import (
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	"github.com/mystic-tours/service-booking/internal/domain/booking"
)

// AssignmentStatus represents the lifecycle of a driver assignment.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// IsValid returns true if the assignment status is recognized.
func (s AssignmentStatus) IsValid() bool {
	return s == AssignmentActive || s == AssignmentCancelled
}

// Assignment links a driver to a booking. At most one active assignment may
// exist per booking; the storage layer enforces this with a partial unique
// index on the booking key.
type Assignment struct {
	id          uuid.UUID
	driverID    uuid.UUID
	bookingID   uuid.UUID
	bookingKind booking.Kind
	status      AssignmentStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAssignment creates an active assignment for the given driver and booking.
func NewAssignment(driverID, bookingID uuid.UUID, kind booking.Kind) (*Assignment, error) {
	if driverID == uuid.Nil {
		return nil, domain.NewValidationError("driver_id", "driver is required")
	}
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking_id", "booking is required")
	}
	now := time.Now().UTC()
	return &Assignment{
		id:          uuid.New(),
		driverID:    driverID,
		bookingID:   bookingID,
		bookingKind: kind,
		status:      AssignmentActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructAssignment rebuilds an Assignment from persistence data.
func ReconstructAssignment(id, driverID, bookingID uuid.UUID, kind booking.Kind, status AssignmentStatus, createdAt, updatedAt time.Time) *Assignment {
	return &Assignment{
		id:          id,
		driverID:    driverID,
		bookingID:   bookingID,
		bookingKind: kind,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (a *Assignment) ID() uuid.UUID             { return a.id }
func (a *Assignment) DriverID() uuid.UUID       { return a.driverID }
func (a *Assignment) BookingID() uuid.UUID      { return a.bookingID }
func (a *Assignment) BookingKind() booking.Kind { return a.bookingKind }
func (a *Assignment) BookingRef() booking.Ref   { return booking.NewRef(a.bookingID) }
func (a *Assignment) Status() AssignmentStatus  { return a.status }
func (a *Assignment) CreatedAt() time.Time      { return a.createdAt }
func (a *Assignment) UpdatedAt() time.Time      { return a.updatedAt }

// IsActive reports whether the assignment still holds the booking.
func (a *Assignment) IsActive() bool {
	return a.status == AssignmentActive
}

// Cancel releases the assignment so the booking can be reassigned.
func (a *Assignment) Cancel() {
	a.status = AssignmentCancelled
	a.updatedAt = time.Now().UTC()
}
