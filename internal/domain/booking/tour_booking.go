package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
)

// TourBooking is the aggregate root for a guided tour reservation submitted
// through the public booking form.
type TourBooking struct {
	id       uuid.UUID
	legacyID int64

	tourID   *uuid.UUID
	tourName string

	customer        CustomerDetails
	bookingDate     time.Time
	numberOfPeople  int
	specialRequests string

	status       Status
	totalAmount  float64
	assignmentID *uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewTourBooking creates a new TourBooking with status=pending. The total
// amount is computed once by the pricing rules before construction and is
// never recomputed on edit.
func NewTourBooking(
	tourID uuid.UUID,
	tourName string,
	customer CustomerDetails,
	bookingDate time.Time,
	numberOfPeople int,
	specialRequests string,
	totalAmount float64,
) (*TourBooking, error) {
	fields := make(map[string]string)
	customer.validate(fields)
	if tourID == uuid.Nil {
		fields["tour_id"] = "tour is required"
	}
	if numberOfPeople < MinTourParty || numberOfPeople > MaxTourParty {
		fields["number_of_people"] = "number of people must be between 1 and 20"
	}
	if bookingDate.IsZero() {
		fields["booking_date"] = "booking date is required"
	} else if beforeToday(bookingDate) {
		fields["booking_date"] = "booking date cannot be in the past"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationErrors(fields)
	}

	now := time.Now().UTC()
	return &TourBooking{
		id:              uuid.New(),
		tourID:          &tourID,
		tourName:        tourName,
		customer:        customer,
		bookingDate:     bookingDate,
		numberOfPeople:  numberOfPeople,
		specialRequests: specialRequests,
		status:          StatusPending,
		totalAmount:     totalAmount,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructTourBooking rebuilds a TourBooking from persistence data (no validation).
func ReconstructTourBooking(
	id uuid.UUID,
	legacyID int64,
	tourID *uuid.UUID,
	tourName string,
	customer CustomerDetails,
	bookingDate time.Time,
	numberOfPeople int,
	specialRequests string,
	status Status,
	totalAmount float64,
	assignmentID *uuid.UUID,
	version int64,
	createdAt, updatedAt time.Time,
) *TourBooking {
	return &TourBooking{
		id:              id,
		legacyID:        legacyID,
		tourID:          tourID,
		tourName:        tourName,
		customer:        customer,
		bookingDate:     bookingDate,
		numberOfPeople:  numberOfPeople,
		specialRequests: specialRequests,
		status:          status,
		totalAmount:     totalAmount,
		assignmentID:    assignmentID,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the canonical UUID.
func (b *TourBooking) ID() uuid.UUID { return b.id }

// LegacyID returns the legacy serial number from the original site, or 0 if
// the booking was created after the migration.
func (b *TourBooking) LegacyID() int64 { return b.legacyID }

// Ref returns the opaque reference carrying both identifiers.
func (b *TourBooking) Ref() Ref { return NewDualRef(b.id, b.legacyID) }

// TourID returns the booked tour, or nil if the catalog entry was removed.
func (b *TourBooking) TourID() *uuid.UUID { return b.tourID }

// TourName returns the tour title captured at booking time.
func (b *TourBooking) TourName() string { return b.tourName }

// Customer returns the submitted contact details.
func (b *TourBooking) Customer() CustomerDetails { return b.customer }

// BookingDate returns the date of the tour.
func (b *TourBooking) BookingDate() time.Time { return b.bookingDate }

// NumberOfPeople returns the party size.
func (b *TourBooking) NumberOfPeople() int { return b.numberOfPeople }

// SpecialRequests returns the free-text requests, if any.
func (b *TourBooking) SpecialRequests() string { return b.specialRequests }

// Status returns the current booking status.
func (b *TourBooking) Status() Status { return b.status }

// TotalAmount returns the total computed at creation time.
func (b *TourBooking) TotalAmount() float64 { return b.totalAmount }

// AssignmentID returns the active driver assignment, or nil.
func (b *TourBooking) AssignmentID() *uuid.UUID { return b.assignmentID }

// Version returns the entity version for optimistic locking.
func (b *TourBooking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *TourBooking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *TourBooking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking to confirmed as part of driver assignment.
func (b *TourBooking) Confirm(assignmentID uuid.UUID) error {
	if b.status == StatusConfirmed {
		return nil
	}
	if err := Transition(b.status, StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusConfirmed
	b.assignmentID = &assignmentID
	b.updatedAt = time.Now().UTC()
	return nil
}

// ConfirmManually transitions the booking to confirmed without a driver
// assignment. This is the explicit staff override; the generic status edit
// path rejects pending->confirmed.
func (b *TourBooking) ConfirmManually() error {
	if err := Transition(b.status, StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled. Irreversible.
func (b *TourBooking) Cancel() error {
	if err := Transition(b.status, StatusCancelled); err != nil {
		return err
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus applies a generic status edit from the admin form. Equal
// statuses are a no-op; pending->confirmed is rejected here because
// confirmation must go through assignment or the explicit manual override.
func (b *TourBooking) ChangeStatus(to Status) error {
	if to == b.status {
		return nil
	}
	if b.status == StatusPending && to == StatusConfirmed {
		return domain.NewInvalidStateError(string(b.status), string(to))
	}
	if err := Transition(b.status, to); err != nil {
		return err
	}
	b.status = to
	b.updatedAt = time.Now().UTC()
	return nil
}

// UpdateDetails applies partial edits to contact and trip fields. The total
// amount is deliberately left untouched.
func (b *TourBooking) UpdateDetails(customer CustomerDetails, bookingDate time.Time, numberOfPeople int, specialRequests string) error {
	fields := make(map[string]string)
	if customer.Name != "" || customer.Email != "" {
		merged := b.customer
		if customer.Name != "" {
			merged.Name = customer.Name
		}
		if customer.Email != "" {
			merged.Email = customer.Email
		}
		if customer.Phone != "" {
			merged.Phone = customer.Phone
		}
		merged.validate(fields)
		if len(fields) == 0 {
			b.customer = merged
		}
	} else if customer.Phone != "" {
		b.customer.Phone = customer.Phone
	}
	if numberOfPeople != 0 {
		if numberOfPeople < MinTourParty || numberOfPeople > MaxTourParty {
			fields["number_of_people"] = "number of people must be between 1 and 20"
		} else {
			b.numberOfPeople = numberOfPeople
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	if !bookingDate.IsZero() {
		b.bookingDate = bookingDate
	}
	if strings.TrimSpace(specialRequests) != "" {
		b.specialRequests = specialRequests
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// AssignLegacyID backfills the database-generated legacy serial after the
// first insert. It never overwrites an existing value.
func (b *TourBooking) AssignLegacyID(n int64) {
	if b.legacyID == 0 && n > 0 {
		b.legacyID = n
	}
}

// DetachTour clears the tour reference after a catalog entry is removed.
func (b *TourBooking) DetachTour() {
	b.tourID = nil
	b.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (b *TourBooking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// beforeToday reports whether the date falls before today in UTC. Bookings
// for the current day are accepted.
func beforeToday(t time.Time) bool {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := t.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}
