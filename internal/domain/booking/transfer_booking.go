package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
)

// Passenger limits and notes cap for airport transfers.
const (
	MinTransferPassengers = 1
	MaxTransferPassengers = 10
	MaxTransferNotesLen   = 500
)

// ServiceType identifies which legs of an airport transfer are booked.
type ServiceType string

const (
	ServicePickup  ServiceType = "pickup"
	ServiceDropoff ServiceType = "dropoff"
	ServiceBoth    ServiceType = "both"
)

// IsValid returns true if the service type is recognized.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServicePickup, ServiceDropoff, ServiceBoth:
		return true
	}
	return false
}

// NeedsArrival reports whether the arrival leg fields are required.
func (s ServiceType) NeedsArrival() bool {
	return s == ServicePickup || s == ServiceBoth
}

// NeedsDeparture reports whether the departure leg fields are required.
func (s ServiceType) NeedsDeparture() bool {
	return s == ServiceDropoff || s == ServiceBoth
}

// FlightLeg holds the details of one leg of an airport transfer.
type FlightLeg struct {
	FlightNumber string    `json:"flight_number"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Location     string    `json:"location"`
}

func (l FlightLeg) complete() bool {
	return strings.TrimSpace(l.FlightNumber) != "" &&
		!l.Date.IsZero() &&
		strings.TrimSpace(l.Time) != "" &&
		strings.TrimSpace(l.Location) != ""
}

// AirportTransferBooking is the aggregate root for an airport pickup/dropoff
// reservation. The arrival leg's location is where the driver drops the
// customer off; the departure leg's location is where the driver picks them up.
type AirportTransferBooking struct {
	id uuid.UUID

	serviceType ServiceType
	customer    CustomerDetails
	passengers  int
	arrival     FlightLeg
	departure   FlightLeg
	notes       string

	status       Status
	totalAmount  float64
	assignmentID *uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewAirportTransferBooking creates a new transfer booking with
// status=pending. Which leg fields are required depends on the service type:
// pickup and both need the arrival leg, dropoff and both need the departure
// leg. The total is the flat transfer rate computed before construction.
func NewAirportTransferBooking(
	serviceType ServiceType,
	customer CustomerDetails,
	passengers int,
	arrival FlightLeg,
	departure FlightLeg,
	notes string,
	totalAmount float64,
) (*AirportTransferBooking, error) {
	fields := make(map[string]string)
	customer.validate(fields)
	if !serviceType.IsValid() {
		fields["service_type"] = "service type must be pickup, dropoff, or both"
	}
	if passengers < MinTransferPassengers || passengers > MaxTransferPassengers {
		fields["passengers"] = "passengers must be between 1 and 10"
	}
	if len(notes) > MaxTransferNotesLen {
		fields["notes"] = "notes must be at most 500 characters"
	}
	if serviceType.IsValid() {
		if serviceType.NeedsArrival() {
			if strings.TrimSpace(arrival.FlightNumber) == "" {
				fields["flight_number"] = "arrival flight number is required"
			}
			if arrival.Date.IsZero() {
				fields["arrival_date"] = "arrival date is required"
			}
			if strings.TrimSpace(arrival.Time) == "" {
				fields["arrival_time"] = "arrival time is required"
			}
			if strings.TrimSpace(arrival.Location) == "" {
				fields["dropoff_location"] = "dropoff location is required"
			}
		}
		if serviceType.NeedsDeparture() {
			if strings.TrimSpace(departure.FlightNumber) == "" {
				fields["departure_flight_number"] = "departure flight number is required"
			}
			if departure.Date.IsZero() {
				fields["departure_date"] = "departure date is required"
			}
			if strings.TrimSpace(departure.Time) == "" {
				fields["departure_time"] = "departure time is required"
			}
			if strings.TrimSpace(departure.Location) == "" {
				fields["pickup_location"] = "pickup location is required"
			}
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationErrors(fields)
	}

	// Legs outside the booked service are ignored, not stored.
	if !serviceType.NeedsArrival() {
		arrival = FlightLeg{}
	}
	if !serviceType.NeedsDeparture() {
		departure = FlightLeg{}
	}

	now := time.Now().UTC()
	return &AirportTransferBooking{
		id:          uuid.New(),
		serviceType: serviceType,
		customer:    customer,
		passengers:  passengers,
		arrival:     arrival,
		departure:   departure,
		notes:       notes,
		status:      StatusPending,
		totalAmount: totalAmount,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructAirportTransferBooking rebuilds a transfer booking from
// persistence data (no validation).
func ReconstructAirportTransferBooking(
	id uuid.UUID,
	serviceType ServiceType,
	customer CustomerDetails,
	passengers int,
	arrival FlightLeg,
	departure FlightLeg,
	notes string,
	status Status,
	totalAmount float64,
	assignmentID *uuid.UUID,
	version int64,
	createdAt, updatedAt time.Time,
) *AirportTransferBooking {
	return &AirportTransferBooking{
		id:           id,
		serviceType:  serviceType,
		customer:     customer,
		passengers:   passengers,
		arrival:      arrival,
		departure:    departure,
		notes:        notes,
		status:       status,
		totalAmount:  totalAmount,
		assignmentID: assignmentID,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the canonical UUID.
func (b *AirportTransferBooking) ID() uuid.UUID { return b.id }

// Ref returns the opaque booking reference.
func (b *AirportTransferBooking) Ref() Ref { return NewRef(b.id) }

// ServiceType returns which legs are booked.
func (b *AirportTransferBooking) ServiceType() ServiceType { return b.serviceType }

// Customer returns the submitted contact details.
func (b *AirportTransferBooking) Customer() CustomerDetails { return b.customer }

// Passengers returns the passenger count.
func (b *AirportTransferBooking) Passengers() int { return b.passengers }

// Arrival returns the arrival leg, zero-valued for dropoff-only bookings.
func (b *AirportTransferBooking) Arrival() FlightLeg { return b.arrival }

// Departure returns the departure leg, zero-valued for pickup-only bookings.
func (b *AirportTransferBooking) Departure() FlightLeg { return b.departure }

// Notes returns the free-text notes, if any.
func (b *AirportTransferBooking) Notes() string { return b.notes }

// Status returns the current booking status.
func (b *AirportTransferBooking) Status() Status { return b.status }

// TotalAmount returns the flat rate computed at creation time.
func (b *AirportTransferBooking) TotalAmount() float64 { return b.totalAmount }

// AssignmentID returns the active driver assignment, or nil.
func (b *AirportTransferBooking) AssignmentID() *uuid.UUID { return b.assignmentID }

// Version returns the entity version for optimistic locking.
func (b *AirportTransferBooking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *AirportTransferBooking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *AirportTransferBooking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking to confirmed as part of driver assignment.
func (b *AirportTransferBooking) Confirm(assignmentID uuid.UUID) error {
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
// assignment (explicit staff override).
func (b *AirportTransferBooking) ConfirmManually() error {
	if err := Transition(b.status, StatusConfirmed); err != nil {
		return err
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled. Irreversible.
func (b *AirportTransferBooking) Cancel() error {
	if err := Transition(b.status, StatusCancelled); err != nil {
		return err
	}
	b.status = StatusCancelled
	b.updatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus applies a generic status edit. Equal statuses are a no-op;
// pending->confirmed must go through assignment or ConfirmManually.
func (b *AirportTransferBooking) ChangeStatus(to Status) error {
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

// UpdateDetails applies partial edits to contact fields, legs, and notes.
// The total amount is never recomputed, even if the service type's legs change.
func (b *AirportTransferBooking) UpdateDetails(customer CustomerDetails, arrival, departure FlightLeg, notes string) error {
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
	if len(notes) > MaxTransferNotesLen {
		fields["notes"] = "notes must be at most 500 characters"
	}
	if len(fields) > 0 {
		return domain.NewValidationErrors(fields)
	}
	if b.serviceType.NeedsArrival() && arrival.complete() {
		b.arrival = arrival
	}
	if b.serviceType.NeedsDeparture() && departure.complete() {
		b.departure = departure
	}
	if strings.TrimSpace(notes) != "" {
		b.notes = notes
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *AirportTransferBooking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
