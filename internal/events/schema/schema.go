// Package schema defines the Kafka topics and event payloads the booking
// service shares with the notifier. It has no dependencies on the service's
// other packages so both producers and consumers can import it.
package schema

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics used by the booking service.
const (
	// TopicBookingEvents carries booking lifecycle events consumed by the
	// notifier (email + Telegram chat-bot).
	TopicBookingEvents = "mystic.booking.events"

	// TopicNotifierCommands carries staff commands issued from the Telegram
	// chat-bot back into the booking service.
	TopicNotifierCommands = "mystic.notifier.commands"
)

// Booking lifecycle event types.
const (
	BookingReceived  = "booking.received"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingAssigned  = "booking.assigned"
)

// Notifier command types.
const (
	CommandConfirmBooking = "command.confirm_booking"
	CommandCancelBooking  = "command.cancel_booking"
)

// BookingReceivedEvent is published when a customer submits either booking form.
type BookingReceivedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	LegacyID      int64     `json:"legacy_id,omitempty"`
	BookingKind   string    `json:"booking_kind"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Summary       string    `json:"summary"`
	TravelDate    time.Time `json:"travel_date"`
	TotalAmount   float64   `json:"total_amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when a booking reaches confirmed,
// whether through driver assignment or the manual staff override.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingKind   string     `json:"booking_kind"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	AssignmentID  *uuid.UUID `json:"assignment_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingKind   string    `json:"booking_kind"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingAssignedEvent is published when a driver is assigned to a booking.
type BookingAssignedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	BookingKind  string    `json:"booking_kind"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	DriverID     uuid.UUID `json:"driver_id"`
	DriverName   string    `json:"driver_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NotifierCommand is a staff command relayed from the chat-bot. The booking
// reference is a raw string because chat staff may reply with either the
// legacy serial or the UUID.
type NotifierCommand struct {
	Command    string    `json:"command"`
	BookingRef string    `json:"booking_ref"`
	IssuedBy   string    `json:"issued_by"`
	IssuedAt   time.Time `json:"issued_at"`
}
