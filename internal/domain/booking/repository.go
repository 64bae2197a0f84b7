package booking

import (
	"context"
)

// TourBookingRepository defines the persistence contract for tour bookings.
type TourBookingRepository interface {
	// FindByRef retrieves a tour booking by UUID or legacy serial.
	FindByRef(ctx context.Context, ref Ref) (*TourBooking, error)

	// ListAll retrieves every tour booking for the merged admin view.
	ListAll(ctx context.Context) ([]*TourBooking, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new tour booking and backfills its legacy serial.
	Save(ctx context.Context, b *TourBooking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *TourBooking) error

	// Delete hard-removes a booking regardless of status.
	Delete(ctx context.Context, ref Ref) error
}

// TransferBookingRepository defines the persistence contract for airport
// transfer bookings.
type TransferBookingRepository interface {
	FindByRef(ctx context.Context, ref Ref) (*AirportTransferBooking, error)
	ListAll(ctx context.Context) ([]*AirportTransferBooking, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, b *AirportTransferBooking) error
	Update(ctx context.Context, b *AirportTransferBooking) error
	Delete(ctx context.Context, ref Ref) error
}
