package driver

import (
	"context"

	"github.com/google/uuid"
)

// DriverRepository defines persistence operations for drivers.
type DriverRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	ListAll(ctx context.Context) ([]*Driver, error)
	Save(ctx context.Context, d *Driver) error
	Update(ctx context.Context, d *Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssignmentRepository defines persistence operations for driver assignments.
//
// CreateWithConfirmation is the transactional heart of driver assignment: it
// must insert the assignment AND flip the referenced booking from pending to
// confirmed as one unit. Implementations back the exclusivity invariant with
// a unique constraint on active assignments rather than check-then-act, and
// return domain.ConflictError when the booking already has an active
// assignment and domain.PartialFailureError when the unit could not be
// applied or rolled back atomically.
type AssignmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*Assignment, error)
	ListAll(ctx context.Context) ([]*Assignment, error)
	CreateWithConfirmation(ctx context.Context, a *Assignment) error
	Update(ctx context.Context, a *Assignment) error
}
