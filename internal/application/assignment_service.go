package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	driverDomain "github.com/mystic-tours/service-booking/internal/domain/driver"
	"github.com/mystic-tours/service-booking/internal/events/schema"
	"github.com/mystic-tours/service-booking/internal/platform/kafka"
	"go.uber.org/zap"
)

// AssignDriverRequest identifies the driver to put on a booking.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

// AssignmentDTO is the response representation of a driver assignment.
type AssignmentDTO struct {
	ID          uuid.UUID `json:"id"`
	DriverID    uuid.UUID `json:"driver_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	BookingKind string    `json:"booking_kind"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssignmentService orchestrates driver assignment: resolving the booking
// reference, creating the assignment, and confirming the booking as one
// storage transaction.
type AssignmentService struct {
	assignments      driverDomain.AssignmentRepository
	drivers          driverDomain.DriverRepository
	tourBookings     bookingDomain.TourBookingRepository
	transferBookings bookingDomain.TransferBookingRepository
	producer         *kafka.Producer
	logger           *zap.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignments driverDomain.AssignmentRepository,
	drivers driverDomain.DriverRepository,
	tourBookings bookingDomain.TourBookingRepository,
	transferBookings bookingDomain.TransferBookingRepository,
	producer *kafka.Producer,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments:      assignments,
		drivers:          drivers,
		tourBookings:     tourBookings,
		transferBookings: transferBookings,
		producer:         producer,
		logger:           logger,
	}
}

// AssignDriver puts a driver on a pending booking and confirms it. The
// assignment insert and the status flip commit together; a booking that
// already holds an active assignment fails with a conflict, and a booking
// outside pending fails with an invalid-state error.
func (s *AssignmentService) AssignDriver(ctx context.Context, ref bookingDomain.Ref, req AssignDriverRequest) (*AssignmentDTO, error) {
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return nil, domain.NewValidationError("driver_id", "driver id must be a valid UUID")
	}

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d.Status() == driverDomain.DriverOffline {
		return nil, domain.NewConflictError("driver is offline and cannot take assignments")
	}

	tb, transfer, err := resolveBooking(ctx, s.tourBookings, s.transferBookings, ref)
	if err != nil {
		return nil, err
	}
	var bookingID uuid.UUID
	var kind bookingDomain.Kind
	if tb != nil {
		bookingID = tb.ID()
		kind = bookingDomain.KindTour
	} else {
		bookingID = transfer.ID()
		kind = bookingDomain.KindAirport
	}

	assignment, err := driverDomain.NewAssignment(driverID, bookingID, kind)
	if err != nil {
		return nil, err
	}

	if err := s.assignments.CreateWithConfirmation(ctx, assignment); err != nil {
		// A partial failure means the store may hold the assignment without
		// the confirmation (or the other way round) and needs manual
		// reconciliation. Log it with full detail here; the response layer
		// only shows the caller a generic failure.
		var partial *domain.PartialFailureError
		if errors.As(err, &partial) {
			s.logger.Error("driver assignment left partially applied, manual reconciliation required",
				zap.String("assignment_id", assignment.ID().String()),
				zap.String("booking_id", bookingID.String()),
				zap.String("driver_id", driverID.String()),
				zap.String("operation", partial.Operation),
				zap.Error(partial),
			)
		}
		return nil, err
	}

	// The booking is already confirmed at this point; driver bookkeeping and
	// notifications are best-effort.
	if err := d.SetStatus(driverDomain.DriverBusy); err == nil {
		if err := s.drivers.Update(ctx, d); err != nil {
			s.logger.Warn("failed to mark driver busy after assignment",
				zap.String("driver_id", driverID.String()),
				zap.Error(err),
			)
		}
	}

	assignmentID := assignment.ID()
	s.publishEvent(ctx, schema.BookingAssigned, bookingID.String(), schema.BookingAssignedEvent{
		BookingID:    bookingID,
		BookingKind:  string(kind),
		AssignmentID: assignmentID,
		DriverID:     driverID,
		DriverName:   d.Name(),
		OccurredAt:   time.Now().UTC(),
	})
	var customer bookingDomain.CustomerDetails
	if tb != nil {
		customer = tb.Customer()
	} else {
		customer = transfer.Customer()
	}
	s.publishEvent(ctx, schema.BookingConfirmed, bookingID.String(), schema.BookingConfirmedEvent{
		BookingID:     bookingID,
		BookingKind:   string(kind),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		AssignmentID:  &assignmentID,
		OccurredAt:    time.Now().UTC(),
	})

	result := toAssignmentDTO(assignment)
	return &result, nil
}

// CancelAssignment releases an active assignment and frees the driver. The
// booking keeps its confirmed status; cancelling the booking itself is a
// separate operation.
func (s *AssignmentService) CancelAssignment(ctx context.Context, assignmentID uuid.UUID) (*AssignmentDTO, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive() {
		return nil, domain.NewInvalidStateError(string(assignment.Status()), string(driverDomain.AssignmentCancelled))
	}

	assignment.Cancel()
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, err
	}

	d, err := s.drivers.FindByID(ctx, assignment.DriverID())
	if err == nil && d.Status() == driverDomain.DriverBusy {
		if err := d.SetStatus(driverDomain.DriverAvailable); err == nil {
			if err := s.drivers.Update(ctx, d); err != nil {
				s.logger.Warn("failed to free driver after assignment cancel",
					zap.String("driver_id", d.ID().String()),
					zap.Error(err),
				)
			}
		}
	}

	result := toAssignmentDTO(assignment)
	return &result, nil
}

// GetAssignment retrieves an assignment by id.
func (s *AssignmentService) GetAssignment(ctx context.Context, id uuid.UUID) (*AssignmentDTO, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toAssignmentDTO(assignment)
	return &result, nil
}

// GetActiveAssignmentForBooking retrieves the active assignment holding a
// booking, resolving the reference first.
func (s *AssignmentService) GetActiveAssignmentForBooking(ctx context.Context, ref bookingDomain.Ref) (*AssignmentDTO, error) {
	tb, transfer, err := resolveBooking(ctx, s.tourBookings, s.transferBookings, ref)
	if err != nil {
		return nil, err
	}
	var bookingID uuid.UUID
	if tb != nil {
		bookingID = tb.ID()
	} else {
		bookingID = transfer.ID()
	}

	assignment, err := s.assignments.FindActiveByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toAssignmentDTO(assignment)
	return &result, nil
}

// ListAssignments returns all assignments, newest first (admin).
func (s *AssignmentService) ListAssignments(ctx context.Context) ([]AssignmentDTO, error) {
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	return dtos, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventKeyed(ctx, schema.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", schema.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toAssignmentDTO(a *driverDomain.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          a.ID(),
		DriverID:    a.DriverID(),
		BookingID:   a.BookingID(),
		BookingKind: string(a.BookingKind()),
		Status:      string(a.Status()),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}
