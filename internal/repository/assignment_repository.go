package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	driverDomain "github.com/mystic-tours/service-booking/internal/domain/driver"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// AssignmentModel is the GORM model for the driver_assignments table. The
// partial unique index on (booking_id) WHERE status = 'active' is what makes
// assignment exclusivity hold under concurrent requests; application-level
// check-then-act alone would be racy.
type AssignmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BookingID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_assignments_active_booking,where:status = 'active'"`
	BookingKind string    `gorm:"not null;size:10"`
	Status      string    `gorm:"not null;size:20;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AssignmentModel) TableName() string {
	return "driver_assignments"
}

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// FindByID retrieves an assignment by id.
func (r *GormAssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*driverDomain.Assignment, error) {
	var model AssignmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Assignment", id.String())
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return toDomainAssignment(&model)
}

// FindActiveByBookingID retrieves the active assignment for a booking, if any.
func (r *GormAssignmentRepository) FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*driverDomain.Assignment, error) {
	var model AssignmentModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, string(driverDomain.AssignmentActive)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Assignment", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find active assignment: %w", err)
	}
	return toDomainAssignment(&model)
}

// ListAll retrieves all assignments, newest first.
func (r *GormAssignmentRepository) ListAll(ctx context.Context) ([]*driverDomain.Assignment, error) {
	var models []AssignmentModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments := make([]*driverDomain.Assignment, len(models))
	for i, m := range models {
		a, err := toDomainAssignment(&m)
		if err != nil {
			return nil, err
		}
		assignments[i] = a
	}
	return assignments, nil
}

// CreateWithConfirmation inserts the assignment and flips the referenced
// booking from pending to confirmed inside one database transaction. Either
// both writes are visible afterwards or neither is. A unique violation on
// the active-assignment index maps to a ConflictError; a rollback failure
// surfaces as PartialFailureError because the store may be left half-applied.
func (r *GormAssignmentRepository) CreateWithConfirmation(ctx context.Context, a *driverDomain.Assignment) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin assignment transaction: %w", tx.Error)
	}

	if err := tx.Create(toAssignmentModel(a)).Error; err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return domain.NewPartialFailureError("driver assignment", rbErr)
		}
		if isUniqueViolation(err) {
			return domain.NewConflictError("booking already has an active driver assignment")
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	table, err := bookingTableFor(a.BookingKind())
	if err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return domain.NewPartialFailureError("driver assignment", rbErr)
		}
		return err
	}

	assignmentID := a.ID()
	result := tx.Table(table).
		Where("id = ? AND status = ?", a.BookingID(), string(bookingDomain.StatusPending)).
		Updates(map[string]interface{}{
			"status":        string(bookingDomain.StatusConfirmed),
			"assignment_id": assignmentID,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return domain.NewPartialFailureError("driver assignment", rbErr)
		}
		return fmt.Errorf("failed to confirm booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var status string
		tx.Table(table).Select("status").Where("id = ?", a.BookingID()).Scan(&status)
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return domain.NewPartialFailureError("driver assignment", rbErr)
		}
		if status == "" {
			return domain.NewNotFoundError("Booking", a.BookingID().String())
		}
		return domain.NewInvalidStateError(status, string(bookingDomain.StatusConfirmed))
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	return nil
}

// Update persists changes to an existing assignment.
func (r *GormAssignmentRepository) Update(ctx context.Context, a *driverDomain.Assignment) error {
	model := toAssignmentModel(a)
	result := r.db.WithContext(ctx).
		Model(&AssignmentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Assignment", model.ID.String())
	}
	return nil
}

// --- Helpers ---

func bookingTableFor(kind bookingDomain.Kind) (string, error) {
	switch kind {
	case bookingDomain.KindTour:
		return TourBookingModel{}.TableName(), nil
	case bookingDomain.KindAirport:
		return TransferBookingModel{}.TableName(), nil
	default:
		return "", fmt.Errorf("unknown booking kind: %s", kind)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func toAssignmentModel(a *driverDomain.Assignment) *AssignmentModel {
	return &AssignmentModel{
		ID:          a.ID(),
		DriverID:    a.DriverID(),
		BookingID:   a.BookingID(),
		BookingKind: string(a.BookingKind()),
		Status:      string(a.Status()),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

func toDomainAssignment(m *AssignmentModel) (*driverDomain.Assignment, error) {
	status := driverDomain.AssignmentStatus(m.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid assignment status: %s", m.Status)
	}
	return driverDomain.ReconstructAssignment(
		m.ID, m.DriverID, m.BookingID,
		bookingDomain.Kind(m.BookingKind),
		status, m.CreatedAt, m.UpdatedAt,
	), nil
}
