package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	driverDomain "github.com/mystic-tours/service-booking/internal/domain/driver"
	"go.uber.org/zap"
)

// CreateDriverRequest holds the data for registering a driver.
type CreateDriverRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// UpdateDriverRequest holds partial edits to a driver profile.
type UpdateDriverRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
	Status  string `json:"status"`
}

// DriverDTO is the response representation of a driver.
type DriverDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Vehicle   string    `json:"vehicle,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DriverService manages the driver roster from the admin back-office.
type DriverService struct {
	drivers driverDomain.DriverRepository
	logger  *zap.Logger
}

// NewDriverService creates a new DriverService.
func NewDriverService(drivers driverDomain.DriverRepository, logger *zap.Logger) *DriverService {
	return &DriverService{drivers: drivers, logger: logger}
}

// CreateDriver registers a new driver, available by default.
func (s *DriverService) CreateDriver(ctx context.Context, req CreateDriverRequest) (*DriverDTO, error) {
	d, err := driverDomain.NewDriver(req.Name, req.Phone, req.Vehicle)
	if err != nil {
		return nil, err
	}
	if err := s.drivers.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save driver: %w", err)
	}
	result := toDriverDTO(d)
	return &result, nil
}

// GetDriver retrieves a driver by id.
func (s *DriverService) GetDriver(ctx context.Context, id uuid.UUID) (*DriverDTO, error) {
	d, err := s.drivers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toDriverDTO(d)
	return &result, nil
}

// ListDrivers returns the full driver roster.
func (s *DriverService) ListDrivers(ctx context.Context) ([]DriverDTO, error) {
	drivers, err := s.drivers.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	dtos := make([]DriverDTO, len(drivers))
	for i, d := range drivers {
		dtos[i] = toDriverDTO(d)
	}
	return dtos, nil
}

// UpdateDriver applies partial edits to a driver profile, including
// availability changes.
func (s *DriverService) UpdateDriver(ctx context.Context, id uuid.UUID, req UpdateDriverRequest) (*DriverDTO, error) {
	d, err := s.drivers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Update(req.Name, req.Phone, req.Vehicle)
	if req.Status != "" {
		status, err := driverDomain.ParseDriverStatus(req.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
		if err := d.SetStatus(status); err != nil {
			return nil, err
		}
	}

	if err := s.drivers.Update(ctx, d); err != nil {
		return nil, err
	}
	result := toDriverDTO(d)
	return &result, nil
}

// DeleteDriver removes a driver from the roster.
func (s *DriverService) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	return s.drivers.Delete(ctx, id)
}

func toDriverDTO(d *driverDomain.Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID(),
		Name:      d.Name(),
		Phone:     d.Phone(),
		Vehicle:   d.Vehicle(),
		Status:    string(d.Status()),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}
